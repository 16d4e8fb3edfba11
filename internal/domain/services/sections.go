package services

import (
	"context"

	"docflow/internal/domain/models"
)

// EditState is the explicit per-section editing state. Dirty tracking is a
// real state machine, not an inferred buffer/content comparison, so every
// transition (including an external content refresh) is observable.
type EditState string

const (
	EditClean      EditState = "clean"
	EditDirty      EditState = "dirty"
	EditSaving     EditState = "saving"
	EditSaveFailed EditState = "save_failed"
)

// SectionService is the per-section content pipeline: generation, manual
// editing and structural changes. Every operation that talks to the backend
// carries its own busy flag on the view; a duplicate concurrent call for the
// same section is dropped with ErrBusy, never queued.
type SectionService interface {
	List(ctx context.Context, documentID string) (*models.SectionList, error)

	// Add appends a section at display_order = current count + 1.
	Add(ctx context.Context, viewID string, req *AddSectionRequest) (*models.DocumentSection, error)

	Update(ctx context.Context, viewID, sectionID string, req *UpdateSectionRequest) (*models.DocumentSection, error)

	// Remove deletes the section; if it was the view's selected section the
	// selection is cleared.
	Remove(ctx context.Context, viewID, sectionID string) error

	Reorder(ctx context.Context, viewID string, orderedIDs []string) error

	// SelectSection records the view's selected section.
	SelectSection(viewID, sectionID string) error

	// OpenEditor starts an edit buffer seeded with the section's current
	// content; reopening an existing buffer is a no-op.
	OpenEditor(ctx context.Context, viewID, sectionID string) (*EditorState, error)

	// SetBuffer replaces the draft content; the state becomes Dirty unless the
	// draft equals the last-saved content.
	SetBuffer(viewID, sectionID, content string) (*EditorState, error)

	// Editor returns the buffer's current state.
	Editor(viewID, sectionID string) (*EditorState, error)

	CloseEditor(viewID, sectionID string) error

	// Save persists the buffer (Dirty/SaveFailed -> Saving -> Clean, or back to
	// SaveFailed with the draft preserved).
	Save(ctx context.Context, viewID, sectionID string) (*models.DocumentSection, error)

	// Regenerate requests fresh content for one section. On success the new
	// content replaces both the section and any open edit buffer; unsaved edits
	// are discarded (regeneration wins, last-writer semantics by design choice
	// documented on the operation).
	Regenerate(ctx context.Context, viewID, sectionID string, req *RegenerateRequest) (*models.SectionGenerationResult, error)
}

type AddSectionRequest struct {
	LibrarySectionID *string `json:"library_section_id,omitempty"`
	Title            string  `json:"title"`
	Description      string  `json:"description,omitempty"`
}

type UpdateSectionRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	IsIncluded  *bool   `json:"is_included,omitempty"`
}

// RegenerateRequest carries optional free-text instructions appended to the
// section's own description to form the prompt.
type RegenerateRequest struct {
	Instructions string `json:"instructions,omitempty"`
}

// EditorState is a snapshot of one section's edit buffer.
type EditorState struct {
	SectionID string    `json:"section_id"`
	Content   string    `json:"content"`
	Saved     string    `json:"saved_content"`
	State     EditState `json:"state"`
}

// HasUnsavedChanges reports whether the buffer diverges from persisted content.
func (e *EditorState) HasUnsavedChanges() bool {
	return e.State == EditDirty || e.State == EditSaveFailed
}
