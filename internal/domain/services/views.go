package services

import (
	"context"
	"time"
)

// ViewService manages document-view sessions. A view is the server-side stand-in
// for one open editor: it owns the auto-generation latch, per-section edit
// buffers, the version-comparison selection and per-operation busy flags.
// Views are session-scoped; closing (or expiring) a view discards all of it.
type ViewService interface {
	// Open creates a view for the given document, verifying the document exists.
	Open(ctx context.Context, userID, documentID string) (*ViewState, error)

	// Get returns a snapshot of the view's local state.
	Get(viewID string) (*ViewState, error)

	// Close discards the view and all its unsaved local state.
	Close(viewID string) error
}

// ViewState is a read-only snapshot of a view's session-local state.
type ViewState struct {
	ID                  string    `json:"id"`
	DocumentID          string    `json:"document_id"`
	UserID              string    `json:"user_id"`
	SelectedSectionID   string    `json:"selected_section_id,omitempty"`
	CompareSelection    []int     `json:"compare_selection,omitempty"`
	GenerationTriggered bool      `json:"generation_triggered"`
	CreatedAt           time.Time `json:"created_at"`
}
