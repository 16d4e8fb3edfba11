package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docflow/internal/cache"
	"docflow/internal/config"
	"docflow/internal/domain"
	"docflow/internal/domain/gateways"
	"docflow/internal/domain/models"
	"docflow/internal/domain/services"
	"docflow/internal/httputil"
	"docflow/internal/rbac"
	"docflow/internal/templates"
)

// instructionsSeparator labels user-supplied free text appended to a section
// description when building a regeneration prompt.
const instructionsSeparator = "\n\nAdditional instructions:\n"

// sectionService implements the SectionService interface
type sectionService struct {
	docs      gateways.DocumentGateway
	generator gateways.GenerationGateway
	cache     *cache.Cache
	views     *ViewRegistry
	templates *templates.Registry
	logger    *slog.Logger
}

// NewSectionService creates a new section service
func NewSectionService(
	docs gateways.DocumentGateway,
	generator gateways.GenerationGateway,
	cacheLayer *cache.Cache,
	views *ViewRegistry,
	templateRegistry *templates.Registry,
	logger *slog.Logger,
) services.SectionService {
	return &sectionService{
		docs:      docs,
		generator: generator,
		cache:     cacheLayer,
		views:     views,
		templates: templateRegistry,
		logger:    logger,
	}
}

// List fetches sections through the cache and reconciles any open edit
// buffers with the fresh server content.
func (s *sectionService) List(ctx context.Context, documentID string) (*models.SectionList, error) {
	list, err := cache.GetOrFetch(ctx, s.cache, cache.SectionsKey(documentID), func(ctx context.Context) (*models.SectionList, error) {
		return s.docs.ListSections(ctx, documentID)
	})
	if err != nil {
		return nil, err
	}

	// External refresh is an explicit edit-state transition on every view of
	// this document, not an emergent property of a later comparison.
	s.views.mu.RLock()
	for _, view := range s.views.views {
		if view.documentID == documentID {
			view.syncBuffers(list.Sections)
		}
	}
	s.views.mu.RUnlock()

	return list, nil
}

func (s *sectionService) Add(ctx context.Context, viewID string, req *services.AddSectionRequest) (*models.DocumentSection, error) {
	view, err := s.views.get(viewID)
	if err != nil {
		return nil, err
	}
	if !rbac.Can(rbac.Normalize(httputil.GetOrgRole(ctx)), rbac.ActionWrite) {
		return nil, fmt.Errorf("%w: role cannot edit sections", domain.ErrForbidden)
	}
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxSectionTitleLength)),
		validation.Field(&req.Description, validation.Length(0, config.MaxSectionDescriptionLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if !view.begin("section:add") {
		return nil, domain.ErrBusy
	}
	defer view.end("section:add")

	list, err := s.List(ctx, view.documentID)
	if err != nil {
		return nil, err
	}

	// Ordering is append-only: the new section always goes to the end
	section, err := s.docs.CreateSection(ctx, view.documentID, &gateways.CreateSectionRequest{
		LibrarySectionID: req.LibrarySectionID,
		Title:            req.Title,
		Description:      req.Description,
		DisplayOrder:     len(list.Sections) + 1,
		IsIncluded:       true,
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSections(ctx, view.documentID)
	s.logger.Info("section added", "document_id", view.documentID, "section_id", section.ID)
	return section, nil
}

func (s *sectionService) Update(ctx context.Context, viewID, sectionID string, req *services.UpdateSectionRequest) (*models.DocumentSection, error) {
	view, err := s.views.get(viewID)
	if err != nil {
		return nil, err
	}
	if !rbac.Can(rbac.Normalize(httputil.GetOrgRole(ctx)), rbac.ActionWrite) {
		return nil, fmt.Errorf("%w: role cannot edit sections", domain.ErrForbidden)
	}
	if req.Title != nil {
		if err := validation.Validate(*req.Title, validation.Required, validation.Length(1, config.MaxSectionTitleLength)); err != nil {
			return nil, fmt.Errorf("%w: title: %v", domain.ErrValidation, err)
		}
	}
	if req.Description != nil {
		if err := validation.Validate(*req.Description, validation.Length(0, config.MaxSectionDescriptionLength)); err != nil {
			return nil, fmt.Errorf("%w: description: %v", domain.ErrValidation, err)
		}
	}

	op := "section:update:" + sectionID
	if !view.begin(op) {
		return nil, domain.ErrBusy
	}
	defer view.end(op)

	section, err := s.docs.UpdateSection(ctx, view.documentID, sectionID, &gateways.UpdateSectionRequest{
		Title:       req.Title,
		Description: req.Description,
		IsIncluded:  req.IsIncluded,
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSections(ctx, view.documentID)
	return section, nil
}

func (s *sectionService) Remove(ctx context.Context, viewID, sectionID string) error {
	view, err := s.views.get(viewID)
	if err != nil {
		return err
	}
	if !rbac.Can(rbac.Normalize(httputil.GetOrgRole(ctx)), rbac.ActionWrite) {
		return fmt.Errorf("%w: role cannot edit sections", domain.ErrForbidden)
	}

	op := "section:remove:" + sectionID
	if !view.begin(op) {
		return domain.ErrBusy
	}
	defer view.end(op)

	if err := s.docs.DeleteSection(ctx, view.documentID, sectionID); err != nil {
		return err
	}

	view.mu.Lock()
	if view.selectedSectionID == sectionID {
		view.selectedSectionID = ""
	}
	delete(view.buffers, sectionID)
	view.mu.Unlock()

	s.invalidateSections(ctx, view.documentID)
	s.logger.Info("section removed", "document_id", view.documentID, "section_id", sectionID)
	return nil
}

func (s *sectionService) Reorder(ctx context.Context, viewID string, orderedIDs []string) error {
	view, err := s.views.get(viewID)
	if err != nil {
		return err
	}
	if !rbac.Can(rbac.Normalize(httputil.GetOrgRole(ctx)), rbac.ActionWrite) {
		return fmt.Errorf("%w: role cannot edit sections", domain.ErrForbidden)
	}
	if len(orderedIDs) == 0 {
		return fmt.Errorf("%w: ordered section ids are required", domain.ErrValidation)
	}

	if !view.begin("section:reorder") {
		return domain.ErrBusy
	}
	defer view.end("section:reorder")

	if err := s.docs.ReorderSections(ctx, view.documentID, orderedIDs); err != nil {
		return err
	}

	s.invalidateSections(ctx, view.documentID)
	return nil
}

func (s *sectionService) SelectSection(viewID, sectionID string) error {
	view, err := s.views.get(viewID)
	if err != nil {
		return err
	}
	view.mu.Lock()
	view.selectedSectionID = sectionID
	view.mu.Unlock()
	return nil
}

func (s *sectionService) OpenEditor(ctx context.Context, viewID, sectionID string) (*services.EditorState, error) {
	view, err := s.views.get(viewID)
	if err != nil {
		return nil, err
	}

	view.mu.Lock()
	if buf, ok := view.buffers[sectionID]; ok {
		state := editorState(sectionID, buf)
		view.mu.Unlock()
		return state, nil
	}
	view.mu.Unlock()

	section, err := s.findSection(ctx, view.documentID, sectionID)
	if err != nil {
		return nil, err
	}

	content := section.ContentText()
	buf := &editBuffer{content: content, saved: content, state: services.EditClean}

	view.mu.Lock()
	view.buffers[sectionID] = buf
	state := editorState(sectionID, buf)
	view.mu.Unlock()
	return state, nil
}

func (s *sectionService) SetBuffer(viewID, sectionID, content string) (*services.EditorState, error) {
	view, err := s.views.get(viewID)
	if err != nil {
		return nil, err
	}

	view.mu.Lock()
	defer view.mu.Unlock()

	buf, ok := view.buffers[sectionID]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("no open editor for section %s", sectionID)}
	}
	if buf.state == services.EditSaving {
		return nil, domain.ErrBusy
	}

	buf.content = content
	if buf.content == buf.saved {
		buf.state = services.EditClean
	} else {
		buf.state = services.EditDirty
	}
	return editorState(sectionID, buf), nil
}

func (s *sectionService) Editor(viewID, sectionID string) (*services.EditorState, error) {
	view, err := s.views.get(viewID)
	if err != nil {
		return nil, err
	}

	view.mu.Lock()
	defer view.mu.Unlock()

	buf, ok := view.buffers[sectionID]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("no open editor for section %s", sectionID)}
	}
	return editorState(sectionID, buf), nil
}

func (s *sectionService) CloseEditor(viewID, sectionID string) error {
	view, err := s.views.get(viewID)
	if err != nil {
		return err
	}
	view.mu.Lock()
	delete(view.buffers, sectionID)
	view.mu.Unlock()
	return nil
}

// Save persists the buffer content. The buffer moves through Saving and ends
// Clean on success or SaveFailed (draft preserved) on error; nothing was
// applied optimistically, so there is no rollback.
func (s *sectionService) Save(ctx context.Context, viewID, sectionID string) (*models.DocumentSection, error) {
	view, err := s.views.get(viewID)
	if err != nil {
		return nil, err
	}
	if !rbac.Can(rbac.Normalize(httputil.GetOrgRole(ctx)), rbac.ActionWrite) {
		return nil, fmt.Errorf("%w: role cannot edit sections", domain.ErrForbidden)
	}

	op := "section:save:" + sectionID
	if !view.begin(op) {
		return nil, domain.ErrBusy
	}
	defer view.end(op)

	view.mu.Lock()
	buf, ok := view.buffers[sectionID]
	if !ok {
		view.mu.Unlock()
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("no open editor for section %s", sectionID)}
	}
	if buf.state == services.EditClean {
		view.mu.Unlock()
		// Nothing to persist; report the section as-is
		return s.findSection(ctx, view.documentID, sectionID)
	}
	buf.state = services.EditSaving
	content := buf.content
	view.mu.Unlock()

	section, err := s.docs.UpdateSectionContent(ctx, view.documentID, sectionID, content)

	view.mu.Lock()
	if err != nil {
		buf.state = services.EditSaveFailed
		view.mu.Unlock()
		return nil, err
	}
	buf.saved = section.ContentText()
	if buf.content == buf.saved {
		buf.state = services.EditClean
	} else {
		// The user kept typing while the save was in flight
		buf.state = services.EditDirty
	}
	view.mu.Unlock()

	s.invalidateSections(ctx, view.documentID)
	s.logger.Info("section saved", "document_id", view.documentID, "section_id", sectionID)
	return section, nil
}

// Regenerate requests fresh content for one section. The prompt is the
// section description (or its library default when the description is empty)
// plus any free-text instructions under a labeled separator. New content
// always wins over an open edit buffer.
func (s *sectionService) Regenerate(ctx context.Context, viewID, sectionID string, req *services.RegenerateRequest) (*models.SectionGenerationResult, error) {
	view, err := s.views.get(viewID)
	if err != nil {
		return nil, err
	}
	if !rbac.Can(rbac.Normalize(httputil.GetOrgRole(ctx)), rbac.ActionWrite) {
		return nil, fmt.Errorf("%w: role cannot regenerate sections", domain.ErrForbidden)
	}
	if err := validation.Validate(req.Instructions, validation.Length(0, config.MaxInstructionsLength)); err != nil {
		return nil, fmt.Errorf("%w: instructions: %v", domain.ErrValidation, err)
	}

	op := "section:regenerate:" + sectionID
	if !view.begin(op) {
		return nil, domain.ErrBusy
	}
	defer view.end(op)

	section, err := s.findSection(ctx, view.documentID, sectionID)
	if err != nil {
		return nil, err
	}

	prompt := s.buildPrompt(ctx, view.documentID, section, req.Instructions)

	result, err := s.generator.RegenerateSection(ctx, view.documentID, sectionID, prompt)
	if err != nil {
		return nil, err
	}

	// Regeneration wins over concurrent editing: replace the buffer and drop
	// unsaved edits.
	view.mu.Lock()
	if buf, ok := view.buffers[sectionID]; ok {
		buf.content = result.Content
		buf.saved = result.Content
		buf.state = services.EditClean
	}
	view.mu.Unlock()

	s.invalidateSections(ctx, view.documentID)
	return result, nil
}

func (s *sectionService) buildPrompt(ctx context.Context, documentID string, section *models.DocumentSection, instructions string) string {
	base := section.Description
	if base == "" && section.LibrarySectionID != nil {
		// Fall back to the library definition's default prompt
		if doc, err := cache.GetOrFetch(ctx, s.cache, cache.DocumentKey(documentID), func(ctx context.Context) (*models.Document, error) {
			return s.docs.GetDocument(ctx, documentID)
		}); err == nil && doc.TemplateID != "" {
			if def, err := s.templates.Section(doc.TemplateID, *section.LibrarySectionID); err == nil {
				base = def.Prompt
			}
		}
	}
	if base == "" {
		base = section.Title
	}
	if instructions == "" {
		return base
	}
	return base + instructionsSeparator + instructions
}

func (s *sectionService) findSection(ctx context.Context, documentID, sectionID string) (*models.DocumentSection, error) {
	list, err := s.List(ctx, documentID)
	if err != nil {
		return nil, err
	}
	for i := range list.Sections {
		if list.Sections[i].ID == sectionID {
			return &list.Sections[i], nil
		}
	}
	return nil, &domain.NotFoundError{Message: fmt.Sprintf("section %s not found", sectionID)}
}

func (s *sectionService) invalidateSections(ctx context.Context, documentID string) {
	s.cache.Invalidate(ctx,
		cache.SectionsKey(documentID),
		cache.DocumentKey(documentID),
	)
}

func editorState(sectionID string, buf *editBuffer) *services.EditorState {
	return &services.EditorState{
		SectionID: sectionID,
		Content:   buf.content,
		Saved:     buf.saved,
		State:     buf.state,
	}
}
