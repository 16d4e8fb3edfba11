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

// lifecycleService implements the LifecycleService interface
type lifecycleService struct {
	docs      gateways.DocumentGateway
	generator gateways.GenerationGateway
	cache     *cache.Cache
	views     *ViewRegistry
	templates *templates.Registry
	logger    *slog.Logger
}

// NewLifecycleService creates a new lifecycle service
func NewLifecycleService(
	docs gateways.DocumentGateway,
	generator gateways.GenerationGateway,
	cacheLayer *cache.Cache,
	views *ViewRegistry,
	templateRegistry *templates.Registry,
	logger *slog.Logger,
) services.LifecycleService {
	return &lifecycleService{
		docs:      docs,
		generator: generator,
		cache:     cacheLayer,
		views:     views,
		templates: templateRegistry,
		logger:    logger,
	}
}

func (s *lifecycleService) ListDocuments(ctx context.Context, projectID string) (*models.DocumentList, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: project_id is required", domain.ErrValidation)
	}
	return cache.GetOrFetch(ctx, s.cache, cache.DocumentListKey(projectID), func(ctx context.Context) (*models.DocumentList, error) {
		return s.docs.ListDocuments(ctx, projectID)
	})
}

func (s *lifecycleService) GetDocument(ctx context.Context, documentID string) (*models.Document, error) {
	return cache.GetOrFetch(ctx, s.cache, cache.DocumentKey(documentID), func(ctx context.Context) (*models.Document, error) {
		return s.docs.GetDocument(ctx, documentID)
	})
}

// CreateDocument creates a document seeded with its template's library
// sections. Optional library sections start excluded but are still created so
// they can be re-included later without losing their definition.
func (s *lifecycleService) CreateDocument(ctx context.Context, req *services.CreateDocumentRequest) (*models.Document, error) {
	if !rbac.Can(rbac.Normalize(httputil.GetOrgRole(ctx)), rbac.ActionWrite) {
		return nil, fmt.Errorf("%w: role cannot create documents", domain.ErrForbidden)
	}

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	tmpl, err := s.templates.Get(req.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	gatewayReq := &gateways.CreateDocumentRequest{
		ProjectID:  req.ProjectID,
		TemplateID: tmpl.ID,
		Title:      req.Title,
		Sections:   make([]gateways.CreateSectionRequest, 0, len(tmpl.Sections)),
	}
	for i, def := range tmpl.Sections {
		libID := def.ID
		gatewayReq.Sections = append(gatewayReq.Sections, gateways.CreateSectionRequest{
			LibrarySectionID: &libID,
			Title:            def.Title,
			Description:      def.Description,
			DisplayOrder:     i + 1,
			IsIncluded:       !def.Optional,
		})
	}

	doc, err := s.docs.CreateDocument(ctx, gatewayReq)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.DocumentListKey(doc.ProjectID))

	s.logger.Info("document created",
		"id", doc.ID,
		"template", tmpl.ID,
		"sections", len(gatewayReq.Sections),
	)
	return doc, nil
}

func (s *lifecycleService) UpdateDocument(ctx context.Context, documentID string, req *services.UpdateDocumentRequest) (*models.Document, error) {
	if !rbac.Can(rbac.Normalize(httputil.GetOrgRole(ctx)), rbac.ActionWrite) {
		return nil, fmt.Errorf("%w: role cannot edit documents", domain.ErrForbidden)
	}
	if req.Title != nil {
		if err := validation.Validate(*req.Title,
			validation.Required,
			validation.Length(1, config.MaxDocumentTitleLength),
		); err != nil {
			return nil, fmt.Errorf("%w: title: %v", domain.ErrValidation, err)
		}
	}

	doc, err := s.docs.UpdateDocument(ctx, documentID, &gateways.UpdateDocumentRequest{Title: req.Title})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx,
		cache.DocumentKey(documentID),
		cache.DocumentListKey(doc.ProjectID),
	)
	return doc, nil
}

func (s *lifecycleService) DeleteDocument(ctx context.Context, documentID string) error {
	if !rbac.Can(rbac.Normalize(httputil.GetOrgRole(ctx)), rbac.ActionWrite) {
		return fmt.Errorf("%w: role cannot delete documents", domain.ErrForbidden)
	}

	// Need the project id for list invalidation before the document is gone
	doc, err := s.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}

	if err := s.docs.DeleteDocument(ctx, documentID); err != nil {
		return err
	}

	s.cache.Invalidate(ctx,
		cache.DocumentKey(documentID),
		cache.SectionsKey(documentID),
		cache.VersionsKey(documentID),
		cache.ReviewStatusKey(documentID),
		cache.ReviewsKey(documentID),
		cache.DocumentListKey(doc.ProjectID),
	)

	s.logger.Info("document deleted", "id", documentID)
	return nil
}

// RequestTransition validates the move against the lifecycle state machine
// and asks the backend to perform it. The echoed document is the new truth.
func (s *lifecycleService) RequestTransition(ctx context.Context, documentID string, target models.DocumentStatus) (*models.Document, error) {
	if !rbac.Can(rbac.Normalize(httputil.GetOrgRole(ctx)), rbac.ActionWrite) {
		return nil, fmt.Errorf("%w: role cannot change document status", domain.ErrForbidden)
	}
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, target)
	}

	doc, err := s.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if !doc.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: cannot move document from %s to %s", domain.ErrValidation, doc.Status, target)
	}

	updated, err := s.docs.UpdateDocument(ctx, documentID, &gateways.UpdateDocumentRequest{Status: &target})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx,
		cache.DocumentKey(documentID),
		cache.DocumentListKey(updated.ProjectID),
	)

	s.logger.Info("document status changed",
		"id", documentID,
		"from", doc.Status,
		"to", updated.Status,
	)
	return updated, nil
}

// EnsureGenerated is the auto-generation trigger. It fires a single bulk
// generation the first time a view sees a document whose included sections are
// all empty. Re-invocations (re-renders, retries after failure) are absorbed
// by the view latch; a document already generating upstream is skipped so the
// guarantee holds across sessions, not just within one.
func (s *lifecycleService) EnsureGenerated(ctx context.Context, viewID string) (*services.GenerationOutcome, error) {
	view, err := s.views.get(viewID)
	if err != nil {
		return nil, err
	}

	doc, err := s.GetDocument(ctx, view.documentID)
	if err != nil {
		return nil, err
	}

	sections, err := cache.GetOrFetch(ctx, s.cache, cache.SectionsKey(doc.ID), func(ctx context.Context) (*models.SectionList, error) {
		return s.docs.ListSections(ctx, doc.ID)
	})
	if err != nil {
		return nil, err
	}

	if !needsGeneration(sections.Sections) {
		return &services.GenerationOutcome{Triggered: false}, nil
	}

	if !view.tryTriggerGeneration() {
		// This view already fired its one shot
		return &services.GenerationOutcome{Triggered: false}, nil
	}

	if doc.Status == models.StatusGenerating {
		// Another session's request is in flight; keep the latch set so this
		// view never re-triggers once that run completes.
		s.logger.Debug("generation already in progress upstream", "document_id", doc.ID)
		return &services.GenerationOutcome{Triggered: false}, nil
	}

	result, err := s.generator.GenerateDocument(ctx, doc.ID, view.idempotencyKey)
	if err != nil {
		// Latch stays set: retries are per-section and user-initiated
		return nil, err
	}

	s.cache.Invalidate(ctx,
		cache.SectionsKey(doc.ID),
		cache.DocumentKey(doc.ID),
	)

	outcome := &services.GenerationOutcome{
		Triggered:     true,
		Sections:      result.Sections,
		FallbackCount: result.FallbackCount(),
	}
	if outcome.FallbackCount > 0 {
		s.logger.Warn("generation used placeholder content",
			"document_id", doc.ID,
			"fallback_sections", outcome.FallbackCount,
		)
	}
	return outcome, nil
}

// needsGeneration reports whether every included section is still empty.
// Excluded sections are ignored entirely; a document with no included
// sections has nothing to generate.
func needsGeneration(sections []models.DocumentSection) bool {
	included := 0
	for i := range sections {
		if !sections[i].IsIncluded {
			continue
		}
		included++
		if sections[i].HasContent() {
			return false
		}
	}
	return included > 0
}

func (s *lifecycleService) validateCreateRequest(req *services.CreateDocumentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.TemplateID, validation.Required),
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxDocumentTitleLength),
		),
	)
}
