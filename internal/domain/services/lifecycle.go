package services

import (
	"context"

	"docflow/internal/domain/models"
)

// LifecycleService owns the document-level state machine: creation from a
// template, status transitions, and the auto-generation trigger.
type LifecycleService interface {
	ListDocuments(ctx context.Context, projectID string) (*models.DocumentList, error)
	GetDocument(ctx context.Context, documentID string) (*models.Document, error)

	// CreateDocument creates a document seeded with its template's sections.
	CreateDocument(ctx context.Context, req *CreateDocumentRequest) (*models.Document, error)

	UpdateDocument(ctx context.Context, documentID string, req *UpdateDocumentRequest) (*models.Document, error)
	DeleteDocument(ctx context.Context, documentID string) error

	// RequestTransition asks the backend to move the document to target. The
	// transition is validated locally against the state machine first, but the
	// backend remains authoritative; the client never fabricates a status.
	RequestTransition(ctx context.Context, documentID string, target models.DocumentStatus) (*models.Document, error)

	// EnsureGenerated triggers whole-document generation the first time a view
	// observes a document whose included sections are all empty. It fires at
	// most once per view, skips documents already generating, and reports
	// placeholder usage distinctly from full success.
	EnsureGenerated(ctx context.Context, viewID string) (*GenerationOutcome, error)
}

type CreateDocumentRequest struct {
	ProjectID  string `json:"project_id"`
	TemplateID string `json:"template_id"`
	Title      string `json:"title"`
}

type UpdateDocumentRequest struct {
	Title *string `json:"title,omitempty"`
}

// GenerationOutcome reports what EnsureGenerated did. When Triggered is false
// no request was made (sections already have content, another trigger already
// fired, or the document is mid-generation). FallbackCount > 0 is a qualified
// success: some sections received placeholder content because the generation
// backend was unavailable.
type GenerationOutcome struct {
	Triggered     bool                             `json:"triggered"`
	Sections      []models.SectionGenerationResult `json:"sections,omitempty"`
	FallbackCount int                              `json:"fallback_count"`
}
