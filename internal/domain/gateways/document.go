package gateways

import (
	"context"

	"docflow/internal/domain/models"
)

// CreateDocumentRequest creates a document together with its initial sections.
type CreateDocumentRequest struct {
	ProjectID  string                 `json:"project_id"`
	TemplateID string                 `json:"template_id,omitempty"`
	Title      string                 `json:"title"`
	Sections   []CreateSectionRequest `json:"sections,omitempty"`
}

type UpdateDocumentRequest struct {
	Title  *string                `json:"title,omitempty"`
	Status *models.DocumentStatus `json:"status,omitempty"`
}

type CreateSectionRequest struct {
	LibrarySectionID *string `json:"library_section_id,omitempty"`
	Title            string  `json:"title"`
	Description      string  `json:"description,omitempty"`
	DisplayOrder     int     `json:"display_order"`
	IsIncluded       bool    `json:"is_included"`
}

type UpdateSectionRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	IsIncluded  *bool   `json:"is_included,omitempty"`
}

// DocumentGateway wraps the backend's document and section endpoints.
// Pure I/O; all business rules live in the services.
type DocumentGateway interface {
	ListDocuments(ctx context.Context, projectID string) (*models.DocumentList, error)
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	CreateDocument(ctx context.Context, req *CreateDocumentRequest) (*models.Document, error)
	UpdateDocument(ctx context.Context, id string, req *UpdateDocumentRequest) (*models.Document, error)
	DeleteDocument(ctx context.Context, id string) error

	ListSections(ctx context.Context, documentID string) (*models.SectionList, error)
	CreateSection(ctx context.Context, documentID string, req *CreateSectionRequest) (*models.DocumentSection, error)
	UpdateSection(ctx context.Context, documentID, sectionID string, req *UpdateSectionRequest) (*models.DocumentSection, error)
	UpdateSectionContent(ctx context.Context, documentID, sectionID, content string) (*models.DocumentSection, error)
	DeleteSection(ctx context.Context, documentID, sectionID string) error
	ReorderSections(ctx context.Context, documentID string, orderedIDs []string) error
}
