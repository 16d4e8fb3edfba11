package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"docflow/internal/domain/gateways"
	"docflow/internal/domain/models"
)

// RESTDocumentGateway implements the DocumentGateway interface over the
// upstream document and section endpoints.
type RESTDocumentGateway struct {
	client *Client
	logger *slog.Logger
}

// NewDocumentGateway creates a new document gateway
func NewDocumentGateway(config *GatewayConfig) gateways.DocumentGateway {
	return &RESTDocumentGateway{
		client: config.Client,
		logger: config.Logger,
	}
}

func (g *RESTDocumentGateway) ListDocuments(ctx context.Context, projectID string) (*models.DocumentList, error) {
	var list models.DocumentList
	path := "/documents?project_id=" + url.QueryEscape(projectID)
	if err := g.client.do(ctx, http.MethodGet, path, nil, nil, &list); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return &list, nil
}

func (g *RESTDocumentGateway) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	if err := g.client.do(ctx, http.MethodGet, "/documents/"+id, nil, nil, &doc); err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &doc, nil
}

func (g *RESTDocumentGateway) CreateDocument(ctx context.Context, req *gateways.CreateDocumentRequest) (*models.Document, error) {
	var doc models.Document
	if err := g.client.do(ctx, http.MethodPost, "/documents", nil, req, &doc); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	g.logger.Info("document created",
		"id", doc.ID,
		"project_id", doc.ProjectID,
		"sections", len(req.Sections),
	)
	return &doc, nil
}

func (g *RESTDocumentGateway) UpdateDocument(ctx context.Context, id string, req *gateways.UpdateDocumentRequest) (*models.Document, error) {
	var doc models.Document
	if err := g.client.do(ctx, http.MethodPut, "/documents/"+id, nil, req, &doc); err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}
	return &doc, nil
}

func (g *RESTDocumentGateway) DeleteDocument(ctx context.Context, id string) error {
	if err := g.client.do(ctx, http.MethodDelete, "/documents/"+id, nil, nil, nil); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (g *RESTDocumentGateway) ListSections(ctx context.Context, documentID string) (*models.SectionList, error) {
	var list models.SectionList
	if err := g.client.do(ctx, http.MethodGet, "/documents/"+documentID+"/sections", nil, nil, &list); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return &list, nil
}

func (g *RESTDocumentGateway) CreateSection(ctx context.Context, documentID string, req *gateways.CreateSectionRequest) (*models.DocumentSection, error) {
	var section models.DocumentSection
	if err := g.client.do(ctx, http.MethodPost, "/documents/"+documentID+"/sections", nil, req, &section); err != nil {
		return nil, fmt.Errorf("create section: %w", err)
	}
	return &section, nil
}

func (g *RESTDocumentGateway) UpdateSection(ctx context.Context, documentID, sectionID string, req *gateways.UpdateSectionRequest) (*models.DocumentSection, error) {
	var section models.DocumentSection
	path := "/documents/" + documentID + "/sections/" + sectionID
	if err := g.client.do(ctx, http.MethodPut, path, nil, req, &section); err != nil {
		return nil, fmt.Errorf("update section: %w", err)
	}
	return &section, nil
}

func (g *RESTDocumentGateway) UpdateSectionContent(ctx context.Context, documentID, sectionID, content string) (*models.DocumentSection, error) {
	var section models.DocumentSection
	path := "/documents/" + documentID + "/sections/" + sectionID + "/content"
	body := map[string]string{"content": content}
	if err := g.client.do(ctx, http.MethodPut, path, nil, body, &section); err != nil {
		return nil, fmt.Errorf("update section content: %w", err)
	}
	return &section, nil
}

func (g *RESTDocumentGateway) DeleteSection(ctx context.Context, documentID, sectionID string) error {
	path := "/documents/" + documentID + "/sections/" + sectionID
	if err := g.client.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	return nil
}

func (g *RESTDocumentGateway) ReorderSections(ctx context.Context, documentID string, orderedIDs []string) error {
	path := "/documents/" + documentID + "/sections/reorder"
	body := map[string][]string{"section_ids": orderedIDs}
	if err := g.client.do(ctx, http.MethodPost, path, nil, body, nil); err != nil {
		return fmt.Errorf("reorder sections: %w", err)
	}
	return nil
}
