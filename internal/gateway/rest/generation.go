package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"docflow/internal/domain/gateways"
	"docflow/internal/domain/models"
)

// RESTGenerationGateway implements the GenerationGateway interface over the
// upstream generation endpoints.
type RESTGenerationGateway struct {
	client *Client
	logger *slog.Logger
}

// NewGenerationGateway creates a new generation gateway
func NewGenerationGateway(config *GatewayConfig) gateways.GenerationGateway {
	return &RESTGenerationGateway{
		client: config.Client,
		logger: config.Logger,
	}
}

func (g *RESTGenerationGateway) GenerateDocument(ctx context.Context, documentID, idempotencyKey string) (*models.GenerationResult, error) {
	var result models.GenerationResult
	headers := map[string]string{
		"Idempotency-Key": idempotencyKey,
	}
	path := "/documents/" + documentID + "/generate"
	if err := g.client.do(ctx, http.MethodPost, path, headers, nil, &result); err != nil {
		return nil, fmt.Errorf("generate document: %w", err)
	}

	g.logger.Info("document generated",
		"document_id", documentID,
		"sections", len(result.Sections),
		"fallback_sections", result.FallbackCount(),
	)
	return &result, nil
}

func (g *RESTGenerationGateway) RegenerateSection(ctx context.Context, documentID, sectionID, prompt string) (*models.SectionGenerationResult, error) {
	var result models.SectionGenerationResult
	body := map[string]string{"prompt": prompt}
	path := "/documents/" + documentID + "/sections/" + sectionID + "/regenerate"
	if err := g.client.do(ctx, http.MethodPost, path, nil, body, &result); err != nil {
		return nil, fmt.Errorf("regenerate section: %w", err)
	}

	g.logger.Info("section regenerated",
		"document_id", documentID,
		"section_id", sectionID,
		"used_fallback", result.UsedFallback,
	)
	return &result, nil
}
