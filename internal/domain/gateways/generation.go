package gateways

import (
	"context"

	"docflow/internal/domain/models"
)

// GenerationGateway wraps the backend's content-generation endpoints. Both
// operations report per-section fallback flags; placeholder content is a
// qualified success, not an error.
type GenerationGateway interface {
	// GenerateDocument requests fresh content for every included empty section.
	// idempotencyKey lets the backend drop duplicate bulk requests for the same
	// document view.
	GenerateDocument(ctx context.Context, documentID, idempotencyKey string) (*models.GenerationResult, error)

	// RegenerateSection requests fresh content for one section using the given
	// prompt.
	RegenerateSection(ctx context.Context, documentID, sectionID, prompt string) (*models.SectionGenerationResult, error)
}
