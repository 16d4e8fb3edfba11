package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"docflow/internal/domain/gateways"
	"docflow/internal/domain/models"
)

// RESTReviewGateway implements the ReviewGateway interface over the upstream
// review endpoints.
type RESTReviewGateway struct {
	client *Client
	logger *slog.Logger
}

// NewReviewGateway creates a new review gateway
func NewReviewGateway(config *GatewayConfig) gateways.ReviewGateway {
	return &RESTReviewGateway{
		client: config.Client,
		logger: config.Logger,
	}
}

func (g *RESTReviewGateway) GetReviewStatus(ctx context.Context, documentID string) (*models.ReviewStatus, error) {
	var status models.ReviewStatus
	if err := g.client.do(ctx, http.MethodGet, "/documents/"+documentID+"/review-status", nil, nil, &status); err != nil {
		return nil, fmt.Errorf("get review status: %w", err)
	}
	return &status, nil
}

func (g *RESTReviewGateway) SubmitForReview(ctx context.Context, documentID string, req *gateways.SubmitReviewRequest) (*models.ReviewStatus, error) {
	var status models.ReviewStatus
	if err := g.client.do(ctx, http.MethodPost, "/documents/"+documentID+"/submit-review", nil, req, &status); err != nil {
		return nil, fmt.Errorf("submit for review: %w", err)
	}

	g.logger.Info("document submitted for review",
		"document_id", documentID,
		"pinned_reviewer", req.ReviewerID != nil,
	)
	return &status, nil
}

func (g *RESTReviewGateway) AssignReviewer(ctx context.Context, documentID, reviewerID string) (*models.ReviewStatus, error) {
	var status models.ReviewStatus
	body := map[string]string{"reviewer_id": reviewerID}
	if err := g.client.do(ctx, http.MethodPost, "/documents/"+documentID+"/assign-reviewer", nil, body, &status); err != nil {
		return nil, fmt.Errorf("assign reviewer: %w", err)
	}
	return &status, nil
}

func (g *RESTReviewGateway) SubmitDecision(ctx context.Context, documentID string, req *gateways.ReviewDecisionRequest) (*models.DocumentReview, error) {
	var review models.DocumentReview
	if err := g.client.do(ctx, http.MethodPost, "/documents/"+documentID+"/review", nil, req, &review); err != nil {
		return nil, fmt.Errorf("submit review decision: %w", err)
	}

	g.logger.Info("review decision recorded",
		"document_id", documentID,
		"decision", review.Decision,
		"comments", len(review.Comments),
	)
	return &review, nil
}

func (g *RESTReviewGateway) RecallReview(ctx context.Context, documentID string) (*models.ReviewStatus, error) {
	var status models.ReviewStatus
	if err := g.client.do(ctx, http.MethodPost, "/documents/"+documentID+"/recall-review", nil, nil, &status); err != nil {
		return nil, fmt.Errorf("recall review: %w", err)
	}
	return &status, nil
}

func (g *RESTReviewGateway) ListReviews(ctx context.Context, documentID string) (*models.ReviewList, error) {
	var list models.ReviewList
	if err := g.client.do(ctx, http.MethodGet, "/documents/"+documentID+"/reviews", nil, nil, &list); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return &list, nil
}

func (g *RESTReviewGateway) GetReview(ctx context.Context, documentID, reviewID string) (*models.DocumentReview, error) {
	var review models.DocumentReview
	path := "/documents/" + documentID + "/reviews/" + reviewID
	if err := g.client.do(ctx, http.MethodGet, path, nil, nil, &review); err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	return &review, nil
}

func (g *RESTReviewGateway) ResolveComment(ctx context.Context, documentID, reviewID, commentID string) (*models.ReviewComment, error) {
	var comment models.ReviewComment
	path := "/documents/" + documentID + "/reviews/" + reviewID + "/comments/" + commentID + "/resolve"
	if err := g.client.do(ctx, http.MethodPost, path, nil, nil, &comment); err != nil {
		return nil, fmt.Errorf("resolve comment: %w", err)
	}
	return &comment, nil
}
