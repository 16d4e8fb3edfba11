package gateways

import (
	"context"

	"docflow/internal/domain/models"
)

type SubmitReviewRequest struct {
	// ReviewerID pins the submission to a specific reviewer; nil leaves it open
	// to any qualified reviewer.
	ReviewerID *string `json:"reviewer_id,omitempty"`
	Message    string  `json:"message,omitempty"`
}

type ReviewDecisionRequest struct {
	Decision models.ReviewDecision  `json:"status"`
	Comment  string                 `json:"comment,omitempty"`
	Comments []ReviewCommentRequest `json:"comments,omitempty"`
}

type ReviewCommentRequest struct {
	SectionID *string `json:"section_id,omitempty"`
	Body      string  `json:"body"`
}

// ReviewGateway wraps the backend's review-workflow endpoints.
type ReviewGateway interface {
	GetReviewStatus(ctx context.Context, documentID string) (*models.ReviewStatus, error)
	SubmitForReview(ctx context.Context, documentID string, req *SubmitReviewRequest) (*models.ReviewStatus, error)
	AssignReviewer(ctx context.Context, documentID, reviewerID string) (*models.ReviewStatus, error)

	// SubmitDecision records an approve/reject/request-changes verdict. On
	// approval the backend also snapshots a new version.
	SubmitDecision(ctx context.Context, documentID string, req *ReviewDecisionRequest) (*models.DocumentReview, error)

	// RecallReview transitions an approved or pending document back to draft.
	RecallReview(ctx context.Context, documentID string) (*models.ReviewStatus, error)

	ListReviews(ctx context.Context, documentID string) (*models.ReviewList, error)
	GetReview(ctx context.Context, documentID, reviewID string) (*models.DocumentReview, error)
	ResolveComment(ctx context.Context, documentID, reviewID, commentID string) (*models.ReviewComment, error)
}
