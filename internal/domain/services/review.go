package services

import (
	"context"

	"docflow/internal/domain/models"
)

// ReviewService is the review-workflow engine: submission, reviewer
// assignment, decisions and comment resolution. Role gates come from the
// caller's identity on the context and the rbac predicate table; state gates
// are checked locally as a fast-fail with the backend as the authority.
type ReviewService interface {
	Status(ctx context.Context, documentID string) (*models.ReviewStatus, error)

	// CanSubmit reports whether the caller may submit this document for review:
	// the role must carry submit capability and the review state must be draft
	// or changes_requested.
	CanSubmit(ctx context.Context, documentID string) (bool, error)

	// Submit sends the document into review, optionally pinned to a specific
	// reviewer. Blocked locally when CanSubmit is false; no request is sent.
	Submit(ctx context.Context, viewID string, req *SubmitReviewRequest) (*models.ReviewStatus, error)

	AssignReviewer(ctx context.Context, documentID, reviewerID string) (*models.ReviewStatus, error)

	// Decide records the caller's verdict. Non-approval decisions require a
	// non-empty overall comment, validated locally before dispatch. On approval
	// the backend snapshots a new version; the service invalidates version keys
	// but never creates the version itself.
	Decide(ctx context.Context, viewID string, req *DecisionRequest) (*models.DocumentReview, error)

	// Recall moves an approved or pending document back to draft for editing.
	Recall(ctx context.Context, documentID string) (*models.ReviewStatus, error)

	ListReviews(ctx context.Context, documentID string) (*models.ReviewList, error)
	GetReview(ctx context.Context, documentID, reviewID string) (*models.DocumentReview, error)

	// ResolveComment marks a comment resolved. Resolving an already-resolved
	// comment is a no-op success.
	ResolveComment(ctx context.Context, documentID, reviewID, commentID string) (*models.ReviewComment, error)
}

type SubmitReviewRequest struct {
	ReviewerID *string `json:"reviewer_id,omitempty"`
	Message    string  `json:"message,omitempty"`
}

type DecisionRequest struct {
	Decision models.ReviewDecision `json:"decision"`
	Comment  string                `json:"comment,omitempty"`
	Comments []SectionComment      `json:"comments,omitempty"`
}

type SectionComment struct {
	SectionID *string `json:"section_id,omitempty"`
	Body      string  `json:"body"`
}
