package models

import (
	"time"
)

// ReviewState is the review-axis status of a document. It is orthogonal to
// DocumentStatus: a document can be completed in generation terms while still
// cycling through review states.
type ReviewState string

const (
	ReviewDraft            ReviewState = "draft"
	ReviewPending          ReviewState = "pending_review"
	ReviewChangesRequested ReviewState = "changes_requested"
	ReviewApproved         ReviewState = "approved"
)

// ReviewDecision is a reviewer's verdict on a submitted document.
type ReviewDecision string

const (
	DecisionApproved         ReviewDecision = "approved"
	DecisionRejected         ReviewDecision = "rejected"
	DecisionChangesRequested ReviewDecision = "changes_requested"
)

// ReviewStatus is the derived per-document review state served by the backend.
type ReviewStatus struct {
	DocumentID         string      `json:"document_id"`
	State              ReviewState `json:"review_status"`
	AssignedReviewerID *string     `json:"assigned_reviewer_id,omitempty"`
	SubmittedAt        *time.Time  `json:"submitted_at,omitempty"`
	ApprovedAt         *time.Time  `json:"approved_at,omitempty"`
	UnresolvedComments int         `json:"unresolved_comments"`
}

// DocumentReview is one reviewer decision record. Reviews are appended and
// never deleted, forming the document's audit trail.
type DocumentReview struct {
	ID         string          `json:"id"`
	DocumentID string          `json:"document_id"`
	ReviewerID string          `json:"reviewer_id"`
	Decision   ReviewDecision  `json:"status"`
	Comment    string          `json:"comment,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	Comments   []ReviewComment `json:"comments,omitempty"`
}

// ReviewComment is a single remark inside a review, optionally anchored to a
// section. Resolution is an idempotent toggle.
type ReviewComment struct {
	ID         string     `json:"id"`
	ReviewID   string     `json:"review_id"`
	SectionID  *string    `json:"section_id,omitempty"`
	Body       string     `json:"body"`
	IsResolved bool       `json:"is_resolved"`
	ResolvedBy *string    `json:"resolved_by,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type ReviewList struct {
	Reviews []DocumentReview `json:"reviews"`
	Total   int              `json:"total"`
}
