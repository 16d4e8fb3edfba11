package handler

import (
	"log/slog"
	"net/http"

	"docflow/internal/domain/services"
	"docflow/internal/httputil"
)

// ReviewHandler exposes the review workflow: submission, reviewer assignment,
// decisions, recall and comment resolution.
type ReviewHandler struct {
	reviews services.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews services.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews: reviews,
		logger:  logger,
	}
}

// GetReviewStatus returns the document's review status plus whether the caller
// may submit it for review
// GET /api/documents/{id}/review
func (h *ReviewHandler) GetReviewStatus(w http.ResponseWriter, r *http.Request) {
	documentID := r.PathValue("id")

	status, err := h.reviews.Status(r.Context(), documentID)
	if err != nil {
		handleError(w, err)
		return
	}
	canSubmit, err := h.reviews.CanSubmit(r.Context(), documentID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"status":     status,
		"can_submit": canSubmit,
	})
}

// SubmitForReview sends the document into review
// POST /api/views/{viewID}/review/submit
func (h *ReviewHandler) SubmitForReview(w http.ResponseWriter, r *http.Request) {
	var req services.SubmitReviewRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	status, err := h.reviews.Submit(r.Context(), r.PathValue("viewID"), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, status)
}

// AssignReviewer pins the review to a specific reviewer
// PUT /api/documents/{id}/review/reviewer
func (h *ReviewHandler) AssignReviewer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReviewerID string `json:"reviewer_id"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ReviewerID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "reviewer_id is required")
		return
	}

	status, err := h.reviews.AssignReviewer(r.Context(), r.PathValue("id"), req.ReviewerID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, status)
}

// SubmitDecision records the reviewer's verdict
// POST /api/views/{viewID}/review/decision
func (h *ReviewHandler) SubmitDecision(w http.ResponseWriter, r *http.Request) {
	var req services.DecisionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	review, err := h.reviews.Decide(r.Context(), r.PathValue("viewID"), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, review)
}

// RecallReview moves the document back to draft for editing
// POST /api/documents/{id}/review/recall
func (h *ReviewHandler) RecallReview(w http.ResponseWriter, r *http.Request) {
	status, err := h.reviews.Recall(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, status)
}

// ListReviews lists a document's past and current reviews
// GET /api/documents/{id}/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	list, err := h.reviews.ListReviews(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, list)
}

// GetReview retrieves one review with its comments
// GET /api/documents/{id}/reviews/{reviewID}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.reviews.GetReview(r.Context(), r.PathValue("id"), r.PathValue("reviewID"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, review)
}

// ResolveComment marks a review comment resolved
// POST /api/documents/{id}/reviews/{reviewID}/comments/{commentID}/resolve
func (h *ReviewHandler) ResolveComment(w http.ResponseWriter, r *http.Request) {
	comment, err := h.reviews.ResolveComment(r.Context(), r.PathValue("id"), r.PathValue("reviewID"), r.PathValue("commentID"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, comment)
}
