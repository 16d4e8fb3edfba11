package handler

import (
	"log/slog"
	"net/http"

	"docflow/internal/domain/services"
	"docflow/internal/httputil"
)

// ViewHandler manages document-view sessions. A view is opened when the user
// opens a document and closed when they navigate away; everything session-local
// (edit buffers, compare selection, the generation latch) hangs off it.
type ViewHandler struct {
	views     services.ViewService
	lifecycle services.LifecycleService
	logger    *slog.Logger
}

// NewViewHandler creates a new view handler
func NewViewHandler(views services.ViewService, lifecycle services.LifecycleService, logger *slog.Logger) *ViewHandler {
	return &ViewHandler{
		views:     views,
		lifecycle: lifecycle,
		logger:    logger,
	}
}

// OpenView opens a view on a document
// POST /api/views
func (h *ViewHandler) OpenView(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DocumentID string `json:"document_id"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.DocumentID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document_id is required")
		return
	}

	userID := httputil.GetUserID(r.Context())
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	view, err := h.views.Open(r.Context(), userID, req.DocumentID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, view)
}

// GetView returns the view's session-local state
// GET /api/views/{viewID}
func (h *ViewHandler) GetView(w http.ResponseWriter, r *http.Request) {
	view, err := h.views.Get(r.PathValue("viewID"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, view)
}

// CloseView discards the view and all unsaved local state
// DELETE /api/views/{viewID}
func (h *ViewHandler) CloseView(w http.ResponseWriter, r *http.Request) {
	if err := h.views.Close(r.PathValue("viewID")); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EnsureGenerated triggers whole-document generation if this view has not yet
// triggered it and the document's included sections are all empty
// POST /api/views/{viewID}/generate
func (h *ViewHandler) EnsureGenerated(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.lifecycle.EnsureGenerated(r.Context(), r.PathValue("viewID"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, outcome)
}
