package handler

import (
	"log/slog"
	"net/http"

	"docflow/internal/domain/models"
	"docflow/internal/domain/services"
	"docflow/internal/httputil"
)

// DocumentHandler handles document lifecycle HTTP requests
type DocumentHandler struct {
	lifecycle services.LifecycleService
	sections  services.SectionService
	logger    *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(lifecycle services.LifecycleService, sections services.SectionService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		lifecycle: lifecycle,
		sections:  sections,
		logger:    logger,
	}
}

// HealthCheck reports service liveness
// GET /health
func (h *DocumentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListDocuments lists documents in a project
// GET /api/documents?project_id=...
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("project_id")
	list, err := h.lifecycle.ListDocuments(r.Context(), projectID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, list)
}

// CreateDocument creates a document from a template
// POST /api/documents
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req services.CreateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.lifecycle.CreateDocument(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// GetDocument retrieves a document by ID
// GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	doc, err := h.lifecycle.GetDocument(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, doc)
}

// UpdateDocument updates document metadata
// PATCH /api/documents/{id}
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req services.UpdateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.lifecycle.UpdateDocument(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DeleteDocument deletes a document
// DELETE /api/documents/{id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.lifecycle.DeleteDocument(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RequestTransition asks the backend to move the document to a new status
// POST /api/documents/{id}/status
func (h *DocumentHandler) RequestTransition(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req struct {
		Status models.DocumentStatus `json:"status"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.lifecycle.RequestTransition(r.Context(), id, req.Status)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, doc)
}

// ListSections lists a document's sections in display order
// GET /api/documents/{id}/sections
func (h *DocumentHandler) ListSections(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	list, err := h.sections.List(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, list)
}
