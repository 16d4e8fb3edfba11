package handler

import (
	"net/http"

	"docflow/internal/httputil"
	"docflow/internal/templates"
)

// TemplateHandler serves the built-in document template library.
type TemplateHandler struct {
	registry *templates.Registry
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(registry *templates.Registry) *TemplateHandler {
	return &TemplateHandler{registry: registry}
}

// ListTemplates lists the available document templates
// GET /api/templates
func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"templates": h.registry.List(),
	})
}

// GetTemplate retrieves one template with its section library
// GET /api/templates/{id}
func (h *TemplateHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, err := h.registry.Get(r.PathValue("id"))
	if err != nil {
		httputil.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	httputil.RespondJSON(w, http.StatusOK, tmpl)
}
