package handler

import (
	"log/slog"
	"net/http"

	"docflow/internal/domain/services"
	"docflow/internal/httputil"
)

// SectionHandler exposes the per-section content pipeline. Structural and
// content operations are view-scoped so the service can track busy flags and
// edit buffers per open editor.
type SectionHandler struct {
	sections services.SectionService
	logger   *slog.Logger
}

// NewSectionHandler creates a new section handler
func NewSectionHandler(sections services.SectionService, logger *slog.Logger) *SectionHandler {
	return &SectionHandler{
		sections: sections,
		logger:   logger,
	}
}

// AddSection appends a section to the end of the document
// POST /api/views/{viewID}/sections
func (h *SectionHandler) AddSection(w http.ResponseWriter, r *http.Request) {
	var req services.AddSectionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	section, err := h.sections.Add(r.Context(), r.PathValue("viewID"), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, section)
}

// UpdateSection updates section metadata
// PATCH /api/views/{viewID}/sections/{sectionID}
func (h *SectionHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateSectionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	section, err := h.sections.Update(r.Context(), r.PathValue("viewID"), r.PathValue("sectionID"), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, section)
}

// RemoveSection deletes a section
// DELETE /api/views/{viewID}/sections/{sectionID}
func (h *SectionHandler) RemoveSection(w http.ResponseWriter, r *http.Request) {
	if err := h.sections.Remove(r.Context(), r.PathValue("viewID"), r.PathValue("sectionID")); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReorderSections applies a full ordering of the document's sections
// PUT /api/views/{viewID}/sections/order
func (h *SectionHandler) ReorderSections(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SectionIDs []string `json:"section_ids"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.sections.Reorder(r.Context(), r.PathValue("viewID"), req.SectionIDs); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectSection records which section the view is focused on
// PUT /api/views/{viewID}/sections/{sectionID}/select
func (h *SectionHandler) SelectSection(w http.ResponseWriter, r *http.Request) {
	if err := h.sections.SelectSection(r.PathValue("viewID"), r.PathValue("sectionID")); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// OpenEditor starts an edit buffer seeded with the section's current content
// POST /api/views/{viewID}/sections/{sectionID}/editor
func (h *SectionHandler) OpenEditor(w http.ResponseWriter, r *http.Request) {
	editor, err := h.sections.OpenEditor(r.Context(), r.PathValue("viewID"), r.PathValue("sectionID"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, editor)
}

// GetEditor returns the edit buffer's current state
// GET /api/views/{viewID}/sections/{sectionID}/editor
func (h *SectionHandler) GetEditor(w http.ResponseWriter, r *http.Request) {
	editor, err := h.sections.Editor(r.PathValue("viewID"), r.PathValue("sectionID"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, editor)
}

// SetBuffer replaces the edit buffer's draft content
// PUT /api/views/{viewID}/sections/{sectionID}/editor
func (h *SectionHandler) SetBuffer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	editor, err := h.sections.SetBuffer(r.PathValue("viewID"), r.PathValue("sectionID"), req.Content)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, editor)
}

// CloseEditor discards the edit buffer
// DELETE /api/views/{viewID}/sections/{sectionID}/editor
func (h *SectionHandler) CloseEditor(w http.ResponseWriter, r *http.Request) {
	if err := h.sections.CloseEditor(r.PathValue("viewID"), r.PathValue("sectionID")); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SaveSection persists the edit buffer's draft content
// POST /api/views/{viewID}/sections/{sectionID}/save
func (h *SectionHandler) SaveSection(w http.ResponseWriter, r *http.Request) {
	section, err := h.sections.Save(r.Context(), r.PathValue("viewID"), r.PathValue("sectionID"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, section)
}

// RegenerateSection requests fresh content for one section
// POST /api/views/{viewID}/sections/{sectionID}/regenerate
func (h *SectionHandler) RegenerateSection(w http.ResponseWriter, r *http.Request) {
	var req services.RegenerateRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.sections.Regenerate(r.Context(), r.PathValue("viewID"), r.PathValue("sectionID"), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, result)
}
