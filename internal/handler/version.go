package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"docflow/internal/domain/services"
	"docflow/internal/httputil"
)

// VersionHandler exposes version snapshots, the comparison selection and diffs.
type VersionHandler struct {
	versions services.VersionService
	logger   *slog.Logger
}

// NewVersionHandler creates a new version handler
func NewVersionHandler(versions services.VersionService, logger *slog.Logger) *VersionHandler {
	return &VersionHandler{
		versions: versions,
		logger:   logger,
	}
}

// ListVersions lists a document's version history
// GET /api/documents/{id}/versions
func (h *VersionHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	list, err := h.versions.List(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, list)
}

// GetVersion retrieves one version snapshot
// GET /api/documents/{id}/versions/{number}
func (h *VersionHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "version number must be an integer")
		return
	}

	version, err := h.versions.Get(r.Context(), r.PathValue("id"), number)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, version)
}

// CompareVersions diffs two explicit versions
// GET /api/documents/{id}/versions/compare?from=N&to=M
func (h *VersionHandler) CompareVersions(w http.ResponseWriter, r *http.Request) {
	from, err := strconv.Atoi(r.URL.Query().Get("from"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "from must be an integer version number")
		return
	}
	to, err := strconv.Atoi(r.URL.Query().Get("to"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "to must be an integer version number")
		return
	}

	comparison, err := h.versions.Compare(r.Context(), r.PathValue("id"), from, to)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, comparison)
}

// CreateVersion snapshots the document's current state
// POST /api/views/{viewID}/versions
func (h *VersionHandler) CreateVersion(w http.ResponseWriter, r *http.Request) {
	var req services.CreateVersionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	version, err := h.versions.Create(r.Context(), r.PathValue("viewID"), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, version)
}

// SelectForCompare adds a version to the view's comparison selection
// POST /api/views/{viewID}/compare/{number}
func (h *VersionHandler) SelectForCompare(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "version number must be an integer")
		return
	}

	selection, err := h.versions.SelectForCompare(r.PathValue("viewID"), number)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string][]int{"selection": selection})
}

// ClearCompareSelection empties the view's comparison selection
// DELETE /api/views/{viewID}/compare
func (h *VersionHandler) ClearCompareSelection(w http.ResponseWriter, r *http.Request) {
	if err := h.versions.ClearCompareSelection(r.PathValue("viewID")); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CompareSelected diffs the view's two selected versions
// GET /api/views/{viewID}/compare
func (h *VersionHandler) CompareSelected(w http.ResponseWriter, r *http.Request) {
	comparison, err := h.versions.CompareSelected(r.Context(), r.PathValue("viewID"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, comparison)
}

// RestoreVersion restores a snapshot's content as a new version
// POST /api/views/{viewID}/versions/restore
func (h *VersionHandler) RestoreVersion(w http.ResponseWriter, r *http.Request) {
	var req services.RestoreVersionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	version, err := h.versions.Restore(r.Context(), r.PathValue("viewID"), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, version)
}
