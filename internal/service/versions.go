package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docflow/internal/cache"
	"docflow/internal/config"
	"docflow/internal/domain"
	"docflow/internal/domain/gateways"
	"docflow/internal/domain/models"
	"docflow/internal/domain/services"
	"docflow/internal/httputil"
	"docflow/internal/rbac"
)

// compareSelectionSize caps how many versions a view may select for
// comparison. Picking beyond the cap evicts the oldest pick (FIFO).
const compareSelectionSize = 2

// versionService implements the VersionService interface
type versionService struct {
	versions gateways.VersionGateway
	cache    *cache.Cache
	views    *ViewRegistry
	logger   *slog.Logger
}

// NewVersionService creates a new version service
func NewVersionService(
	versions gateways.VersionGateway,
	cacheLayer *cache.Cache,
	views *ViewRegistry,
	logger *slog.Logger,
) services.VersionService {
	return &versionService{
		versions: versions,
		cache:    cacheLayer,
		views:    views,
		logger:   logger,
	}
}

func (s *versionService) List(ctx context.Context, documentID string) (*models.VersionList, error) {
	return cache.GetOrFetch(ctx, s.cache, cache.VersionsKey(documentID), func(ctx context.Context) (*models.VersionList, error) {
		return s.versions.ListVersions(ctx, documentID)
	})
}

func (s *versionService) Get(ctx context.Context, documentID string, number int) (*models.DocumentVersion, error) {
	if number < 1 {
		return nil, fmt.Errorf("%w: version number must be positive", domain.ErrValidation)
	}
	// Individual versions are immutable; serving them from the list cache
	// avoids a second key per version.
	list, err := s.List(ctx, documentID)
	if err != nil {
		return nil, err
	}
	for i := range list.Versions {
		if list.Versions[i].VersionNumber == number {
			return &list.Versions[i], nil
		}
	}
	return s.versions.GetVersion(ctx, documentID, number)
}

func (s *versionService) Create(ctx context.Context, viewID string, req *services.CreateVersionRequest) (*models.DocumentVersion, error) {
	view, err := s.views.get(viewID)
	if err != nil {
		return nil, err
	}
	if !rbac.Can(rbac.Normalize(httputil.GetOrgRole(ctx)), rbac.ActionWrite) {
		return nil, fmt.Errorf("%w: role cannot create versions", domain.ErrForbidden)
	}
	if err := validation.Validate(req.ChangeSummary, validation.Length(0, config.MaxChangeSummaryLength)); err != nil {
		return nil, fmt.Errorf("%w: change_summary: %v", domain.ErrValidation, err)
	}

	if !view.begin("version:create") {
		return nil, domain.ErrBusy
	}
	defer view.end("version:create")

	version, err := s.versions.CreateVersion(ctx, view.documentID, req.ChangeSummary)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx,
		cache.VersionsKey(view.documentID),
		cache.DocumentKey(view.documentID),
	)
	return version, nil
}

// SelectForCompare implements the two-slot FIFO selection: the third pick
// evicts the oldest selection, and re-picking a selected version is a no-op.
func (s *versionService) SelectForCompare(viewID string, number int) ([]int, error) {
	view, err := s.views.get(viewID)
	if err != nil {
		return nil, err
	}
	if number < 1 {
		return nil, fmt.Errorf("%w: version number must be positive", domain.ErrValidation)
	}

	view.mu.Lock()
	defer view.mu.Unlock()

	for _, n := range view.compareSelection {
		if n == number {
			return append([]int(nil), view.compareSelection...), nil
		}
	}

	view.compareSelection = append(view.compareSelection, number)
	if len(view.compareSelection) > compareSelectionSize {
		view.compareSelection = view.compareSelection[len(view.compareSelection)-compareSelectionSize:]
	}
	return append([]int(nil), view.compareSelection...), nil
}

func (s *versionService) ClearCompareSelection(viewID string) error {
	view, err := s.views.get(viewID)
	if err != nil {
		return err
	}
	view.mu.Lock()
	view.compareSelection = nil
	view.mu.Unlock()
	return nil
}

func (s *versionService) CompareSelected(ctx context.Context, viewID string) (*models.VersionComparison, error) {
	view, err := s.views.get(viewID)
	if err != nil {
		return nil, err
	}

	view.mu.Lock()
	selection := append([]int(nil), view.compareSelection...)
	view.mu.Unlock()

	if len(selection) != compareSelectionSize {
		return nil, fmt.Errorf("%w: select two versions to compare", domain.ErrValidation)
	}
	return s.Compare(ctx, view.documentID, selection[0], selection[1])
}

// Compare normalizes the pair to ascending order before the request, so the
// pick order never changes which comparison the backend computes.
func (s *versionService) Compare(ctx context.Context, documentID string, a, b int) (*models.VersionComparison, error) {
	if a < 1 || b < 1 {
		return nil, fmt.Errorf("%w: version numbers must be positive", domain.ErrValidation)
	}
	if a == b {
		return nil, fmt.Errorf("%w: cannot compare a version with itself", domain.ErrValidation)
	}

	from, to := a, b
	if from > to {
		from, to = to, from
	}
	return s.versions.CompareVersions(ctx, documentID, from, to)
}

// Restore records the snapshot's content as a brand-new version. A missing
// summary defaults to naming the source version so history stays legible.
func (s *versionService) Restore(ctx context.Context, viewID string, req *services.RestoreVersionRequest) (*models.DocumentVersion, error) {
	view, err := s.views.get(viewID)
	if err != nil {
		return nil, err
	}
	if !rbac.Can(rbac.Normalize(httputil.GetOrgRole(ctx)), rbac.ActionWrite) {
		return nil, fmt.Errorf("%w: role cannot restore versions", domain.ErrForbidden)
	}
	if req.VersionNumber < 1 {
		return nil, fmt.Errorf("%w: version number must be positive", domain.ErrValidation)
	}
	if err := validation.Validate(req.ChangeSummary, validation.Length(0, config.MaxChangeSummaryLength)); err != nil {
		return nil, fmt.Errorf("%w: change_summary: %v", domain.ErrValidation, err)
	}

	if !view.begin("version:restore") {
		return nil, domain.ErrBusy
	}
	defer view.end("version:restore")

	summary := req.ChangeSummary
	if summary == "" {
		summary = fmt.Sprintf("Restored from version %d", req.VersionNumber)
	}

	version, err := s.versions.RestoreVersion(ctx, view.documentID, req.VersionNumber, summary)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx,
		cache.VersionsKey(view.documentID),
		cache.DocumentKey(view.documentID),
		cache.SectionsKey(view.documentID),
	)

	s.logger.Info("version restored",
		"document_id", view.documentID,
		"from_version", req.VersionNumber,
		"new_version", version.VersionNumber,
	)
	return version, nil
}
