package gateways

import (
	"context"

	"docflow/internal/domain/models"
)

// VersionGateway wraps the backend's version endpoints. Version numbers are
// assigned server-side; the gateway never computes them.
type VersionGateway interface {
	ListVersions(ctx context.Context, documentID string) (*models.VersionList, error)
	GetVersion(ctx context.Context, documentID string, number int) (*models.DocumentVersion, error)

	// CreateVersion snapshots the document's current state. The backend assigns
	// versionNumber = highest existing + 1.
	CreateVersion(ctx context.Context, documentID, changeSummary string) (*models.DocumentVersion, error)

	// CompareVersions requires from < to; the caller normalizes order.
	CompareVersions(ctx context.Context, documentID string, from, to int) (*models.VersionComparison, error)

	// RestoreVersion replaces current content with the snapshot and records the
	// restore as a new version. History is never rewritten.
	RestoreVersion(ctx context.Context, documentID string, versionNumber int, changeSummary string) (*models.DocumentVersion, error)
}
