package services

import (
	"context"

	"docflow/internal/domain/models"
)

// VersionService is the snapshot, diff and restore engine. Snapshots are
// immutable and numbered by the backend; the client owns only the comparison
// selection and its ordering rules.
type VersionService interface {
	List(ctx context.Context, documentID string) (*models.VersionList, error)
	Get(ctx context.Context, documentID string, number int) (*models.DocumentVersion, error)

	// Create snapshots the document's current state; the backend assigns the
	// next version number.
	Create(ctx context.Context, viewID string, req *CreateVersionRequest) (*models.DocumentVersion, error)

	// SelectForCompare adds a version to the view's comparison selection. The
	// selection holds at most two versions; picking a third evicts the oldest
	// pick. Picking an already-selected version is a no-op. Returns the
	// selection after the pick.
	SelectForCompare(viewID string, number int) ([]int, error)

	ClearCompareSelection(viewID string) error

	// CompareSelected diffs the view's two selected versions. The pair is
	// normalized to ascending order before the request, so the user's pick
	// order never changes which request is made.
	CompareSelected(ctx context.Context, viewID string) (*models.VersionComparison, error)

	// Compare diffs two explicit versions, normalized to ascending order.
	Compare(ctx context.Context, documentID string, a, b int) (*models.VersionComparison, error)

	// Restore replaces current content with a snapshot's content and records
	// the restore as a new version; history is never rewritten. An empty
	// summary defaults to naming the restored version.
	Restore(ctx context.Context, viewID string, req *RestoreVersionRequest) (*models.DocumentVersion, error)
}

type CreateVersionRequest struct {
	ChangeSummary string `json:"change_summary,omitempty"`
}

type RestoreVersionRequest struct {
	VersionNumber int    `json:"version_number"`
	ChangeSummary string `json:"change_summary,omitempty"`
}
