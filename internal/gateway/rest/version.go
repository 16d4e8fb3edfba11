package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"docflow/internal/domain/gateways"
	"docflow/internal/domain/models"
)

// RESTVersionGateway implements the VersionGateway interface over the upstream
// version endpoints.
type RESTVersionGateway struct {
	client *Client
	logger *slog.Logger
}

// NewVersionGateway creates a new version gateway
func NewVersionGateway(config *GatewayConfig) gateways.VersionGateway {
	return &RESTVersionGateway{
		client: config.Client,
		logger: config.Logger,
	}
}

func (g *RESTVersionGateway) ListVersions(ctx context.Context, documentID string) (*models.VersionList, error) {
	var list models.VersionList
	if err := g.client.do(ctx, http.MethodGet, "/documents/"+documentID+"/versions", nil, nil, &list); err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	return &list, nil
}

func (g *RESTVersionGateway) GetVersion(ctx context.Context, documentID string, number int) (*models.DocumentVersion, error) {
	var version models.DocumentVersion
	path := "/documents/" + documentID + "/versions/" + strconv.Itoa(number)
	if err := g.client.do(ctx, http.MethodGet, path, nil, nil, &version); err != nil {
		return nil, fmt.Errorf("get version %d: %w", number, err)
	}
	return &version, nil
}

func (g *RESTVersionGateway) CreateVersion(ctx context.Context, documentID, changeSummary string) (*models.DocumentVersion, error) {
	var version models.DocumentVersion
	body := map[string]string{}
	if changeSummary != "" {
		body["change_summary"] = changeSummary
	}
	if err := g.client.do(ctx, http.MethodPost, "/documents/"+documentID+"/versions", nil, body, &version); err != nil {
		return nil, fmt.Errorf("create version: %w", err)
	}

	g.logger.Info("version created",
		"document_id", documentID,
		"version_number", version.VersionNumber,
	)
	return &version, nil
}

func (g *RESTVersionGateway) CompareVersions(ctx context.Context, documentID string, from, to int) (*models.VersionComparison, error) {
	var comparison models.VersionComparison
	body := map[string]int{
		"from_version": from,
		"to_version":   to,
	}
	path := "/documents/" + documentID + "/versions/compare"
	if err := g.client.do(ctx, http.MethodPost, path, nil, body, &comparison); err != nil {
		return nil, fmt.Errorf("compare versions %d..%d: %w", from, to, err)
	}
	return &comparison, nil
}

func (g *RESTVersionGateway) RestoreVersion(ctx context.Context, documentID string, versionNumber int, changeSummary string) (*models.DocumentVersion, error) {
	var version models.DocumentVersion
	body := map[string]any{
		"version_number": versionNumber,
	}
	if changeSummary != "" {
		body["change_summary"] = changeSummary
	}
	path := "/documents/" + documentID + "/versions/restore"
	if err := g.client.do(ctx, http.MethodPost, path, nil, body, &version); err != nil {
		return nil, fmt.Errorf("restore version %d: %w", versionNumber, err)
	}

	g.logger.Info("version restored",
		"document_id", documentID,
		"restored_from", versionNumber,
		"new_version", version.VersionNumber,
	)
	return &version, nil
}
