package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"docflow/internal/domain"
	"docflow/internal/httputil"
)

// Client is the shared HTTP transport for all gateways. It owns the upstream
// base URL, the timeout policy, and error decoding; per-entity gateways build
// on its do() helper.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// GatewayConfig holds shared dependencies for gateway implementations
type GatewayConfig struct {
	Client *Client
	Logger *slog.Logger
}

// NewClient creates a REST client for the upstream backend. Timeouts live
// entirely here; callers impose none of their own.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// do performs one request against the upstream backend. body is marshaled as
// JSON when non-nil; on 2xx the response body is decoded into out when out is
// non-nil. The caller's bearer token is forwarded from the context.
func (c *Client) do(ctx context.Context, method, path string, headers map[string]string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := httputil.GetAuthToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(method, path, resp)
	}

	if out == nil {
		// Drain so the connection can be reused
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s %s: %w", method, path, err)
	}

	return nil
}

// decodeError converts a non-2xx upstream response into an UpstreamError.
// The backend's own error detail is surfaced verbatim when present; otherwise
// a generic fallback message is used.
func (c *Client) decodeError(method, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	detail := ""
	var problem httputil.ProblemDetail
	if err := json.Unmarshal(raw, &problem); err == nil {
		detail = problem.Detail
		if detail == "" {
			detail = problem.Title
		}
	}
	if detail == "" {
		detail = fmt.Sprintf("request failed with status %d", resp.StatusCode)
	}

	c.logger.Debug("upstream error",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"detail", detail,
	)

	return &domain.UpstreamError{
		Status: resp.StatusCode,
		Detail: detail,
	}
}
