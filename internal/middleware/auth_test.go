package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"docflow/internal/domain"
	"docflow/internal/domain/models"
	"docflow/internal/httputil"
)

type fakeVerifier struct {
	claims *models.UserClaims
	err    error
}

func (f *fakeVerifier) VerifyToken(string) (*models.UserClaims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func (f *fakeVerifier) Close() error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newClaims(subject, orgRole string) *models.UserClaims {
	claims := &models.UserClaims{Role: "authenticated", OrgRole: orgRole}
	claims.Subject = subject
	return claims
}

func TestAuthAttachesIdentity(t *testing.T) {
	var gotUserID, gotRole, gotToken string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = httputil.GetUserID(r.Context())
		gotRole = httputil.GetOrgRole(r.Context())
		gotToken = httputil.GetAuthToken(r.Context())
	})

	handler := Auth(&fakeVerifier{claims: newClaims("user-42", "editor")}, testLogger())(next)

	req := httptest.NewRequest(http.MethodGet, "/api/documents/doc-1", nil)
	req.Header.Set("Authorization", "Bearer tok-abc")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotUserID != "user-42" {
		t.Errorf("user id = %q, want user-42", gotUserID)
	}
	if gotRole != "editor" {
		t.Errorf("role = %q, want editor", gotRole)
	}
	if gotToken != "tok-abc" {
		t.Errorf("token = %q, the raw token must be kept for upstream forwarding", gotToken)
	}
}

func TestAuthNormalizesUnknownRole(t *testing.T) {
	var gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRole = httputil.GetOrgRole(r.Context())
	})

	handler := Auth(&fakeVerifier{claims: newClaims("user-1", "superuser")}, testLogger())(next)

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer tok")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotRole != "viewer" {
		t.Errorf("role = %q, unknown roles must normalize to viewer", gotRole)
	}
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler := Auth(&fakeVerifier{}, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run without a token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	handler := Auth(&fakeVerifier{err: domain.ErrUnauthorized}, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run with an invalid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer expired")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthSkipsHealthCheck(t *testing.T) {
	ran := false
	handler := Auth(&fakeVerifier{err: errors.New("must not be called")}, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	if !ran {
		t.Error("health checks must pass through unauthenticated")
	}
}
