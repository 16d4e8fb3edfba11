package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"docflow/internal/domain"
	"docflow/internal/httputil"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"busy", domain.ErrBusy, http.StatusConflict},
		{"wrapped busy", fmt.Errorf("save section: %w", domain.ErrBusy), http.StatusConflict},
		{"validation", fmt.Errorf("%w: title is required", domain.ErrValidation), http.StatusBadRequest},
		{"not found", &domain.NotFoundError{Message: "view gone"}, http.StatusNotFound},
		{"forbidden", fmt.Errorf("%w: role cannot edit", domain.ErrForbidden), http.StatusForbidden},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"upstream conflict", &domain.UpstreamError{Status: 409, Detail: "already submitted"}, http.StatusConflict},
		{"upstream not found", &domain.UpstreamError{Status: 404, Detail: "no such document"}, http.StatusNotFound},
		{"upstream server error", &domain.UpstreamError{Status: 502, Detail: "bad gateway"}, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("Content-Type = %q, want application/problem+json", ct)
			}

			var problem httputil.ProblemDetail
			if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
				t.Fatalf("decode problem: %v", err)
			}
			if problem.Status != tt.wantStatus {
				t.Errorf("problem status = %d, want %d", problem.Status, tt.wantStatus)
			}
		})
	}
}

func TestHandleErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	handleError(rec, errors.New("pq: connection refused at 10.0.0.3"))

	var problem httputil.ProblemDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	if problem.Detail != "internal server error" {
		t.Errorf("detail = %q, internal errors must not leak upstream text", problem.Detail)
	}
}
