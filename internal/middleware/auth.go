package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"docflow/internal/auth"
	"docflow/internal/httputil"
	"docflow/internal/rbac"
)

// Auth verifies the bearer token on every request and stores the caller's
// identity (user id, normalized organization role, raw token for upstream
// forwarding) on the request context. Health checks pass through unchecked.
func Auth(verifier auth.TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("rejected token", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			role := string(rbac.Normalize(claims.OrgRole))
			next.ServeHTTP(w, httputil.WithIdentity(r, claims.Subject, role, token))
		})
	}
}
