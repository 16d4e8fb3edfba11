package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const (
	userIDKey    contextKey = "userID"
	orgRoleKey   contextKey = "orgRole"
	authTokenKey contextKey = "authToken"
)

// WithIdentity adds the authenticated user id, organization role and raw
// bearer token to the request context. The token is kept so the gateway can
// forward it upstream.
func WithIdentity(r *http.Request, userID, orgRole, token string) *http.Request {
	return r.WithContext(ContextWithIdentity(r.Context(), userID, orgRole, token))
}

// ContextWithIdentity attaches the caller's identity to a bare context.
func ContextWithIdentity(ctx context.Context, userID, orgRole, token string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, orgRoleKey, orgRole)
	return context.WithValue(ctx, authTokenKey, token)
}

// GetUserID retrieves userID from context, returns empty string if not found
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}

// GetOrgRole retrieves the caller's organization role from context
func GetOrgRole(ctx context.Context) string {
	role, _ := ctx.Value(orgRoleKey).(string)
	return role
}

// GetAuthToken retrieves the raw bearer token from context
func GetAuthToken(ctx context.Context) string {
	token, _ := ctx.Value(authTokenKey).(string)
	return token
}
