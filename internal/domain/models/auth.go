package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// UserClaims are the JWT claims this service cares about: the subject is the
// user id, OrgRole is the caller's role within their organization.
type UserClaims struct {
	jwt.RegisteredClaims
	Email   string `json:"email,omitempty"`
	Role    string `json:"role"`     // token audience role, must be "authenticated"
	OrgRole string `json:"org_role"` // organization role: viewer/commenter/editor/admin
}
