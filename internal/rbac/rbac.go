// Package rbac is the single authorization predicate table for the service.
// Every role-gated transition consults Can; no ad hoc role checks exist
// anywhere else.
package rbac

type Role string
type Action string

const (
	RoleViewer    Role = "viewer"
	RoleCommenter Role = "commenter"
	RoleEditor    Role = "editor"
	RoleAdmin     Role = "admin"
)

const (
	ActionRead         Action = "read"
	ActionComment      Action = "comment"
	ActionWrite        Action = "write"         // edit sections, create versions, restore
	ActionSubmitReview Action = "submit_review" // send a document into review
	ActionReview       Action = "review"        // approve/reject/request changes
	ActionAdmin        Action = "admin"
)

func Can(role Role, action Action) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleEditor:
		return action == ActionRead || action == ActionComment || action == ActionWrite ||
			action == ActionSubmitReview || action == ActionReview
	case RoleCommenter:
		return action == ActionRead || action == ActionComment
	case RoleViewer:
		return action == ActionRead
	default:
		return false
	}
}

// Normalize maps an unknown role string to the least-privileged role.
func Normalize(role string) Role {
	switch Role(role) {
	case RoleViewer, RoleCommenter, RoleEditor, RoleAdmin:
		return Role(role)
	default:
		return RoleViewer
	}
}
