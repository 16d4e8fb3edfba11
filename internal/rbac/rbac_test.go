package rbac

import "testing"

func TestCan(t *testing.T) {
	tests := []struct {
		role   Role
		action Action
		want   bool
	}{
		{RoleViewer, ActionRead, true},
		{RoleViewer, ActionComment, false},
		{RoleViewer, ActionWrite, false},
		{RoleViewer, ActionSubmitReview, false},
		{RoleViewer, ActionReview, false},

		{RoleCommenter, ActionRead, true},
		{RoleCommenter, ActionComment, true},
		{RoleCommenter, ActionWrite, false},
		{RoleCommenter, ActionSubmitReview, false},

		{RoleEditor, ActionRead, true},
		{RoleEditor, ActionComment, true},
		{RoleEditor, ActionWrite, true},
		{RoleEditor, ActionSubmitReview, true},
		{RoleEditor, ActionReview, true},
		{RoleEditor, ActionAdmin, false},

		{RoleAdmin, ActionRead, true},
		{RoleAdmin, ActionWrite, true},
		{RoleAdmin, ActionReview, true},
		{RoleAdmin, ActionAdmin, true},

		{Role("intruder"), ActionRead, false},
	}

	for _, tt := range tests {
		if got := Can(tt.role, tt.action); got != tt.want {
			t.Errorf("Can(%s, %s) = %v, want %v", tt.role, tt.action, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"admin", RoleAdmin},
		{"editor", RoleEditor},
		{"commenter", RoleCommenter},
		{"viewer", RoleViewer},
		{"", RoleViewer},
		{"superuser", RoleViewer},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
