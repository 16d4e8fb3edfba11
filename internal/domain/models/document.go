package models

import (
	"time"
)

// DocumentStatus is the generation-axis status of a document. It is assigned
// by the backend; this client only requests transitions and mirrors the result.
type DocumentStatus string

const (
	StatusDraft            DocumentStatus = "draft"
	StatusSectionsApproved DocumentStatus = "sections_approved"
	StatusGenerating       DocumentStatus = "generating"
	StatusCompleted        DocumentStatus = "completed"
)

// CanTransitionTo reports whether the lifecycle state machine permits moving
// from s to target. The generation axis is strictly forward:
// draft -> sections_approved -> generating -> completed.
func (s DocumentStatus) CanTransitionTo(target DocumentStatus) bool {
	switch s {
	case StatusDraft:
		return target == StatusSectionsApproved
	case StatusSectionsApproved:
		return target == StatusGenerating
	case StatusGenerating:
		return target == StatusCompleted
	default:
		return false
	}
}

// Valid reports whether s is one of the known document statuses.
func (s DocumentStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSectionsApproved, StatusGenerating, StatusCompleted:
		return true
	}
	return false
}

type Document struct {
	ID             string         `json:"id"`
	ProjectID      string         `json:"project_id"`
	TemplateID     string         `json:"template_id,omitempty"`
	Title          string         `json:"title"`
	Status         DocumentStatus `json:"status"`
	CurrentVersion int            `json:"current_version"`
	CreatedBy      string         `json:"created_by,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type DocumentList struct {
	Documents []Document `json:"documents"`
	Total     int        `json:"total"`
}
