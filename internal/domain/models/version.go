package models

import (
	"time"
)

// DocumentVersion is an immutable point-in-time snapshot of a document.
// Versions are created by the backend at approval and restore boundaries and
// are never mutated afterwards.
type DocumentVersion struct {
	ID            string           `json:"id"`
	DocumentID    string           `json:"document_id"`
	VersionNumber int              `json:"version_number"`
	ChangeSummary string           `json:"change_summary,omitempty"`
	CreatedBy     string           `json:"created_by,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	Snapshot      DocumentSnapshot `json:"snapshot"`
}

// DocumentSnapshot captures the document-level fields at the time a version
// was taken, plus all of its sections.
type DocumentSnapshot struct {
	Title      string            `json:"title"`
	Status     DocumentStatus    `json:"status"`
	TemplateID string            `json:"template_id,omitempty"`
	Sections   []SectionSnapshot `json:"sections"`
}

type SectionSnapshot struct {
	SectionID    string `json:"section_id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	DisplayOrder int    `json:"display_order"`
	IsIncluded   bool   `json:"is_included"`
	Content      string `json:"content"`
}

type VersionList struct {
	Versions       []DocumentVersion `json:"versions"`
	CurrentVersion int               `json:"current_version"`
	Total          int               `json:"total"`
}

// ChangeType classifies how a section differs between two versions.
type ChangeType string

const (
	ChangeAdded     ChangeType = "added"
	ChangeRemoved   ChangeType = "removed"
	ChangeModified  ChangeType = "modified"
	ChangeUnchanged ChangeType = "unchanged"
)

// SectionDiff is derived on demand for one section across two versions.
// Before/After carry the section content on each side; the side a section is
// missing from is empty.
type SectionDiff struct {
	SectionID  string     `json:"section_id"`
	Title      string     `json:"title"`
	ChangeType ChangeType `json:"change_type"`
	Before     string     `json:"before,omitempty"`
	After      string     `json:"after,omitempty"`
}

// VersionComparison is the diff between two versions of one document,
// requested with from < to.
type VersionComparison struct {
	DocumentID  string        `json:"document_id"`
	FromVersion int           `json:"from_version"`
	ToVersion   int           `json:"to_version"`
	Diffs       []SectionDiff `json:"diffs"`
}
