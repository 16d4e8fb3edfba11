package models

import (
	"time"
)

// DocumentSection is one ordered unit of document content. Content is nil
// until the generation pipeline (or a manual save) has populated it.
type DocumentSection struct {
	ID               string    `json:"id"`
	DocumentID       string    `json:"document_id"`
	LibrarySectionID *string   `json:"library_section_id,omitempty"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	DisplayOrder     int       `json:"display_order"`
	IsIncluded       bool      `json:"is_included"`
	Content          *string   `json:"content,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// HasContent reports whether the section has been generated or hand-written.
// An empty string counts as absent content.
func (s *DocumentSection) HasContent() bool {
	return s.Content != nil && *s.Content != ""
}

// ContentText returns the section content, or "" when none exists yet.
func (s *DocumentSection) ContentText() string {
	if s.Content == nil {
		return ""
	}
	return *s.Content
}

type SectionList struct {
	Sections []DocumentSection `json:"sections"`
	Total    int               `json:"total"`
}
