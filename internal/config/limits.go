package config

const (
	// MaxDocumentTitleLength is the maximum length for document titles.
	// Limited to 255 to provide reasonable UX (titles should be short
	// and descriptive).
	MaxDocumentTitleLength = 255

	// MaxSectionTitleLength is the maximum length for section titles.
	// Same as document titles for consistency.
	MaxSectionTitleLength = 255

	// MaxSectionDescriptionLength is the maximum length for section
	// descriptions, which double as the generation prompt base.
	MaxSectionDescriptionLength = 2000

	// MaxInstructionsLength is the maximum length for free-text
	// regeneration instructions appended to a section description.
	MaxInstructionsLength = 2000

	// MaxChangeSummaryLength is the maximum length for version change
	// summaries.
	MaxChangeSummaryLength = 500

	// MaxReviewCommentLength is the maximum length for review comments.
	MaxReviewCommentLength = 5000
)
