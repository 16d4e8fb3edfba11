package templates

// LibrarySection is a reusable section definition inside a document template.
// Document sections keep an optional back-reference to the library section
// they were seeded from.
type LibrarySection struct {
	ID           string `yaml:"id" json:"id"`
	Title        string `yaml:"title" json:"title"`
	Description  string `yaml:"description" json:"description"`
	DefaultOrder int    `yaml:"default_order" json:"default_order"`

	// Prompt is the base generation prompt used when a document section has no
	// description of its own.
	Prompt string `yaml:"prompt" json:"prompt,omitempty"`

	// Optional marks sections that are excluded (is_included=false) by default.
	Optional bool `yaml:"optional" json:"optional,omitempty"`
}

// Template describes one document template: its identity, stages and the
// library sections new documents are seeded with.
type Template struct {
	ID          string           `yaml:"id" json:"id"`
	Name        string           `yaml:"name" json:"name"`
	Description string           `yaml:"description" json:"description"`
	Stages      []string         `yaml:"stages" json:"stages,omitempty"`
	Sections    []LibrarySection `yaml:"sections" json:"sections"`
}

// TemplateFile is the top-level structure of one embedded YAML file.
type TemplateFile struct {
	Templates []Template `yaml:"templates"`
}
