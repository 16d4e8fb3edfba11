package templates

import (
	"embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry holds the document templates shipped with the service. Templates
// are loaded once from embedded YAML at startup and are read-only afterwards.
type Registry struct {
	templates map[string]*Template
	mu        sync.RWMutex
}

// NewRegistry creates a new template registry and loads embedded YAML files
func NewRegistry() (*Registry, error) {
	r := &Registry{
		templates: make(map[string]*Template),
	}

	entries, err := configFiles.ReadDir("config")
	if err != nil {
		return nil, fmt.Errorf("read template config dir: %w", err)
	}

	for _, entry := range entries {
		if err := r.loadFile("config/" + entry.Name()); err != nil {
			return nil, err
		}
	}

	if len(r.templates) == 0 {
		return nil, fmt.Errorf("no document templates found in embedded config")
	}

	return r, nil
}

func (r *Registry) loadFile(filename string) error {
	data, err := configFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var file TemplateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range file.Templates {
		tmpl := file.Templates[i]
		if tmpl.ID == "" {
			return fmt.Errorf("%s: template with empty id", filename)
		}
		if _, exists := r.templates[tmpl.ID]; exists {
			return fmt.Errorf("%s: duplicate template id %q", filename, tmpl.ID)
		}
		sort.SliceStable(tmpl.Sections, func(a, b int) bool {
			return tmpl.Sections[a].DefaultOrder < tmpl.Sections[b].DefaultOrder
		})
		r.templates[tmpl.ID] = &tmpl
	}

	return nil
}

// Get returns the template with the given id
func (r *Registry) Get(id string) (*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tmpl, ok := r.templates[id]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", id)
	}
	return tmpl, nil
}

// List returns all templates ordered by id
func (r *Registry) List() []*Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Template, 0, len(r.templates))
	for _, tmpl := range r.templates {
		out = append(out, tmpl)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

// Section returns one library section definition from a template.
func (r *Registry) Section(templateID, sectionID string) (*LibrarySection, error) {
	tmpl, err := r.Get(templateID)
	if err != nil {
		return nil, err
	}
	for i := range tmpl.Sections {
		if tmpl.Sections[i].ID == sectionID {
			return &tmpl.Sections[i], nil
		}
	}
	return nil, fmt.Errorf("template %q has no section %q", templateID, sectionID)
}
