package models

// SectionGenerationResult is the per-section outcome of a generation request.
// UsedFallback marks placeholder content produced while the generation backend
// was unavailable; it is a qualified success, not an error.
type SectionGenerationResult struct {
	SectionID    string `json:"section_id"`
	Content      string `json:"content"`
	UsedFallback bool   `json:"used_fallback"`
}

// GenerationResult is the outcome of a whole-document bulk generation.
type GenerationResult struct {
	DocumentID string                    `json:"document_id"`
	Sections   []SectionGenerationResult `json:"sections"`
}

// FallbackCount returns how many sections received placeholder content.
func (r *GenerationResult) FallbackCount() int {
	n := 0
	for _, s := range r.Sections {
		if s.UsedFallback {
			n++
		}
	}
	return n
}
