package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"docflow/internal/cache"
	"docflow/internal/domain"
	"docflow/internal/domain/gateways"
	"docflow/internal/domain/models"
	"docflow/internal/domain/services"
)

func newSectionFixture(t *testing.T, docs *fakeDocumentGateway, generator *fakeGenerationGateway) (*sectionService, *ViewRegistry) {
	t.Helper()
	registry := testRegistry(t)
	svc := NewSectionService(docs, generator, testCache(), registry, testTemplates(t), testLogger()).(*sectionService)
	return svc, registry
}

func sectionListGateway(t *testing.T, list *models.SectionList) *fakeDocumentGateway {
	return &fakeDocumentGateway{
		t:            t,
		listSections: func(ctx context.Context, documentID string) (*models.SectionList, error) { return list, nil },
	}
}

func TestEditorStateMachine(t *testing.T) {
	list := &models.SectionList{
		Sections: []models.DocumentSection{testSection("sec-1", "Overview", 1, strPtr("original"))},
		Total:    1,
	}
	docs := sectionListGateway(t, list)

	svc, registry := newSectionFixture(t, docs, &fakeGenerationGateway{t: t})
	view := registry.create("user-1", "doc-1")

	editor, err := svc.OpenEditor(editorContext(), view.id, "sec-1")
	if err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	if editor.State != services.EditClean {
		t.Errorf("fresh editor state = %s, want clean", editor.State)
	}
	if editor.Content != "original" {
		t.Errorf("fresh editor content = %q, want section content", editor.Content)
	}

	editor, err = svc.SetBuffer(view.id, "sec-1", "edited")
	if err != nil {
		t.Fatalf("SetBuffer: %v", err)
	}
	if editor.State != services.EditDirty {
		t.Errorf("state after edit = %s, want dirty", editor.State)
	}
	if !editor.HasUnsavedChanges() {
		t.Error("dirty buffer must report unsaved changes")
	}

	// Typing the saved content back is an explicit transition to clean
	editor, err = svc.SetBuffer(view.id, "sec-1", "original")
	if err != nil {
		t.Fatalf("SetBuffer: %v", err)
	}
	if editor.State != services.EditClean {
		t.Errorf("state after reverting = %s, want clean", editor.State)
	}
}

func TestSaveTransitions(t *testing.T) {
	list := &models.SectionList{
		Sections: []models.DocumentSection{testSection("sec-1", "Overview", 1, strPtr("original"))},
		Total:    1,
	}

	t.Run("success ends clean", func(t *testing.T) {
		docs := sectionListGateway(t, list)
		docs.updateSectionContent = func(ctx context.Context, documentID, sectionID, content string) (*models.DocumentSection, error) {
			saved := testSection(sectionID, "Overview", 1, &content)
			return &saved, nil
		}

		svc, registry := newSectionFixture(t, docs, &fakeGenerationGateway{t: t})
		view := registry.create("user-1", "doc-1")

		if _, err := svc.OpenEditor(editorContext(), view.id, "sec-1"); err != nil {
			t.Fatalf("OpenEditor: %v", err)
		}
		if _, err := svc.SetBuffer(view.id, "sec-1", "edited"); err != nil {
			t.Fatalf("SetBuffer: %v", err)
		}

		section, err := svc.Save(editorContext(), view.id, "sec-1")
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		if section.ContentText() != "edited" {
			t.Errorf("saved content = %q, want %q", section.ContentText(), "edited")
		}

		editor, err := svc.Editor(view.id, "sec-1")
		if err != nil {
			t.Fatalf("Editor: %v", err)
		}
		if editor.State != services.EditClean {
			t.Errorf("state after save = %s, want clean", editor.State)
		}
		if editor.Saved != "edited" {
			t.Errorf("saved content mirror = %q, want %q", editor.Saved, "edited")
		}
	})

	t.Run("failure preserves draft", func(t *testing.T) {
		docs := sectionListGateway(t, list)
		docs.updateSectionContent = func(ctx context.Context, documentID, sectionID, content string) (*models.DocumentSection, error) {
			return nil, &domain.UpstreamError{Status: 502, Detail: "backend down"}
		}

		svc, registry := newSectionFixture(t, docs, &fakeGenerationGateway{t: t})
		view := registry.create("user-1", "doc-1")

		if _, err := svc.OpenEditor(editorContext(), view.id, "sec-1"); err != nil {
			t.Fatalf("OpenEditor: %v", err)
		}
		if _, err := svc.SetBuffer(view.id, "sec-1", "edited"); err != nil {
			t.Fatalf("SetBuffer: %v", err)
		}

		if _, err := svc.Save(editorContext(), view.id, "sec-1"); err == nil {
			t.Fatal("expected save failure to surface")
		}

		editor, err := svc.Editor(view.id, "sec-1")
		if err != nil {
			t.Fatalf("Editor: %v", err)
		}
		if editor.State != services.EditSaveFailed {
			t.Errorf("state after failed save = %s, want save_failed", editor.State)
		}
		if editor.Content != "edited" {
			t.Errorf("draft after failed save = %q, must be preserved", editor.Content)
		}
	})

	t.Run("clean save skips the network", func(t *testing.T) {
		docs := sectionListGateway(t, list) // updateSectionContent unset: any call fails

		svc, registry := newSectionFixture(t, docs, &fakeGenerationGateway{t: t})
		view := registry.create("user-1", "doc-1")

		if _, err := svc.OpenEditor(editorContext(), view.id, "sec-1"); err != nil {
			t.Fatalf("OpenEditor: %v", err)
		}
		section, err := svc.Save(editorContext(), view.id, "sec-1")
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		if section.ContentText() != "original" {
			t.Errorf("clean save returned %q, want the untouched section", section.ContentText())
		}
	})
}

func TestExternalRefreshSyncsBuffers(t *testing.T) {
	content := "original"
	list := &models.SectionList{
		Sections: []models.DocumentSection{testSection("sec-1", "Overview", 1, &content)},
		Total:    1,
	}
	docs := sectionListGateway(t, list)

	svc, registry := newSectionFixture(t, docs, &fakeGenerationGateway{t: t})
	view := registry.create("user-1", "doc-1")

	if _, err := svc.OpenEditor(editorContext(), view.id, "sec-1"); err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	if _, err := svc.SetBuffer(view.id, "sec-1", "refreshed"); err != nil {
		t.Fatalf("SetBuffer: %v", err)
	}

	// The backend now holds exactly what the user typed; a refresh must flip
	// the buffer to clean rather than leaving a phantom dirty state.
	refreshed := "refreshed"
	list.Sections[0].Content = &refreshed
	svc.cache.Invalidate(context.Background(), cache.SectionsKey("doc-1"))
	if _, err := svc.List(editorContext(), "doc-1"); err != nil {
		t.Fatalf("List: %v", err)
	}

	editor, err := svc.Editor(view.id, "sec-1")
	if err != nil {
		t.Fatalf("Editor: %v", err)
	}
	if editor.State != services.EditClean {
		t.Errorf("state after matching refresh = %s, want clean", editor.State)
	}
	if editor.Saved != "refreshed" {
		t.Errorf("saved mirror after refresh = %q, want %q", editor.Saved, "refreshed")
	}
}

func TestAddSectionAppendsAtEnd(t *testing.T) {
	list := &models.SectionList{
		Sections: []models.DocumentSection{
			testSection("sec-1", "Overview", 1, nil),
			testSection("sec-2", "Goals", 2, nil),
		},
		Total: 2,
	}
	docs := sectionListGateway(t, list)
	docs.createSection = func(ctx context.Context, documentID string, req *gateways.CreateSectionRequest) (*models.DocumentSection, error) {
		if req.DisplayOrder != 3 {
			t.Errorf("display_order = %d, want 3 (append-only)", req.DisplayOrder)
		}
		if !req.IsIncluded {
			t.Error("manually added sections must start included")
		}
		created := testSection("sec-3", req.Title, req.DisplayOrder, nil)
		return &created, nil
	}

	svc, registry := newSectionFixture(t, docs, &fakeGenerationGateway{t: t})
	view := registry.create("user-1", "doc-1")

	section, err := svc.Add(editorContext(), view.id, &services.AddSectionRequest{Title: "Rollout Plan"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if section.ID != "sec-3" {
		t.Errorf("unexpected section id %q", section.ID)
	}
}

func TestRemoveSectionClearsSelectionAndBuffer(t *testing.T) {
	list := &models.SectionList{
		Sections: []models.DocumentSection{testSection("sec-1", "Overview", 1, strPtr("text"))},
		Total:    1,
	}
	docs := sectionListGateway(t, list)
	docs.deleteSection = func(ctx context.Context, documentID, sectionID string) error { return nil }

	svc, registry := newSectionFixture(t, docs, &fakeGenerationGateway{t: t})
	view := registry.create("user-1", "doc-1")

	if err := svc.SelectSection(view.id, "sec-1"); err != nil {
		t.Fatalf("SelectSection: %v", err)
	}
	if _, err := svc.OpenEditor(editorContext(), view.id, "sec-1"); err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}

	if err := svc.Remove(editorContext(), view.id, "sec-1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if got := view.snapshot().SelectedSectionID; got != "" {
		t.Errorf("selected section after removal = %q, want cleared", got)
	}
	if _, err := svc.Editor(view.id, "sec-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected the edit buffer to be discarded, got %v", err)
	}
}

func TestRegeneratePromptConcatenation(t *testing.T) {
	withDescription := testSection("sec-1", "Overview", 1, nil)
	withDescription.Description = "Cover the problem space"

	libID := "prd-goals"
	fromLibrary := testSection("sec-2", "Goals & Non-Goals", 2, nil)
	fromLibrary.LibrarySectionID = &libID

	bareTitle := testSection("sec-3", "Appendix", 3, nil)

	list := &models.SectionList{
		Sections: []models.DocumentSection{withDescription, fromLibrary, bareTitle},
		Total:    3,
	}

	tests := []struct {
		name         string
		sectionID    string
		instructions string
		wantPrompt   string
	}{
		{
			name:         "description plus instructions",
			sectionID:    "sec-1",
			instructions: "keep it under 200 words",
			wantPrompt:   "Cover the problem space" + instructionsSeparator + "keep it under 200 words",
		},
		{
			name:       "description alone",
			sectionID:  "sec-1",
			wantPrompt: "Cover the problem space",
		},
		{
			name:       "library prompt fallback",
			sectionID:  "sec-2",
			wantPrompt: "List measurable goals first, then scope that is explicitly excluded and why.",
		},
		{
			name:       "title as last resort",
			sectionID:  "sec-3",
			wantPrompt: "Appendix",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := sectionListGateway(t, list)
			docs.getDocument = func(ctx context.Context, id string) (*models.Document, error) {
				return testDocument(id, models.StatusCompleted), nil
			}

			var gotPrompt string
			generator := &fakeGenerationGateway{
				t: t,
				regenerateSection: func(ctx context.Context, documentID, sectionID, prompt string) (*models.SectionGenerationResult, error) {
					gotPrompt = prompt
					return &models.SectionGenerationResult{SectionID: sectionID, Content: "fresh"}, nil
				},
			}

			svc, registry := newSectionFixture(t, docs, generator)
			view := registry.create("user-1", "doc-1")

			_, err := svc.Regenerate(editorContext(), view.id, tt.sectionID, &services.RegenerateRequest{Instructions: tt.instructions})
			if err != nil {
				t.Fatalf("Regenerate: %v", err)
			}
			if gotPrompt != tt.wantPrompt {
				t.Errorf("prompt = %q, want %q", gotPrompt, tt.wantPrompt)
			}
		})
	}
}

func TestRegenerateOverwritesOpenBuffer(t *testing.T) {
	list := &models.SectionList{
		Sections: []models.DocumentSection{testSection("sec-1", "Overview", 1, strPtr("original"))},
		Total:    1,
	}
	docs := sectionListGateway(t, list)
	generator := &fakeGenerationGateway{
		t: t,
		regenerateSection: func(ctx context.Context, documentID, sectionID, prompt string) (*models.SectionGenerationResult, error) {
			return &models.SectionGenerationResult{SectionID: sectionID, Content: "regenerated"}, nil
		},
	}

	svc, registry := newSectionFixture(t, docs, generator)
	view := registry.create("user-1", "doc-1")

	if _, err := svc.OpenEditor(editorContext(), view.id, "sec-1"); err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	if _, err := svc.SetBuffer(view.id, "sec-1", "half-typed edit"); err != nil {
		t.Fatalf("SetBuffer: %v", err)
	}

	if _, err := svc.Regenerate(editorContext(), view.id, "sec-1", &services.RegenerateRequest{}); err != nil {
		t.Fatalf("Regenerate: %v", err)
	}

	editor, err := svc.Editor(view.id, "sec-1")
	if err != nil {
		t.Fatalf("Editor: %v", err)
	}
	if editor.Content != "regenerated" {
		t.Errorf("buffer after regenerate = %q, regeneration must win", editor.Content)
	}
	if editor.State != services.EditClean {
		t.Errorf("state after regenerate = %s, want clean", editor.State)
	}
}

func TestDuplicateOperationIsDropped(t *testing.T) {
	list := &models.SectionList{
		Sections: []models.DocumentSection{testSection("sec-1", "Overview", 1, strPtr("original"))},
		Total:    1,
	}
	docs := sectionListGateway(t, list)

	svc, registry := newSectionFixture(t, docs, &fakeGenerationGateway{t: t})
	view := registry.create("user-1", "doc-1")

	// Simulate an in-flight save by holding its busy flag
	if !view.begin("section:save:sec-1") {
		t.Fatal("expected to acquire the busy flag")
	}
	defer view.end("section:save:sec-1")

	_, err := svc.Save(editorContext(), view.id, "sec-1")
	if !errors.Is(err, domain.ErrBusy) {
		t.Errorf("duplicate save: expected ErrBusy, got %v", err)
	}

	// A different section's save is unaffected
	if !view.begin("section:save:sec-2") {
		t.Error("busy flags must be scoped per section")
	}
	view.end("section:save:sec-2")
}

func TestSetBufferRejectedWhileSaving(t *testing.T) {
	list := &models.SectionList{
		Sections: []models.DocumentSection{testSection("sec-1", "Overview", 1, strPtr("original"))},
		Total:    1,
	}
	docs := sectionListGateway(t, list)

	svc, registry := newSectionFixture(t, docs, &fakeGenerationGateway{t: t})
	view := registry.create("user-1", "doc-1")

	if _, err := svc.OpenEditor(editorContext(), view.id, "sec-1"); err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}

	view.mu.Lock()
	view.buffers["sec-1"].state = services.EditSaving
	view.mu.Unlock()

	if _, err := svc.SetBuffer(view.id, "sec-1", "typed mid-save"); !errors.Is(err, domain.ErrBusy) {
		t.Errorf("expected ErrBusy while a save is in flight, got %v", err)
	}
}

func TestAddSectionValidation(t *testing.T) {
	svc, registry := newSectionFixture(t, &fakeDocumentGateway{t: t}, &fakeGenerationGateway{t: t})
	view := registry.create("user-1", "doc-1")

	tests := []struct {
		name string
		req  services.AddSectionRequest
	}{
		{"empty title", services.AddSectionRequest{}},
		{"title too long", services.AddSectionRequest{Title: strings.Repeat("x", 300)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(editorContext(), view.id, &tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}
