package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"docflow/internal/cache"
	"docflow/internal/domain/gateways"
	"docflow/internal/domain/models"
	"docflow/internal/httputil"
	"docflow/internal/rbac"
	"docflow/internal/templates"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCache() *cache.Cache {
	return cache.New(cache.NewMemoryStore(), time.Minute, testLogger())
}

func testRegistry(t *testing.T) *ViewRegistry {
	t.Helper()
	r := NewViewRegistry(time.Hour, testLogger())
	t.Cleanup(r.Stop)
	return r
}

func testTemplates(t *testing.T) *templates.Registry {
	t.Helper()
	r, err := templates.NewRegistry()
	if err != nil {
		t.Fatalf("load template registry: %v", err)
	}
	return r
}

func roleContext(role rbac.Role) context.Context {
	return httputil.ContextWithIdentity(context.Background(), "user-1", string(role), "test-token")
}

func editorContext() context.Context {
	return roleContext(rbac.RoleEditor)
}

func strPtr(s string) *string { return &s }

func testDocument(id string, status models.DocumentStatus) *models.Document {
	now := time.Now()
	return &models.Document{
		ID:         id,
		ProjectID:  "proj-1",
		TemplateID: "prd",
		Title:      "Payments PRD",
		Status:     status,
		CreatedBy:  "user-1",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func testSection(id, title string, order int, content *string) models.DocumentSection {
	now := time.Now()
	return models.DocumentSection{
		ID:           id,
		DocumentID:   "doc-1",
		Title:        title,
		DisplayOrder: order,
		IsIncluded:   true,
		Content:      content,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// fakeDocumentGateway implements gateways.DocumentGateway with overridable
// function fields. Unset methods fail the test when called.
type fakeDocumentGateway struct {
	t *testing.T

	listDocuments        func(ctx context.Context, projectID string) (*models.DocumentList, error)
	getDocument          func(ctx context.Context, id string) (*models.Document, error)
	createDocument       func(ctx context.Context, req *gateways.CreateDocumentRequest) (*models.Document, error)
	updateDocument       func(ctx context.Context, id string, req *gateways.UpdateDocumentRequest) (*models.Document, error)
	deleteDocument       func(ctx context.Context, id string) error
	listSections         func(ctx context.Context, documentID string) (*models.SectionList, error)
	createSection        func(ctx context.Context, documentID string, req *gateways.CreateSectionRequest) (*models.DocumentSection, error)
	updateSection        func(ctx context.Context, documentID, sectionID string, req *gateways.UpdateSectionRequest) (*models.DocumentSection, error)
	updateSectionContent func(ctx context.Context, documentID, sectionID, content string) (*models.DocumentSection, error)
	deleteSection        func(ctx context.Context, documentID, sectionID string) error
	reorderSections      func(ctx context.Context, documentID string, orderedIDs []string) error
}

func (f *fakeDocumentGateway) ListDocuments(ctx context.Context, projectID string) (*models.DocumentList, error) {
	if f.listDocuments == nil {
		f.t.Fatal("unexpected call to ListDocuments")
	}
	return f.listDocuments(ctx, projectID)
}

func (f *fakeDocumentGateway) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	if f.getDocument == nil {
		f.t.Fatal("unexpected call to GetDocument")
	}
	return f.getDocument(ctx, id)
}

func (f *fakeDocumentGateway) CreateDocument(ctx context.Context, req *gateways.CreateDocumentRequest) (*models.Document, error) {
	if f.createDocument == nil {
		f.t.Fatal("unexpected call to CreateDocument")
	}
	return f.createDocument(ctx, req)
}

func (f *fakeDocumentGateway) UpdateDocument(ctx context.Context, id string, req *gateways.UpdateDocumentRequest) (*models.Document, error) {
	if f.updateDocument == nil {
		f.t.Fatal("unexpected call to UpdateDocument")
	}
	return f.updateDocument(ctx, id, req)
}

func (f *fakeDocumentGateway) DeleteDocument(ctx context.Context, id string) error {
	if f.deleteDocument == nil {
		f.t.Fatal("unexpected call to DeleteDocument")
	}
	return f.deleteDocument(ctx, id)
}

func (f *fakeDocumentGateway) ListSections(ctx context.Context, documentID string) (*models.SectionList, error) {
	if f.listSections == nil {
		f.t.Fatal("unexpected call to ListSections")
	}
	return f.listSections(ctx, documentID)
}

func (f *fakeDocumentGateway) CreateSection(ctx context.Context, documentID string, req *gateways.CreateSectionRequest) (*models.DocumentSection, error) {
	if f.createSection == nil {
		f.t.Fatal("unexpected call to CreateSection")
	}
	return f.createSection(ctx, documentID, req)
}

func (f *fakeDocumentGateway) UpdateSection(ctx context.Context, documentID, sectionID string, req *gateways.UpdateSectionRequest) (*models.DocumentSection, error) {
	if f.updateSection == nil {
		f.t.Fatal("unexpected call to UpdateSection")
	}
	return f.updateSection(ctx, documentID, sectionID, req)
}

func (f *fakeDocumentGateway) UpdateSectionContent(ctx context.Context, documentID, sectionID, content string) (*models.DocumentSection, error) {
	if f.updateSectionContent == nil {
		f.t.Fatal("unexpected call to UpdateSectionContent")
	}
	return f.updateSectionContent(ctx, documentID, sectionID, content)
}

func (f *fakeDocumentGateway) DeleteSection(ctx context.Context, documentID, sectionID string) error {
	if f.deleteSection == nil {
		f.t.Fatal("unexpected call to DeleteSection")
	}
	return f.deleteSection(ctx, documentID, sectionID)
}

func (f *fakeDocumentGateway) ReorderSections(ctx context.Context, documentID string, orderedIDs []string) error {
	if f.reorderSections == nil {
		f.t.Fatal("unexpected call to ReorderSections")
	}
	return f.reorderSections(ctx, documentID, orderedIDs)
}

// fakeGenerationGateway implements gateways.GenerationGateway.
type fakeGenerationGateway struct {
	t *testing.T

	generateDocument  func(ctx context.Context, documentID, idempotencyKey string) (*models.GenerationResult, error)
	regenerateSection func(ctx context.Context, documentID, sectionID, prompt string) (*models.SectionGenerationResult, error)
}

func (f *fakeGenerationGateway) GenerateDocument(ctx context.Context, documentID, idempotencyKey string) (*models.GenerationResult, error) {
	if f.generateDocument == nil {
		f.t.Fatal("unexpected call to GenerateDocument")
	}
	return f.generateDocument(ctx, documentID, idempotencyKey)
}

func (f *fakeGenerationGateway) RegenerateSection(ctx context.Context, documentID, sectionID, prompt string) (*models.SectionGenerationResult, error) {
	if f.regenerateSection == nil {
		f.t.Fatal("unexpected call to RegenerateSection")
	}
	return f.regenerateSection(ctx, documentID, sectionID, prompt)
}

// fakeVersionGateway implements gateways.VersionGateway.
type fakeVersionGateway struct {
	t *testing.T

	listVersions    func(ctx context.Context, documentID string) (*models.VersionList, error)
	getVersion      func(ctx context.Context, documentID string, number int) (*models.DocumentVersion, error)
	createVersion   func(ctx context.Context, documentID, changeSummary string) (*models.DocumentVersion, error)
	compareVersions func(ctx context.Context, documentID string, from, to int) (*models.VersionComparison, error)
	restoreVersion  func(ctx context.Context, documentID string, versionNumber int, changeSummary string) (*models.DocumentVersion, error)
}

func (f *fakeVersionGateway) ListVersions(ctx context.Context, documentID string) (*models.VersionList, error) {
	if f.listVersions == nil {
		f.t.Fatal("unexpected call to ListVersions")
	}
	return f.listVersions(ctx, documentID)
}

func (f *fakeVersionGateway) GetVersion(ctx context.Context, documentID string, number int) (*models.DocumentVersion, error) {
	if f.getVersion == nil {
		f.t.Fatal("unexpected call to GetVersion")
	}
	return f.getVersion(ctx, documentID, number)
}

func (f *fakeVersionGateway) CreateVersion(ctx context.Context, documentID, changeSummary string) (*models.DocumentVersion, error) {
	if f.createVersion == nil {
		f.t.Fatal("unexpected call to CreateVersion")
	}
	return f.createVersion(ctx, documentID, changeSummary)
}

func (f *fakeVersionGateway) CompareVersions(ctx context.Context, documentID string, from, to int) (*models.VersionComparison, error) {
	if f.compareVersions == nil {
		f.t.Fatal("unexpected call to CompareVersions")
	}
	return f.compareVersions(ctx, documentID, from, to)
}

func (f *fakeVersionGateway) RestoreVersion(ctx context.Context, documentID string, versionNumber int, changeSummary string) (*models.DocumentVersion, error) {
	if f.restoreVersion == nil {
		f.t.Fatal("unexpected call to RestoreVersion")
	}
	return f.restoreVersion(ctx, documentID, versionNumber, changeSummary)
}

// fakeReviewGateway implements gateways.ReviewGateway.
type fakeReviewGateway struct {
	t *testing.T

	getReviewStatus func(ctx context.Context, documentID string) (*models.ReviewStatus, error)
	submitForReview func(ctx context.Context, documentID string, req *gateways.SubmitReviewRequest) (*models.ReviewStatus, error)
	assignReviewer  func(ctx context.Context, documentID, reviewerID string) (*models.ReviewStatus, error)
	submitDecision  func(ctx context.Context, documentID string, req *gateways.ReviewDecisionRequest) (*models.DocumentReview, error)
	recallReview    func(ctx context.Context, documentID string) (*models.ReviewStatus, error)
	listReviews     func(ctx context.Context, documentID string) (*models.ReviewList, error)
	getReview       func(ctx context.Context, documentID, reviewID string) (*models.DocumentReview, error)
	resolveComment  func(ctx context.Context, documentID, reviewID, commentID string) (*models.ReviewComment, error)
}

func (f *fakeReviewGateway) GetReviewStatus(ctx context.Context, documentID string) (*models.ReviewStatus, error) {
	if f.getReviewStatus == nil {
		f.t.Fatal("unexpected call to GetReviewStatus")
	}
	return f.getReviewStatus(ctx, documentID)
}

func (f *fakeReviewGateway) SubmitForReview(ctx context.Context, documentID string, req *gateways.SubmitReviewRequest) (*models.ReviewStatus, error) {
	if f.submitForReview == nil {
		f.t.Fatal("unexpected call to SubmitForReview")
	}
	return f.submitForReview(ctx, documentID, req)
}

func (f *fakeReviewGateway) AssignReviewer(ctx context.Context, documentID, reviewerID string) (*models.ReviewStatus, error) {
	if f.assignReviewer == nil {
		f.t.Fatal("unexpected call to AssignReviewer")
	}
	return f.assignReviewer(ctx, documentID, reviewerID)
}

func (f *fakeReviewGateway) SubmitDecision(ctx context.Context, documentID string, req *gateways.ReviewDecisionRequest) (*models.DocumentReview, error) {
	if f.submitDecision == nil {
		f.t.Fatal("unexpected call to SubmitDecision")
	}
	return f.submitDecision(ctx, documentID, req)
}

func (f *fakeReviewGateway) RecallReview(ctx context.Context, documentID string) (*models.ReviewStatus, error) {
	if f.recallReview == nil {
		f.t.Fatal("unexpected call to RecallReview")
	}
	return f.recallReview(ctx, documentID)
}

func (f *fakeReviewGateway) ListReviews(ctx context.Context, documentID string) (*models.ReviewList, error) {
	if f.listReviews == nil {
		f.t.Fatal("unexpected call to ListReviews")
	}
	return f.listReviews(ctx, documentID)
}

func (f *fakeReviewGateway) GetReview(ctx context.Context, documentID, reviewID string) (*models.DocumentReview, error) {
	if f.getReview == nil {
		f.t.Fatal("unexpected call to GetReview")
	}
	return f.getReview(ctx, documentID, reviewID)
}

func (f *fakeReviewGateway) ResolveComment(ctx context.Context, documentID, reviewID, commentID string) (*models.ReviewComment, error) {
	if f.resolveComment == nil {
		f.t.Fatal("unexpected call to ResolveComment")
	}
	return f.resolveComment(ctx, documentID, reviewID, commentID)
}
