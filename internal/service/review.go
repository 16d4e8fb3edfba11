package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docflow/internal/cache"
	"docflow/internal/config"
	"docflow/internal/domain"
	"docflow/internal/domain/gateways"
	"docflow/internal/domain/models"
	"docflow/internal/domain/services"
	"docflow/internal/httputil"
	"docflow/internal/rbac"
)

// reviewService implements the ReviewService interface
type reviewService struct {
	reviews gateways.ReviewGateway
	cache   *cache.Cache
	views   *ViewRegistry
	logger  *slog.Logger
}

// NewReviewService creates a new review service
func NewReviewService(
	reviews gateways.ReviewGateway,
	cacheLayer *cache.Cache,
	views *ViewRegistry,
	logger *slog.Logger,
) services.ReviewService {
	return &reviewService{
		reviews: reviews,
		cache:   cacheLayer,
		views:   views,
		logger:  logger,
	}
}

func (s *reviewService) Status(ctx context.Context, documentID string) (*models.ReviewStatus, error) {
	return cache.GetOrFetch(ctx, s.cache, cache.ReviewStatusKey(documentID), func(ctx context.Context) (*models.ReviewStatus, error) {
		return s.reviews.GetReviewStatus(ctx, documentID)
	})
}

// canSubmitState is the state half of the submission gate: a document already
// pending or approved cannot be resubmitted without a recall.
func canSubmitState(state models.ReviewState) bool {
	return state == models.ReviewDraft || state == models.ReviewChangesRequested
}

func (s *reviewService) CanSubmit(ctx context.Context, documentID string) (bool, error) {
	if !rbac.Can(rbac.Normalize(httputil.GetOrgRole(ctx)), rbac.ActionSubmitReview) {
		return false, nil
	}
	status, err := s.Status(ctx, documentID)
	if err != nil {
		return false, err
	}
	return canSubmitState(status.State), nil
}

// Submit sends the document into review. Both gates (role and review state)
// are checked locally first so an impossible submission never reaches the
// network; the backend remains the authority.
func (s *reviewService) Submit(ctx context.Context, viewID string, req *services.SubmitReviewRequest) (*models.ReviewStatus, error) {
	view, err := s.views.get(viewID)
	if err != nil {
		return nil, err
	}
	if !rbac.Can(rbac.Normalize(httputil.GetOrgRole(ctx)), rbac.ActionSubmitReview) {
		return nil, fmt.Errorf("%w: role cannot submit for review", domain.ErrForbidden)
	}

	status, err := s.Status(ctx, view.documentID)
	if err != nil {
		return nil, err
	}
	if !canSubmitState(status.State) {
		return nil, fmt.Errorf("%w: document is %s and cannot be submitted", domain.ErrValidation, status.State)
	}

	if !view.begin("review:submit") {
		return nil, domain.ErrBusy
	}
	defer view.end("review:submit")

	updated, err := s.reviews.SubmitForReview(ctx, view.documentID, &gateways.SubmitReviewRequest{
		ReviewerID: req.ReviewerID,
		Message:    req.Message,
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.ReviewStatusKey(view.documentID))
	return updated, nil
}

func (s *reviewService) AssignReviewer(ctx context.Context, documentID, reviewerID string) (*models.ReviewStatus, error) {
	if !rbac.Can(rbac.Normalize(httputil.GetOrgRole(ctx)), rbac.ActionReview) {
		return nil, fmt.Errorf("%w: role cannot assign reviewers", domain.ErrForbidden)
	}
	if reviewerID == "" {
		return nil, fmt.Errorf("%w: reviewer_id is required", domain.ErrValidation)
	}

	status, err := s.reviews.AssignReviewer(ctx, documentID, reviewerID)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.ReviewStatusKey(documentID))
	return status, nil
}

// Decide records a verdict. A non-approval verdict without an overall comment
// is rejected locally; no request is sent.
func (s *reviewService) Decide(ctx context.Context, viewID string, req *services.DecisionRequest) (*models.DocumentReview, error) {
	view, err := s.views.get(viewID)
	if err != nil {
		return nil, err
	}
	if !rbac.Can(rbac.Normalize(httputil.GetOrgRole(ctx)), rbac.ActionReview) {
		return nil, fmt.Errorf("%w: role cannot review documents", domain.ErrForbidden)
	}
	if err := s.validateDecision(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if !view.begin("review:decide") {
		return nil, domain.ErrBusy
	}
	defer view.end("review:decide")

	comments := make([]gateways.ReviewCommentRequest, 0, len(req.Comments))
	for _, c := range req.Comments {
		comments = append(comments, gateways.ReviewCommentRequest{
			SectionID: c.SectionID,
			Body:      c.Body,
		})
	}

	review, err := s.reviews.SubmitDecision(ctx, view.documentID, &gateways.ReviewDecisionRequest{
		Decision: req.Decision,
		Comment:  req.Comment,
		Comments: comments,
	})
	if err != nil {
		return nil, err
	}

	keys := []cache.Key{
		cache.ReviewStatusKey(view.documentID),
		cache.ReviewsKey(view.documentID),
	}
	if req.Decision == models.DecisionApproved {
		// Approval snapshots a new version upstream
		keys = append(keys,
			cache.VersionsKey(view.documentID),
			cache.DocumentKey(view.documentID),
		)
	}
	s.cache.Invalidate(ctx, keys...)

	s.logger.Info("review decided",
		"document_id", view.documentID,
		"decision", req.Decision,
	)
	return review, nil
}

func (s *reviewService) Recall(ctx context.Context, documentID string) (*models.ReviewStatus, error) {
	if !rbac.Can(rbac.Normalize(httputil.GetOrgRole(ctx)), rbac.ActionWrite) {
		return nil, fmt.Errorf("%w: role cannot recall documents", domain.ErrForbidden)
	}

	status, err := s.Status(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if status.State != models.ReviewApproved && status.State != models.ReviewPending {
		return nil, fmt.Errorf("%w: document is %s and cannot be recalled", domain.ErrValidation, status.State)
	}

	updated, err := s.reviews.RecallReview(ctx, documentID)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.ReviewStatusKey(documentID))
	s.logger.Info("review recalled", "document_id", documentID, "was", status.State)
	return updated, nil
}

func (s *reviewService) ListReviews(ctx context.Context, documentID string) (*models.ReviewList, error) {
	return cache.GetOrFetch(ctx, s.cache, cache.ReviewsKey(documentID), func(ctx context.Context) (*models.ReviewList, error) {
		return s.reviews.ListReviews(ctx, documentID)
	})
}

func (s *reviewService) GetReview(ctx context.Context, documentID, reviewID string) (*models.DocumentReview, error) {
	list, err := s.ListReviews(ctx, documentID)
	if err != nil {
		return nil, err
	}
	for i := range list.Reviews {
		if list.Reviews[i].ID == reviewID {
			return &list.Reviews[i], nil
		}
	}
	return s.reviews.GetReview(ctx, documentID, reviewID)
}

// ResolveComment is an idempotent toggle: an upstream conflict meaning
// "already resolved" is reported as success, not an error.
func (s *reviewService) ResolveComment(ctx context.Context, documentID, reviewID, commentID string) (*models.ReviewComment, error) {
	if !rbac.Can(rbac.Normalize(httputil.GetOrgRole(ctx)), rbac.ActionComment) {
		return nil, fmt.Errorf("%w: role cannot resolve comments", domain.ErrForbidden)
	}

	comment, err := s.reviews.ResolveComment(ctx, documentID, reviewID, commentID)
	if err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		// Already resolved: fetch the comment and report success
		s.logger.Debug("comment already resolved", "comment_id", commentID)
		review, getErr := s.reviews.GetReview(ctx, documentID, reviewID)
		if getErr != nil {
			return nil, getErr
		}
		for i := range review.Comments {
			if review.Comments[i].ID == commentID {
				comment = &review.Comments[i]
				break
			}
		}
		if comment == nil {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("comment %s not found", commentID)}
		}
	}

	s.cache.Invalidate(ctx,
		cache.ReviewsKey(documentID),
		cache.ReviewStatusKey(documentID),
	)
	return comment, nil
}

func (s *reviewService) validateDecision(req *services.DecisionRequest) error {
	switch req.Decision {
	case models.DecisionApproved, models.DecisionRejected, models.DecisionChangesRequested:
	default:
		return fmt.Errorf("unknown decision %q", req.Decision)
	}

	if req.Decision != models.DecisionApproved {
		if err := validation.Validate(req.Comment,
			validation.Required.Error("an overall comment is required when requesting changes or rejecting"),
			validation.Length(1, config.MaxReviewCommentLength),
		); err != nil {
			return fmt.Errorf("comment: %v", err)
		}
	} else if err := validation.Validate(req.Comment, validation.Length(0, config.MaxReviewCommentLength)); err != nil {
		return fmt.Errorf("comment: %v", err)
	}

	for i, c := range req.Comments {
		if err := validation.Validate(c.Body,
			validation.Required,
			validation.Length(1, config.MaxReviewCommentLength),
		); err != nil {
			return fmt.Errorf("comments[%d]: %v", i, err)
		}
	}
	return nil
}
