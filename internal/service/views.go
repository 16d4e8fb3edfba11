package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"docflow/internal/cache"
	"docflow/internal/domain"
	"docflow/internal/domain/gateways"
	"docflow/internal/domain/models"
	"docflow/internal/domain/services"
)

// editBuffer is one section's local draft. saved mirrors the last content the
// backend confirmed; state is the explicit editing state machine.
type editBuffer struct {
	content string
	saved   string
	state   services.EditState
}

// documentView holds all session-local state for one open document view:
// the one-shot generation latch, edit buffers, selections and busy flags.
// None of it survives the view; server truth lives in the cache layer.
type documentView struct {
	id             string
	userID         string
	documentID     string
	idempotencyKey string
	createdAt      time.Time

	mu                  sync.Mutex
	lastSeen            time.Time
	generationTriggered bool
	selectedSectionID   string
	compareSelection    []int
	buffers             map[string]*editBuffer
	busy                map[string]bool
}

// tryTriggerGeneration flips the one-shot latch. Only the first caller per
// view gets true; the latch never resets, even after a failed generation.
func (v *documentView) tryTriggerGeneration() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.generationTriggered {
		return false
	}
	v.generationTriggered = true
	return true
}

// begin acquires the busy flag for op. A false return means an identical
// operation is already in flight and this invocation must be dropped.
func (v *documentView) begin(op string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.busy[op] {
		return false
	}
	v.busy[op] = true
	return true
}

func (v *documentView) end(op string) {
	v.mu.Lock()
	delete(v.busy, op)
	v.mu.Unlock()
}

func (v *documentView) touch() {
	v.mu.Lock()
	v.lastSeen = time.Now()
	v.mu.Unlock()
}

func (v *documentView) snapshot() *services.ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()

	selection := make([]int, len(v.compareSelection))
	copy(selection, v.compareSelection)

	return &services.ViewState{
		ID:                  v.id,
		DocumentID:          v.documentID,
		UserID:              v.userID,
		SelectedSectionID:   v.selectedSectionID,
		CompareSelection:    selection,
		GenerationTriggered: v.generationTriggered,
		CreatedAt:           v.createdAt,
	}
}

// syncBuffers reconciles open edit buffers with freshly fetched sections.
// An externally refreshed section updates the buffer's saved content and the
// state transitions explicitly: a draft that now matches the server content
// becomes Clean, one that no longer matches becomes Dirty. In-flight saves
// are left alone.
func (v *documentView) syncBuffers(sections []models.DocumentSection) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, section := range sections {
		buf, ok := v.buffers[section.ID]
		if !ok || buf.state == services.EditSaving {
			continue
		}
		buf.saved = section.ContentText()
		if buf.content == buf.saved {
			buf.state = services.EditClean
		} else {
			buf.state = services.EditDirty
		}
	}
}

// ViewRegistry owns all live document views. Views expire after ttl of
// inactivity; expiry discards unsaved local state, which is the documented
// session-scoped guarantee.
type ViewRegistry struct {
	mu     sync.RWMutex
	views  map[string]*documentView
	ttl    time.Duration
	stop   chan struct{}
	logger *slog.Logger
}

// NewViewRegistry creates a registry and starts the expiry sweep.
func NewViewRegistry(ttl time.Duration, logger *slog.Logger) *ViewRegistry {
	r := &ViewRegistry{
		views:  make(map[string]*documentView),
		ttl:    ttl,
		stop:   make(chan struct{}),
		logger: logger,
	}
	go r.sweep()
	return r
}

// Stop halts the expiry sweep.
func (r *ViewRegistry) Stop() {
	close(r.stop)
}

func (r *ViewRegistry) sweep() {
	interval := r.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.expire()
		}
	}
}

func (r *ViewRegistry) expire() {
	cutoff := time.Now().Add(-r.ttl)

	r.mu.Lock()
	for id, view := range r.views {
		view.mu.Lock()
		stale := view.lastSeen.Before(cutoff)
		view.mu.Unlock()
		if stale {
			delete(r.views, id)
			r.logger.Debug("view expired", "view_id", id, "document_id", view.documentID)
		}
	}
	r.mu.Unlock()
}

func (r *ViewRegistry) create(userID, documentID string) *documentView {
	now := time.Now()
	view := &documentView{
		id:             uuid.NewString(),
		userID:         userID,
		documentID:     documentID,
		idempotencyKey: uuid.NewString(),
		createdAt:      now,
		lastSeen:       now,
		buffers:        make(map[string]*editBuffer),
		busy:           make(map[string]bool),
	}

	r.mu.Lock()
	r.views[view.id] = view
	r.mu.Unlock()
	return view
}

func (r *ViewRegistry) get(viewID string) (*documentView, error) {
	r.mu.RLock()
	view, ok := r.views[viewID]
	r.mu.RUnlock()

	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("view %s not found", viewID)}
	}
	view.touch()
	return view, nil
}

func (r *ViewRegistry) remove(viewID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.views[viewID]; !ok {
		return false
	}
	delete(r.views, viewID)
	return true
}

// viewService implements the ViewService interface
type viewService struct {
	registry *ViewRegistry
	docs     gateways.DocumentGateway
	cache    *cache.Cache
	logger   *slog.Logger
}

// NewViewService creates a new view service
func NewViewService(
	registry *ViewRegistry,
	docs gateways.DocumentGateway,
	cacheLayer *cache.Cache,
	logger *slog.Logger,
) services.ViewService {
	return &viewService{
		registry: registry,
		docs:     docs,
		cache:    cacheLayer,
		logger:   logger,
	}
}

func (s *viewService) Open(ctx context.Context, userID, documentID string) (*services.ViewState, error) {
	// Verify the document exists before handing out a view
	doc, err := cache.GetOrFetch(ctx, s.cache, cache.DocumentKey(documentID), func(ctx context.Context) (*models.Document, error) {
		return s.docs.GetDocument(ctx, documentID)
	})
	if err != nil {
		return nil, err
	}

	view := s.registry.create(userID, doc.ID)
	s.logger.Info("view opened",
		"view_id", view.id,
		"document_id", doc.ID,
		"user_id", userID,
	)
	return view.snapshot(), nil
}

func (s *viewService) Get(viewID string) (*services.ViewState, error) {
	view, err := s.registry.get(viewID)
	if err != nil {
		return nil, err
	}
	return view.snapshot(), nil
}

func (s *viewService) Close(viewID string) error {
	if !s.registry.remove(viewID) {
		return &domain.NotFoundError{Message: fmt.Sprintf("view %s not found", viewID)}
	}
	s.logger.Debug("view closed", "view_id", viewID)
	return nil
}
