package memory

import (
	"context"
	"sync"
	"time"

	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
)

// Store implements ports.DraftStore in memory. Safe for concurrent use.
// Useful for tests and for running the wizard without a server tier.
type Store struct {
	data map[string]*domain.Draft
	mu   sync.RWMutex
	now  func() time.Time
}

// Option configures the Store.
type Option func(*Store)

// WithClock injects a time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a new in-memory draft store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		data: make(map[string]*domain.Draft),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save persists the draft in memory, overwriting any previous payload.
func (s *Store) Save(ctx context.Context, draft *domain.Draft) error {
	copied := cloneDraft(draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[draft.DraftID] = copied
	return nil
}

// Load retrieves a draft. Expired entries are purged and treated as a miss.
func (s *Store) Load(ctx context.Context, draftID string) (*domain.Draft, error) {
	s.mu.RLock()
	draft, ok := s.data[draftID]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrDraftNotFound
	}

	if draft.Expired(s.now()) {
		s.mu.Lock()
		delete(s.data, draftID)
		s.mu.Unlock()
		return nil, domain.ErrDraftNotFound
	}

	// Copy on read so the caller can't mutate store state via the pointer.
	return cloneDraft(draft), nil
}

// Delete removes the draft.
func (s *Store) Delete(ctx context.Context, draftID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, draftID)
	return nil
}

// List returns live draft IDs for a user and kind, purging expired entries.
func (s *Store) List(ctx context.Context, kind domain.Kind, userID string) ([]string, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for id, draft := range s.data {
		if draft.Kind != kind || draft.UserID != userID {
			continue
		}
		if draft.Expired(now) {
			delete(s.data, id)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func cloneDraft(d *domain.Draft) *domain.Draft {
	next := *d
	next.FormData = make(map[string]any, len(d.FormData))
	for k, v := range d.FormData {
		next.FormData[k] = v
	}
	next.StepProgress = make(map[string]bool, len(d.StepProgress))
	for k, v := range d.StepProgress {
		next.StepProgress[k] = v
	}
	return &next
}
