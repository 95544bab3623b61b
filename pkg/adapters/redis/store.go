package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
)

// Store implements ports.DraftStore using Redis. Drafts are stored as JSON
// values with a TTL matching domain.DraftTTL, plus a per-(kind,user) ZSET
// index scored by expiry time so List can prune lazily.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Store)

// WithTTL overrides the draft expiration (default domain.DraftTTL).
// Mostly useful in tests.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for drafts.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithClock injects a time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "wizard:draft:",
		ttl:    domain.DraftTTL,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(draftID string) string {
	return s.prefix + draftID
}

func (s *Store) indexKey(kind domain.Kind, userID string) string {
	return fmt.Sprintf("%sindex:%s:%s", s.prefix, kind, userID)
}

// Save persists the draft, overwriting any previous payload.
func (s *Store) Save(ctx context.Context, draft *domain.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	// Expiry is anchored to SavedAt, not to the moment of the write, so a
	// re-saved stale payload does not get a fresh lease on life.
	expiry := time.UnixMilli(draft.SavedAt).Add(s.ttl)
	remaining := expiry.Sub(s.now())
	if remaining <= 0 {
		remaining = time.Millisecond
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(draft.DraftID), data, remaining)
	pipe.ZAdd(ctx, s.indexKey(draft.Kind, draft.UserID), backend.Z{
		Score:  float64(expiry.Unix()),
		Member: draft.DraftID,
	})

	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save draft to redis: %w", err)
	}

	return nil
}

// Load retrieves a draft. Expired entries are deleted and reported as a miss.
func (s *Store) Load(ctx context.Context, draftID string) (*domain.Draft, error) {
	val, err := s.client.Get(ctx, s.key(draftID)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to get draft from redis: %w", err)
	}

	var draft domain.Draft
	if err := json.Unmarshal([]byte(val), &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}

	if draft.Expired(s.now()) {
		// Lazy purge; the redis TTL normally beats us here, but a custom
		// clock or clock skew can leave the key behind.
		_ = s.Delete(ctx, draftID)
		return nil, domain.ErrDraftNotFound
	}

	return &draft, nil
}

// Delete removes the draft and its index entry.
func (s *Store) Delete(ctx context.Context, draftID string) error {
	// The index key depends on kind/user, which only the payload knows.
	val, err := s.client.Get(ctx, s.key(draftID)).Result()
	if err == backend.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get draft for delete: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(draftID))

	var draft domain.Draft
	if jsonErr := json.Unmarshal([]byte(val), &draft); jsonErr == nil {
		pipe.ZRem(ctx, s.indexKey(draft.Kind, draft.UserID), draftID)
	}

	_, err = pipe.Exec(ctx)
	return err
}

// List returns live draft IDs for a user and kind, pruning expired index
// entries as a side effect.
func (s *Store) List(ctx context.Context, kind domain.Kind, userID string) ([]string, error) {
	idx := s.indexKey(kind, userID)
	now := float64(s.now().Unix())

	// ZREMRANGEBYSCORE idx -inf now
	err := s.client.ZRemRangeByScore(ctx, idx, "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired drafts: %w", err)
	}

	ids, err := s.client.ZRange(ctx, idx, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}

	return ids, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
