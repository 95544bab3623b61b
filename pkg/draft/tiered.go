package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/marcosfrias28/brymar-sub012/internal/logging"
	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
	"github.com/marcosfrias28/brymar-sub012/pkg/ports"
)

// DefaultServerTimeout bounds each server-tier call before the operation
// degrades to the cache tier. Availability over durability for drafts.
const DefaultServerTimeout = 5 * time.Second

// TieredStore coordinates the two draft storage tiers. Saves try the
// server tier first and degrade to the local cache; reads fall through the
// same order. Both tiers purge expired entries lazily, and malformed cache
// entries are removed and treated as absent rather than surfaced.
//
// Saving a draft must never crash the form: an error is returned only when
// both tiers fail, and the SaveOutcome always names the tier that took the
// write so callers and telemetry can observe degraded saves.
type TieredStore struct {
	server  ports.DraftStore
	cache   ports.CacheStore
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures the TieredStore.
type Option func(*TieredStore)

// WithServerTimeout overrides DefaultServerTimeout.
func WithServerTimeout(d time.Duration) Option {
	return func(t *TieredStore) { t.timeout = d }
}

// WithLogger configures a logger for degraded-path events.
func WithLogger(logger *slog.Logger) Option {
	return func(t *TieredStore) { t.logger = logger }
}

// WithClock injects a time source.
func WithClock(now func() time.Time) Option {
	return func(t *TieredStore) { t.now = now }
}

// NewTiered creates a tiered store. Either tier may be nil: a nil server
// tier makes every save a cache save; a nil cache tier (non-browser
// environment without local storage) leaves only the server tier. Both nil
// is allowed and simply fails every operation gracefully.
func NewTiered(server ports.DraftStore, cache ports.CacheStore, opts ...Option) *TieredStore {
	t := &TieredStore{
		server:  server,
		cache:   cache,
		timeout: DefaultServerTimeout,
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func cacheKey(kind domain.Kind, userID, draftID string) string {
	return fmt.Sprintf("%s:%s:%s", kind, userID, draftID)
}

// Save persists the draft, preferring the server tier. The returned
// outcome names the tier that ultimately took the write; the error is
// non-nil only when both tiers failed.
func (t *TieredStore) Save(ctx context.Context, draft *domain.Draft) (domain.SaveOutcome, error) {
	outcome := domain.SaveOutcome{DraftID: draft.DraftID, Location: domain.LocationNone}

	var serverErr error
	if t.server != nil {
		callCtx, cancel := context.WithTimeout(ctx, t.timeout)
		serverErr = t.server.Save(callCtx, draft)
		cancel()
		if serverErr == nil {
			outcome.Location = domain.LocationServer
			return outcome, nil
		}
		t.logger.Warn("server-tier draft save failed, degrading to cache",
			"draft_id", draft.DraftID, "err", serverErr)
	}

	cacheErr := t.saveToCache(draft)
	if cacheErr == nil && t.cache != nil {
		outcome.Location = domain.LocationCache
		return outcome, nil
	}

	if cacheErr != nil {
		t.logger.Warn("cache-tier draft save failed", "draft_id", draft.DraftID, "err", cacheErr)
	}
	return outcome, errors.Join(serverErr, cacheErr, errors.New("draft save failed on all tiers"))
}

func (t *TieredStore) saveToCache(draft *domain.Draft) error {
	if t.cache == nil {
		return errors.New("no cache tier configured")
	}
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	return t.cache.SetItem(cacheKey(draft.Kind, draft.UserID, draft.DraftID), data)
}

// Load retrieves a draft, trying the server tier first. Expired or
// malformed entries are purged and reported as domain.ErrDraftNotFound.
func (t *TieredStore) Load(ctx context.Context, kind domain.Kind, userID, draftID string) (*domain.Draft, error) {
	if t.server != nil {
		callCtx, cancel := context.WithTimeout(ctx, t.timeout)
		draft, err := t.server.Load(callCtx, draftID)
		cancel()
		if err == nil {
			return draft, nil
		}
		if !errors.Is(err, domain.ErrDraftNotFound) {
			t.logger.Warn("server-tier draft load failed, trying cache",
				"draft_id", draftID, "err", err)
		}
	}

	return t.loadFromCache(kind, userID, draftID)
}

func (t *TieredStore) loadFromCache(kind domain.Kind, userID, draftID string) (*domain.Draft, error) {
	if t.cache == nil {
		return nil, domain.ErrDraftNotFound
	}
	key := cacheKey(kind, userID, draftID)

	data, ok, err := t.cache.GetItem(key)
	if err != nil || !ok {
		return nil, domain.ErrDraftNotFound
	}

	var draft domain.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		// Malformed entry: purge, treat as absent.
		_ = t.cache.RemoveItem(key)
		return nil, domain.ErrDraftNotFound
	}

	if draft.Expired(t.now()) {
		_ = t.cache.RemoveItem(key)
		return nil, domain.ErrDraftNotFound
	}

	return &draft, nil
}

// Delete removes the draft from both tiers, best-effort.
func (t *TieredStore) Delete(ctx context.Context, kind domain.Kind, userID, draftID string) error {
	var serverErr error
	if t.server != nil {
		callCtx, cancel := context.WithTimeout(ctx, t.timeout)
		serverErr = t.server.Delete(callCtx, draftID)
		cancel()
	}
	if t.cache != nil {
		if err := t.cache.RemoveItem(cacheKey(kind, userID, draftID)); err != nil {
			t.logger.Warn("cache-tier draft delete failed", "draft_id", draftID, "err", err)
		}
	}
	return serverErr
}

// HasDraft reports whether a loadable (live, well-formed) draft exists.
func (t *TieredStore) HasDraft(ctx context.Context, kind domain.Kind, userID, draftID string) bool {
	_, err := t.Load(ctx, kind, userID, draftID)
	return err == nil
}

// ListDrafts returns the IDs of live drafts for a user across both tiers,
// purging expired and malformed cache entries as a side effect.
func (t *TieredStore) ListDrafts(ctx context.Context, kind domain.Kind, userID string) ([]string, error) {
	seen := make(map[string]bool)
	var ids []string

	if t.server != nil {
		callCtx, cancel := context.WithTimeout(ctx, t.timeout)
		serverIDs, err := t.server.List(callCtx, kind, userID)
		cancel()
		if err != nil {
			t.logger.Warn("server-tier draft list failed", "err", err)
		} else {
			for _, id := range serverIDs {
				if !seen[id] {
					seen[id] = true
					ids = append(ids, id)
				}
			}
		}
	}

	for _, id := range t.cacheDraftIDs(kind, userID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	return ids, nil
}

// cacheDraftIDs walks the cache namespace for (kind, user), dropping
// anything expired or unreadable along the way.
func (t *TieredStore) cacheDraftIDs(kind domain.Kind, userID string) []string {
	if t.cache == nil {
		return nil
	}
	prefix := fmt.Sprintf("%s:%s:", kind, userID)
	keys, err := t.cache.Keys(prefix)
	if err != nil {
		t.logger.Warn("cache-tier key enumeration failed", "err", err)
		return nil
	}

	var ids []string
	for _, key := range keys {
		data, ok, err := t.cache.GetItem(key)
		if err != nil || !ok {
			continue
		}
		var draft domain.Draft
		if err := json.Unmarshal(data, &draft); err != nil {
			_ = t.cache.RemoveItem(key)
			continue
		}
		if draft.Expired(t.now()) {
			_ = t.cache.RemoveItem(key)
			continue
		}
		ids = append(ids, draft.DraftID)
	}
	return ids
}

// ClearExpired sweeps the cache namespace for a user and removes expired
// or malformed entries, returning how many were purged.
func (t *TieredStore) ClearExpired(ctx context.Context, kind domain.Kind, userID string) int {
	if t.cache == nil {
		return 0
	}
	prefix := fmt.Sprintf("%s:%s:", kind, userID)
	keys, err := t.cache.Keys(prefix)
	if err != nil {
		return 0
	}

	purged := 0
	for _, key := range keys {
		data, ok, err := t.cache.GetItem(key)
		if err != nil || !ok {
			continue
		}
		var draft domain.Draft
		if err := json.Unmarshal(data, &draft); err != nil {
			_ = t.cache.RemoveItem(key)
			purged++
			continue
		}
		if draft.Expired(t.now()) {
			_ = t.cache.RemoveItem(key)
			purged++
		}
	}
	return purged
}
