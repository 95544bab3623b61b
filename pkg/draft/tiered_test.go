package draft_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcosfrias28/brymar-sub012/pkg/adapters/memory"
	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
	"github.com/marcosfrias28/brymar-sub012/pkg/draft"
	"github.com/marcosfrias28/brymar-sub012/pkg/ports"
)

// failingStore simulates a dead server tier.
type failingStore struct{}

func (failingStore) Save(context.Context, *domain.Draft) error { return errors.New("connection refused") }
func (failingStore) Load(context.Context, string) (*domain.Draft, error) {
	return nil, errors.New("connection refused")
}
func (failingStore) Delete(context.Context, string) error { return errors.New("connection refused") }
func (failingStore) List(context.Context, domain.Kind, string) ([]string, error) {
	return nil, errors.New("connection refused")
}

// failingCache simulates a full or broken local store.
type failingCache struct{}

func (failingCache) GetItem(string) ([]byte, bool, error) { return nil, false, errors.New("quota") }
func (failingCache) SetItem(string, []byte) error         { return errors.New("quota exceeded") }
func (failingCache) RemoveItem(string) error              { return errors.New("quota") }
func (failingCache) Keys(string) ([]string, error)        { return nil, errors.New("quota") }

var _ ports.DraftStore = failingStore{}
var _ ports.CacheStore = failingCache{}

func testDraft(id string) *domain.Draft {
	return &domain.Draft{
		DraftID:       id,
		UserID:        "user-1",
		Kind:          domain.KindProperty,
		FormData:      map[string]any{"title": "Villa"},
		CurrentStepID: "general",
		SavedAt:       time.Now().UnixMilli(),
	}
}

func TestTiered_ServerPreferred(t *testing.T) {
	server := memory.NewStore()
	cache := memory.NewCache()
	ts := draft.NewTiered(server, cache)
	ctx := context.Background()

	outcome, err := ts.Save(ctx, testDraft("d1"))
	require.NoError(t, err)
	assert.Equal(t, domain.LocationServer, outcome.Location)
	assert.False(t, outcome.Degraded())

	loaded, err := ts.Load(ctx, domain.KindProperty, "user-1", "d1")
	require.NoError(t, err)
	assert.Equal(t, "Villa", loaded.FormData["title"])
}

func TestTiered_DegradesToCache(t *testing.T) {
	cache := memory.NewCache()
	ts := draft.NewTiered(failingStore{}, cache)
	ctx := context.Background()

	outcome, err := ts.Save(ctx, testDraft("d2"))
	require.NoError(t, err, "a degraded save is still a success")
	assert.Equal(t, domain.LocationCache, outcome.Location)
	assert.True(t, outcome.Degraded())

	// Load falls through the dead server tier to the cache.
	loaded, err := ts.Load(ctx, domain.KindProperty, "user-1", "d2")
	require.NoError(t, err)
	assert.Equal(t, "d2", loaded.DraftID)
}

func TestTiered_BothTiersFail(t *testing.T) {
	ts := draft.NewTiered(failingStore{}, failingCache{})

	outcome, err := ts.Save(context.Background(), testDraft("d3"))
	require.Error(t, err, "only a double failure surfaces an error")
	assert.Equal(t, domain.LocationNone, outcome.Location)
}

func TestTiered_CacheFailureDoesNotPanicWithLiveServer(t *testing.T) {
	// A throwing cache must never break a save that the server accepts.
	ts := draft.NewTiered(memory.NewStore(), failingCache{})

	outcome, err := ts.Save(context.Background(), testDraft("d4"))
	require.NoError(t, err)
	assert.Equal(t, domain.LocationServer, outcome.Location)
}

func TestTiered_NoCacheTierConfigured(t *testing.T) {
	// Non-browser environment without local storage: server tier only.
	ts := draft.NewTiered(memory.NewStore(), nil)
	ctx := context.Background()

	outcome, err := ts.Save(ctx, testDraft("d5"))
	require.NoError(t, err)
	assert.Equal(t, domain.LocationServer, outcome.Location)

	// And with everything absent, operations fail gracefully.
	bare := draft.NewTiered(nil, nil)
	_, err = bare.Save(ctx, testDraft("d6"))
	assert.Error(t, err)
	_, err = bare.Load(ctx, domain.KindProperty, "user-1", "d6")
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
}

func TestTiered_OverwriteIdempotent(t *testing.T) {
	ts := draft.NewTiered(memory.NewStore(), memory.NewCache())
	ctx := context.Background()

	a := testDraft("d7")
	a.FormData = map[string]any{"title": "A", "price": 100.0}
	b := testDraft("d7")
	b.FormData = map[string]any{"title": "B"}

	_, err := ts.Save(ctx, a)
	require.NoError(t, err)
	_, err = ts.Save(ctx, b)
	require.NoError(t, err)

	loaded, err := ts.Load(ctx, domain.KindProperty, "user-1", "d7")
	require.NoError(t, err)
	assert.Equal(t, "B", loaded.FormData["title"])
	assert.NotContains(t, loaded.FormData, "price", "saves overwrite, never merge")
}

func TestTiered_MalformedCacheEntryIsAMiss(t *testing.T) {
	cache := memory.NewCache()
	require.NoError(t, cache.SetItem("property:user-1:broken", []byte("{not json")))

	ts := draft.NewTiered(nil, cache)
	ctx := context.Background()

	_, err := ts.Load(ctx, domain.KindProperty, "user-1", "broken")
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)

	// Purged as a side effect.
	_, ok, _ := cache.GetItem("property:user-1:broken")
	assert.False(t, ok)
}

func TestTiered_ExpiredCacheEntryPurged(t *testing.T) {
	cache := memory.NewCache()
	ts := draft.NewTiered(nil, cache)
	ctx := context.Background()

	stale := testDraft("d8")
	stale.SavedAt = time.Now().Add(-25 * time.Hour).UnixMilli()
	_, err := ts.Save(ctx, stale)
	require.NoError(t, err)

	_, err = ts.Load(ctx, domain.KindProperty, "user-1", "d8")
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)

	_, ok, _ := cache.GetItem("property:user-1:d8")
	assert.False(t, ok, "expired entry should be removed from storage")
}

func TestTiered_ListAndClearExpired(t *testing.T) {
	cache := memory.NewCache()
	server := memory.NewStore()
	ts := draft.NewTiered(server, cache)
	ctx := context.Background()

	_, err := ts.Save(ctx, testDraft("live-1"))
	require.NoError(t, err)

	// Cache-only entries: one live, one expired, one garbage.
	cacheOnly := draft.NewTiered(failingStore{}, cache)
	_, err = cacheOnly.Save(ctx, testDraft("live-2"))
	require.NoError(t, err)

	stale := testDraft("stale-1")
	stale.SavedAt = time.Now().Add(-25 * time.Hour).UnixMilli()
	_, err = cacheOnly.Save(ctx, stale)
	require.NoError(t, err)
	require.NoError(t, cache.SetItem("property:user-1:junk", []byte("%%%")))

	ids, err := ts.ListDrafts(ctx, domain.KindProperty, "user-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"live-1", "live-2"}, ids)

	// The garbage entry was dropped during listing; a fresh sweep finds
	// nothing left to purge.
	assert.Equal(t, 0, ts.ClearExpired(ctx, domain.KindProperty, "user-1"))
}

func TestTiered_ServerTimeout(t *testing.T) {
	slow := &slowStore{delay: 200 * time.Millisecond, inner: memory.NewStore()}
	cache := memory.NewCache()
	ts := draft.NewTiered(slow, cache, draft.WithServerTimeout(20*time.Millisecond))

	outcome, err := ts.Save(context.Background(), testDraft("d9"))
	require.NoError(t, err)
	assert.Equal(t, domain.LocationCache, outcome.Location,
		"a server save slower than the timeout degrades to cache")
}

// slowStore delays every call long enough to trip the tier timeout.
type slowStore struct {
	delay time.Duration
	inner *memory.Store
}

func (s *slowStore) wait(ctx context.Context) error {
	select {
	case <-time.After(s.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *slowStore) Save(ctx context.Context, d *domain.Draft) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	return s.inner.Save(ctx, d)
}

func (s *slowStore) Load(ctx context.Context, id string) (*domain.Draft, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.inner.Load(ctx, id)
}

func (s *slowStore) Delete(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	return s.inner.Delete(ctx, id)
}

func (s *slowStore) List(ctx context.Context, kind domain.Kind, userID string) ([]string, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.inner.List(ctx, kind, userID)
}
