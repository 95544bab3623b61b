package runtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcosfrias28/brymar-sub012/internal/runtime"
	"github.com/marcosfrias28/brymar-sub012/pkg/adapters/memory"
	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
	"github.com/marcosfrias28/brymar-sub012/pkg/draft"
)

func autosaveConfig(interval time.Duration) *domain.Config {
	config := propertyConfig()
	config.AutoSave = true
	config.AutoSaveInterval = interval
	return config
}

func TestAutosave_PersistsDirtySessions(t *testing.T) {
	server := memory.NewStore()
	store := draft.NewTiered(server, memory.NewCache())
	e, err := runtime.NewEngine(autosaveConfig(20*time.Millisecond), store, runtime.WithUserID("user-1"))
	require.NoError(t, err)
	defer e.Close()
	ctx := context.Background()

	e.UpdateData(map[string]any{"title": "Ocean Villa"})

	require.Eventually(t, func() bool {
		ids, err := server.List(ctx, domain.KindProperty, "user-1")
		return err == nil && len(ids) == 1
	}, time.Second, 10*time.Millisecond)

	state := e.State()
	require.NotEmpty(t, state.DraftID)
	stored, err := server.Load(ctx, state.DraftID)
	require.NoError(t, err)
	assert.Equal(t, "Ocean Villa", stored.FormData["title"])
	assert.Equal(t, "general", stored.CurrentStepID)

	require.Eventually(t, func() bool {
		return !e.State().Dirty
	}, time.Second, 10*time.Millisecond)
}

func TestAutosave_IdleSessionDoesNotSave(t *testing.T) {
	server := memory.NewStore()
	store := draft.NewTiered(server, memory.NewCache())
	e, err := runtime.NewEngine(autosaveConfig(10*time.Millisecond), store, runtime.WithUserID("user-1"))
	require.NoError(t, err)
	defer e.Close()

	// No edits, several ticks pass, nothing is written.
	time.Sleep(60 * time.Millisecond)
	ids, err := server.List(context.Background(), domain.KindProperty, "user-1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestAutosave_RetriesAfterFailure(t *testing.T) {
	flaky := &flakyStore{inner: memory.NewStore(), failures: 3}
	store := draft.NewTiered(flaky, nil)
	e, err := runtime.NewEngine(autosaveConfig(15*time.Millisecond), store, runtime.WithUserID("user-1"))
	require.NoError(t, err)
	defer e.Close()
	ctx := context.Background()

	e.UpdateData(map[string]any{"title": "Ocean Villa"})

	// The first ticks hit the dead server; the flag stays set so a later
	// tick lands the save.
	require.Eventually(t, func() bool {
		ids, err := flaky.inner.List(ctx, domain.KindProperty, "user-1")
		return err == nil && len(ids) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.False(t, e.State().Dirty)
}

func TestAutosave_StopsOnCancel(t *testing.T) {
	server := memory.NewStore()
	store := draft.NewTiered(server, memory.NewCache())
	e, err := runtime.NewEngine(autosaveConfig(10*time.Millisecond), store, runtime.WithUserID("user-1"))
	require.NoError(t, err)

	e.UpdateData(map[string]any{"title": "Ocean Villa"})
	e.Cancel()

	// Let any tick that was already in flight drain, then confirm no
	// further saves fire.
	time.Sleep(30 * time.Millisecond)
	ids, _ := server.List(context.Background(), domain.KindProperty, "user-1")
	before := len(ids)
	time.Sleep(50 * time.Millisecond)
	ids, _ = server.List(context.Background(), domain.KindProperty, "user-1")
	assert.Equal(t, before, len(ids))
}

func TestAutosave_SnapshotCapturesStepAtSaveTime(t *testing.T) {
	// Mirrors the race this design exists for: the save payload is built
	// when the save is triggered, so navigation that happens while the
	// write is in flight never leaks into it.
	server := memory.NewStore()
	store := draft.NewTiered(server, memory.NewCache())
	config := propertyConfig()
	e, err := runtime.NewEngine(config, store, runtime.WithUserID("user-1"))
	require.NoError(t, err)
	defer e.Close()
	ctx := context.Background()

	e.UpdateData(map[string]any{"title": "Ocean Villa", "city": "Punta Cana"})
	advanced, _, err := e.NextStep(ctx)
	require.NoError(t, err)
	require.True(t, advanced)

	// Navigate immediately after; the in-flight save must still record the
	// post-advance position, not this one.
	require.True(t, e.PreviousStep())

	require.Eventually(t, func() bool {
		ids, err := server.List(ctx, domain.KindProperty, "user-1")
		return err == nil && len(ids) == 1
	}, time.Second, 10*time.Millisecond)

	stored, err := server.Load(ctx, e.State().DraftID)
	require.NoError(t, err)
	assert.Equal(t, "location", stored.CurrentStepID)
	assert.Equal(t, "Ocean Villa", stored.FormData["title"])
}
