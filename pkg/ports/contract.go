package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
)

// RunDraftStoreContract runs a suite of tests to verify that a DraftStore
// implementation adheres to the interface contract. Every adapter test
// calls this in addition to its own backend-specific cases.
func RunDraftStoreContract(t *testing.T, store DraftStore) {
	ctx := context.Background()
	now := time.Now()
	draftID := "contract-draft-" + now.Format("20060102150405.000")

	newDraft := func(id string, data map[string]any) *domain.Draft {
		return &domain.Draft{
			DraftID:       id,
			UserID:        "user-1",
			Kind:          domain.KindProperty,
			FormData:      data,
			CurrentStepID: "general",
			SavedAt:       time.Now().UnixMilli(),
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		draft := newDraft(draftID, map[string]any{"title": "Sea view flat", "price": 250000.0})

		err := store.Save(ctx, draft)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, draftID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, draft.DraftID, loaded.DraftID)
		assert.Equal(t, draft.CurrentStepID, loaded.CurrentStepID)
		assert.Equal(t, "Sea view flat", loaded.FormData["title"])
	})

	t.Run("Overwrite wins", func(t *testing.T) {
		id := draftID + "-ow"
		require.NoError(t, store.Save(ctx, newDraft(id, map[string]any{"title": "A", "price": 1.0})))
		require.NoError(t, store.Save(ctx, newDraft(id, map[string]any{"title": "B"})))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "B", loaded.FormData["title"])
		// No merge: fields absent from the second payload must be gone.
		assert.NotContains(t, loaded.FormData, "price")

		_ = store.Delete(ctx, id)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+draftID)
		assert.ErrorIs(t, err, domain.ErrDraftNotFound)
	})

	t.Run("Expired draft is a miss", func(t *testing.T) {
		id := draftID + "-exp"
		stale := newDraft(id, map[string]any{"title": "old"})
		stale.SavedAt = time.Now().Add(-25 * time.Hour).UnixMilli()
		require.NoError(t, store.Save(ctx, stale))

		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrDraftNotFound, "expired draft should load as a miss")

		// Purged as a side effect: the ID no longer lists.
		ids, err := store.List(ctx, domain.KindProperty, "user-1")
		require.NoError(t, err)
		assert.NotContains(t, ids, id)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, newDraft(draftID, map[string]any{"title": "x"})))

		err := store.Delete(ctx, draftID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, draftID)
		assert.ErrorIs(t, err, domain.ErrDraftNotFound, "Load after Delete should return ErrDraftNotFound")

		// Idempotent
		assert.NoError(t, store.Delete(ctx, draftID))
	})

	t.Run("List", func(t *testing.T) {
		id1 := draftID + "-1"
		id2 := draftID + "-2"
		_ = store.Save(ctx, newDraft(id1, nil))
		_ = store.Save(ctx, newDraft(id2, nil))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx, domain.KindProperty, "user-1")
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)

		// Other users and kinds are namespaced away.
		other, err := store.List(ctx, domain.KindBlog, "user-1")
		require.NoError(t, err)
		assert.NotContains(t, other, id1)
	})
}
