package middleware_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcosfrias28/brymar-sub012/pkg/adapters/memory"
	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
	"github.com/marcosfrias28/brymar-sub012/pkg/persistence/middleware"
)

func key(b byte) []byte {
	k := make([]byte, 32)
	for i := range k {
		k[i] = b
	}
	return k
}

func secretDraft() *domain.Draft {
	return &domain.Draft{
		DraftID:       "property-1-abc",
		UserID:        "user-1",
		Kind:          domain.KindProperty,
		FormData:      map[string]any{"title": "Ocean Villa", "owner_phone": "+1-809-555-0101"},
		CurrentStepID: "general",
		StepProgress:  map[string]bool{"general": true},
		SavedAt:       time.Now().UnixMilli(),
	}
}

func TestEncryption_RoundTrip(t *testing.T) {
	inner := memory.NewStore()
	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: key(0x01),
	})(inner)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, secretDraft()))

	loaded, err := store.Load(ctx, "property-1-abc")
	require.NoError(t, err)
	assert.Equal(t, "Ocean Villa", loaded.FormData["title"])
	assert.Equal(t, "general", loaded.CurrentStepID)
	assert.True(t, loaded.StepProgress["general"])
}

func TestEncryption_StoredEnvelopeIsOpaque(t *testing.T) {
	inner := memory.NewStore()
	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: key(0x01),
	})(inner)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, secretDraft()))

	// Read past the middleware: the underlying store must hold no
	// plaintext form data.
	raw, err := inner.Load(ctx, "property-1-abc")
	require.NoError(t, err)
	assert.NotContains(t, raw.FormData, "title")
	assert.NotContains(t, raw.FormData, "owner_phone")
	assert.Contains(t, raw.FormData, "__encrypted__")
	assert.Empty(t, raw.CurrentStepID)

	// Routing metadata stays readable for indexing and TTL.
	assert.Equal(t, domain.KindProperty, raw.Kind)
	assert.Equal(t, "user-1", raw.UserID)
	assert.NotZero(t, raw.SavedAt)
}

func TestEncryption_KeyRotation(t *testing.T) {
	inner := memory.NewStore()
	oldKey, newKey := key(0x01), key(0x02)
	ctx := context.Background()

	writer := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: oldKey,
	})(inner)
	require.NoError(t, writer.Save(ctx, secretDraft()))

	// A rotated config with the old key as fallback still reads the
	// existing ciphertext.
	reader := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(inner)
	loaded, err := reader.Load(ctx, "property-1-abc")
	require.NoError(t, err)
	assert.Equal(t, "Ocean Villa", loaded.FormData["title"])

	// Without the fallback the data is unreadable.
	strict := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: newKey,
	})(inner)
	_, err = strict.Load(ctx, "property-1-abc")
	assert.Error(t, err)
}

func TestEncryption_RejectsPlainDraft(t *testing.T) {
	inner := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, inner.Save(ctx, secretDraft()))

	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: key(0x01),
	})(inner)
	_, err := store.Load(ctx, "property-1-abc")
	assert.Error(t, err, "plain drafts fail secure when encryption is on")
}

func TestEncryption_BadKeyLengthPanics(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	})
}

func TestChain_EncryptionAfterMasking(t *testing.T) {
	inner := memory.NewStore()
	store := middleware.Chain(inner,
		middleware.NewPIIMiddleware([]string{`(?i)phone`}),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key(0x01)}),
	)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, secretDraft()))

	loaded, err := store.Load(ctx, "property-1-abc")
	require.NoError(t, err)
	assert.Equal(t, "***", loaded.FormData["owner_phone"], "masked before encryption")
	assert.Equal(t, "Ocean Villa", loaded.FormData["title"])
}
