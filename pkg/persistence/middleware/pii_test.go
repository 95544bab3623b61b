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

func TestPII_MasksMatchingKeys(t *testing.T) {
	inner := memory.NewStore()
	store := middleware.NewPIIMiddleware([]string{`(?i)phone`, `(?i)email`})(inner)
	ctx := context.Background()

	draft := &domain.Draft{
		DraftID: "blog-1-abc",
		UserID:  "author-1",
		Kind:    domain.KindBlog,
		FormData: map[string]any{
			"title":         "Hello",
			"contact_email": "author@example.com",
			"author": map[string]any{
				"name":  "A. Writer",
				"Phone": "+1-809-555-0101",
			},
		},
		CurrentStepID: "content",
		SavedAt:       time.Now().UnixMilli(),
	}
	require.NoError(t, store.Save(ctx, draft))

	stored, err := inner.Load(ctx, "blog-1-abc")
	require.NoError(t, err)
	assert.Equal(t, "Hello", stored.FormData["title"])
	assert.Equal(t, "***", stored.FormData["contact_email"])

	author, ok := stored.FormData["author"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "A. Writer", author["name"])
	assert.Equal(t, "***", author["Phone"], "nested keys are masked too")
}

func TestPII_CallerDraftUntouched(t *testing.T) {
	inner := memory.NewStore()
	store := middleware.NewPIIMiddleware([]string{`email`})(inner)
	ctx := context.Background()

	draft := &domain.Draft{
		DraftID:       "blog-1-abc",
		UserID:        "author-1",
		Kind:          domain.KindBlog,
		FormData:      map[string]any{"email": "author@example.com"},
		CurrentStepID: "content",
		SavedAt:       time.Now().UnixMilli(),
	}
	require.NoError(t, store.Save(ctx, draft))

	// The engine keeps editing its own copy; masking must not leak back.
	assert.Equal(t, "author@example.com", draft.FormData["email"])
}

func TestPII_NoPatternsIsPassThrough(t *testing.T) {
	inner := memory.NewStore()
	store := middleware.NewPIIMiddleware(nil)(inner)
	ctx := context.Background()

	draft := &domain.Draft{
		DraftID:       "blog-1-abc",
		UserID:        "author-1",
		Kind:          domain.KindBlog,
		FormData:      map[string]any{"email": "author@example.com"},
		CurrentStepID: "content",
		SavedAt:       time.Now().UnixMilli(),
	}
	require.NoError(t, store.Save(ctx, draft))

	stored, err := store.Load(ctx, "blog-1-abc")
	require.NoError(t, err)
	assert.Equal(t, "author@example.com", stored.FormData["email"])
}
