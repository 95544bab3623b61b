package ports

import (
	"context"

	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
)

// DraftStore is the durable server-side tier for wizard drafts.
// Implementations exist per wizard kind and are resolved through the
// closed dispatch in pkg/draft.
type DraftStore interface {
	// Save persists the draft, overwriting any previous payload for the
	// same DraftID. Last write wins; there is no merge.
	Save(ctx context.Context, draft *domain.Draft) error

	// Load retrieves a draft. Returns domain.ErrDraftNotFound if the ID
	// does not exist or the entry has expired (expired entries are purged
	// as a side effect).
	Load(ctx context.Context, draftID string) (*domain.Draft, error)

	// Delete removes the draft. Deleting a missing draft is not an error.
	Delete(ctx context.Context, draftID string) error

	// List returns the IDs of live drafts for a user and kind, purging
	// expired entries as a side effect.
	List(ctx context.Context, kind domain.Kind, userID string) ([]string, error)
}

// OnComplete is the completion collaborator: invoked once, only after
// strict full-document validation passes. The engine awaits it before
// deleting the draft; an error leaves the draft intact.
type OnComplete func(ctx context.Context, doc domain.Document) error
