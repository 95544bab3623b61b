package draft

import (
	"fmt"

	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
	"github.com/marcosfrias28/brymar-sub012/pkg/ports"
)

// Managers is the closed dispatch from wizard kind to the server-tier
// store for that kind. Unknown kinds fail with a typed error instead of
// falling through to duck-typed property access.
type Managers struct {
	stores map[domain.Kind]ports.DraftStore
}

// NewManagers creates an empty registry.
func NewManagers() *Managers {
	return &Managers{stores: make(map[domain.Kind]ports.DraftStore)}
}

// Register binds a store to a kind. Registering an unknown kind is a
// programming error and returns ErrUnknownDraftKind.
func (m *Managers) Register(kind domain.Kind, store ports.DraftStore) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownDraftKind, kind)
	}
	m.stores[kind] = store
	return nil
}

// Get resolves the store for a kind.
func (m *Managers) Get(kind domain.Kind) (ports.DraftStore, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownDraftKind, kind)
	}
	store, ok := m.stores[kind]
	if !ok {
		return nil, fmt.Errorf("%w: no store registered for %q", domain.ErrUnknownDraftKind, kind)
	}
	return store, nil
}
