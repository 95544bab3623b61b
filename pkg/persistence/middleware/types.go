// Package middleware provides composable wrappers for draft stores:
// encryption at rest and PII masking for form data.
package middleware

import "github.com/marcosfrias28/brymar-sub012/pkg/ports"

// Middleware allows wrapping a DraftStore to add behavior.
type Middleware func(ports.DraftStore) ports.DraftStore

// Chain applies middlewares in order: the first one listed sees the
// caller's draft first.
func Chain(store ports.DraftStore, mws ...Middleware) ports.DraftStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
