// Package domain contains the core data model for the wizard engine:
// wizard kinds, step configuration, the accumulating document, runtime
// session state, the persisted draft record and analytics events.
//
// The package is intentionally free of third-party dependencies. Behavior
// lives in the engine (internal/runtime) and the adapters; this package
// only defines the shapes they exchange.
package domain
