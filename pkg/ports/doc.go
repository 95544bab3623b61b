// Package ports defines the interfaces between the wizard engine and the
// outside world: draft persistence (server tier and local cache tier),
// the analytics sink, and the completion collaborator.
//
// Adapters live under pkg/adapters; the engine only sees these contracts.
package ports
