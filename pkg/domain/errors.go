package domain

import "errors"

// ErrDraftNotFound is returned when a draft ID cannot be found in any storage tier.
var ErrDraftNotFound = errors.New("draft not found")

// ErrDraftExpired is returned when a draft exists but its SavedAt is older than the TTL.
// Stores purge the entry before returning this; callers usually treat it as a miss.
var ErrDraftExpired = errors.New("draft expired")

// ErrUnknownDraftKind is returned when a wizard kind is not in the closed set.
var ErrUnknownDraftKind = errors.New("unknown draft type")

// ErrEngineClosed is returned by engine operations after Close or Cancel.
var ErrEngineClosed = errors.New("wizard engine closed")

// ErrNoSuchStep is returned when a step ID does not exist in the configuration.
var ErrNoSuchStep = errors.New("no such step")

// ErrSkipNotAllowed is returned by GoToStep when intervening steps are not
// valid and the configuration does not allow skipping.
var ErrSkipNotAllowed = errors.New("cannot skip steps")
