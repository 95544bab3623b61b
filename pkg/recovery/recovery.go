// Package recovery classifies wizard failures and decides which recovery
// actions a UI may offer for each: retry, skip, jump to a step, force a
// draft save, or reset.
package recovery

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
)

// Strategy enumerates the recovery actions consistent with a failure.
// Only actions compatible with the error type and its recoverability are
// enabled; everything else stays false.
type Strategy struct {
	// Retry re-runs the failed operation (after user edits, for validation).
	Retry bool
	// Skip moves past the failing step. Only offered when the step is
	// marked optional in the configuration.
	Skip bool
	// GoToStep allows jumping to another step to fix the problem there.
	GoToStep bool
	// SaveDraft attempts a client-tier fallback save of current work.
	SaveDraft bool
	// Reset discards unsaved changes; the last-resort action.
	Reset bool
}

// Classify wraps an arbitrary error into a WizardError with a taxonomy
// type. Already-classified errors pass through unchanged.
func Classify(err error) *domain.WizardError {
	if err == nil {
		return nil
	}

	var werr *domain.WizardError
	if errors.As(err, &werr) {
		return werr
	}

	classified := &domain.WizardError{
		Message:     err.Error(),
		Recoverable: true,
		Timestamp:   time.Now(),
		Cause:       err,
	}

	switch {
	case isNetworkError(err):
		classified.Type = domain.ErrorNetwork
	case isPermissionError(err):
		classified.Type = domain.ErrorPermission
		classified.Recoverable = false
	default:
		classified.Type = domain.ErrorStorage
	}
	return classified
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "network") ||
		strings.Contains(msg, "timeout")
}

func isPermissionError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "forbidden") ||
		strings.Contains(msg, "permission")
}

// StrategyFor returns the actions allowed for a failure. The step, when
// known, decides whether Skip is available for validation errors.
func StrategyFor(werr *domain.WizardError, step *domain.Step) Strategy {
	if werr == nil {
		return Strategy{}
	}

	switch werr.Type {
	case domain.ErrorValidation:
		s := Strategy{Retry: true}
		if step != nil && step.Optional {
			s.Skip = true
		}
		return s

	case domain.ErrorNetwork, domain.ErrorStorage:
		// Autosave-path failures: retry, force a fallback save, or give up
		// and reset. Reset is always available as a last resort here.
		return Strategy{Retry: true, SaveDraft: true, Reset: true}

	case domain.ErrorPermission:
		// Non-recoverable by default: no silent retry, the error is only
		// surfaced upward.
		return Strategy{}

	default:
		return Strategy{Retry: werr.Recoverable}
	}
}
