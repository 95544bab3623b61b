package domain

import "time"

// ErrorType is the failure taxonomy surfaced to the recovery coordinator.
type ErrorType string

const (
	// ErrorValidation is user-fixable and field-scoped.
	ErrorValidation ErrorType = "validation"
	// ErrorNetwork is transient and retry-worthy.
	ErrorNetwork ErrorType = "network"
	// ErrorStorage covers quota and serialization failures; degrade-worthy.
	ErrorStorage ErrorType = "storage"
	// ErrorPermission is authorization failure, terminal for the action.
	ErrorPermission ErrorType = "permission"
)

// WizardError is a classified failure with enough context for the
// recovery coordinator to decide which actions to offer.
type WizardError struct {
	Type        ErrorType `json:"type"`
	Message     string    `json:"message"`
	Field       string    `json:"field,omitempty"`
	StepID      string    `json:"step,omitempty"`
	Recoverable bool      `json:"recoverable"`
	Timestamp   time.Time `json:"timestamp"`

	// Cause preserves the underlying error for wrapping.
	Cause error `json:"-"`
}

func (e *WizardError) Error() string {
	if e.Message != "" {
		return string(e.Type) + ": " + e.Message
	}
	return string(e.Type) + " error"
}

func (e *WizardError) Unwrap() error { return e.Cause }
