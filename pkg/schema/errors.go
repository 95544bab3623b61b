package schema

import (
	"fmt"
	"strings"
)

// Violation identifies the kind of constraint a field value broke.
type Violation string

const (
	ViolationTypeMismatch    Violation = "type-mismatch"
	ViolationRangeViolation  Violation = "range-violation"
	ViolationRequiredMissing Violation = "required-missing"
	ViolationEnumInvalid     Violation = "enum-invalid"
	ViolationPatternMismatch Violation = "pattern-mismatch"
)

// FieldError is a single field validation failure.
type FieldError struct {
	Field      string    // Field name
	Kind       Violation // What kind of constraint failed
	Constraint string    // The constraint value, rendered (e.g. "0..2000000")
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, Message(e.Field, e.Kind, e.Constraint))
}

// Message renders the human-readable message for a violation. It is a pure
// function of its inputs so renderings are deterministic and testable.
func Message(field string, kind Violation, constraint string) string {
	switch kind {
	case ViolationRequiredMissing:
		return fmt.Sprintf("%s is required", field)
	case ViolationTypeMismatch:
		return fmt.Sprintf("%s must be of type %s", field, constraint)
	case ViolationRangeViolation:
		return fmt.Sprintf("%s must be within %s", field, constraint)
	case ViolationEnumInvalid:
		return fmt.Sprintf("%s must be one of: %s", field, constraint)
	case ViolationPatternMismatch:
		return fmt.Sprintf("%s has an invalid format", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// AggregateError collects multiple field errors into one error value.
type AggregateError struct {
	Errors []*FieldError
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, err.Error())
	}
	return b.String()
}

// FieldErrors returns the individual failures if err is an AggregateError.
func FieldErrors(err error) []*FieldError {
	if aggr, ok := err.(*AggregateError); ok {
		return aggr.Errors
	}
	return nil
}
