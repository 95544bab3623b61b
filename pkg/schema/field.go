package schema

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// Field defines the type and constraints for a single form field.
type Field struct {
	Type     Type
	Required bool

	// Numeric range constraints (apply to int/float fields).
	Min *float64
	Max *float64

	// Length constraints (apply to strings and slices).
	MinLen *int
	MaxLen *int

	// Enum restricts string values to a closed set.
	Enum []string

	// Pattern is a regular expression string values must match.
	Pattern string

	pattern *regexp.Regexp
}

// StepSchema maps field names to their definitions for one wizard step.
type StepSchema struct {
	Fields map[string]*Field
}

// NewStepSchema creates an empty schema.
func NewStepSchema() *StepSchema {
	return &StepSchema{Fields: make(map[string]*Field)}
}

// Compile precompiles field patterns. Call once after building the schema;
// a bad pattern is a configuration error, not a validation result.
func (s *StepSchema) Compile() error {
	for name, f := range s.Fields {
		if f.Pattern == "" {
			continue
		}
		re, err := regexp.Compile(f.Pattern)
		if err != nil {
			return fmt.Errorf("field %s: invalid pattern %q: %w", name, f.Pattern, err)
		}
		f.pattern = re
	}
	return nil
}

// RequiredFields returns the names of required fields in no particular order.
func (s *StepSchema) RequiredFields() []string {
	var out []string
	for name, f := range s.Fields {
		if f.Required {
			out = append(out, name)
		}
	}
	return out
}

// present reports whether a value counts as "filled in" for completion
// purposes. Empty strings, empty slices and nil are absent.
func present(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	default:
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return rv.Len() > 0
		}
		return true
	}
}

// check validates a present value against the field definition and returns
// the first violation found, or nil.
func (f *Field) check(name string, value any) *FieldError {
	if f.Type != nil {
		if err := f.Type.Validate(value); err != nil {
			return &FieldError{Field: name, Kind: ViolationTypeMismatch, Constraint: f.Type.Name()}
		}
	}

	if f.Min != nil || f.Max != nil {
		if num, ok := asFloat(value); ok {
			if (f.Min != nil && num < *f.Min) || (f.Max != nil && num > *f.Max) {
				return &FieldError{Field: name, Kind: ViolationRangeViolation, Constraint: rangeConstraint(f.Min, f.Max)}
			}
		}
	}

	if f.MinLen != nil || f.MaxLen != nil {
		if l, ok := lengthOf(value); ok {
			if (f.MinLen != nil && l < *f.MinLen) || (f.MaxLen != nil && l > *f.MaxLen) {
				return &FieldError{Field: name, Kind: ViolationRangeViolation, Constraint: lenConstraint(f.MinLen, f.MaxLen)}
			}
		}
	}

	if len(f.Enum) > 0 {
		s := fmt.Sprintf("%v", value)
		found := false
		for _, allowed := range f.Enum {
			if s == allowed {
				found = true
				break
			}
		}
		if !found {
			return &FieldError{Field: name, Kind: ViolationEnumInvalid, Constraint: strings.Join(f.Enum, ", ")}
		}
	}

	if f.Pattern != "" {
		re := f.pattern
		if re == nil {
			// Schema was not compiled; best effort.
			var err error
			re, err = regexp.Compile(f.Pattern)
			if err != nil {
				re = nil
			}
		}
		if re != nil {
			if s, ok := value.(string); ok && !re.MatchString(s) {
				return &FieldError{Field: name, Kind: ViolationPatternMismatch, Constraint: f.Pattern}
			}
		}
	}

	return nil
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func lengthOf(value any) (int, bool) {
	switch v := value.(type) {
	case string:
		return len(v), true
	default:
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return rv.Len(), true
		}
	}
	return 0, false
}

func rangeConstraint(min, max *float64) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("%v..%v", *min, *max)
	case min != nil:
		return fmt.Sprintf(">= %v", *min)
	default:
		return fmt.Sprintf("<= %v", *max)
	}
}

func lenConstraint(min, max *int) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("length %d..%d", *min, *max)
	case min != nil:
		return fmt.Sprintf("length >= %d", *min)
	default:
		return fmt.Sprintf("length <= %d", *max)
	}
}
