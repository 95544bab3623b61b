package schema

// Mode selects how strictly a step is validated.
type Mode int

const (
	// Strict enforces the step's full constraints. Used to gate forward
	// navigation and completion.
	Strict Mode = iota
	// Lenient relaxes required-field checks to warnings so partial work
	// can always be saved. Constraints on present values still apply.
	Lenient
)

// Result is the outcome of validating one step.
type Result struct {
	Valid    bool
	Errors   map[string][]string
	Warnings map[string][]string

	// Completion is the percentage (0..100) of required fields that are
	// present and non-empty. It is independent of Valid.
	Completion int
}

// ValidateStep validates data against the step schema in the given mode.
// A nil schema validates everything and reports 100% completion.
func ValidateStep(s *StepSchema, data map[string]any, mode Mode) Result {
	res := Result{
		Errors:   make(map[string][]string),
		Warnings: make(map[string][]string),
	}
	if s == nil || len(s.Fields) == 0 {
		res.Valid = true
		res.Completion = 100
		return res
	}

	required, filled := 0, 0

	for name, field := range s.Fields {
		value, exists := data[name]
		has := exists && present(value)

		if field.Required {
			required++
			if has {
				filled++
			}
		}

		if !has {
			if field.Required {
				msg := Message(name, ViolationRequiredMissing, "")
				if mode == Strict {
					res.Errors[name] = append(res.Errors[name], msg)
				} else {
					res.Warnings[name] = append(res.Warnings[name], msg)
				}
			}
			continue
		}

		if ferr := field.check(name, value); ferr != nil {
			res.Errors[name] = append(res.Errors[name], Message(ferr.Field, ferr.Kind, ferr.Constraint))
		}
	}

	if required == 0 {
		res.Completion = 100
	} else {
		res.Completion = filled * 100 / required
	}
	res.Valid = len(res.Errors) == 0
	return res
}

// Merge folds another result into r, field-wise. Used when assembling a
// document-level view from per-step results.
func (r *Result) Merge(other Result) {
	for f, msgs := range other.Errors {
		r.Errors[f] = append(r.Errors[f], msgs...)
	}
	for f, msgs := range other.Warnings {
		r.Warnings[f] = append(r.Warnings[f], msgs...)
	}
	r.Valid = r.Valid && other.Valid
}
