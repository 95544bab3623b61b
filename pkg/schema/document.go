package schema

// CrossRule is a document-level constraint spanning multiple steps,
// e.g. "address is required when coordinates are present".
type CrossRule struct {
	Name string

	// Check inspects the assembled document data and returns violations.
	Check func(data map[string]any) []*FieldError
}

// RequireWhenPresent builds the common cross rule shape: if trigger is
// present and non-empty, field must be too.
func RequireWhenPresent(field, trigger string) CrossRule {
	return CrossRule{
		Name: field + "-requires-" + trigger,
		Check: func(data map[string]any) []*FieldError {
			tv, ok := data[trigger]
			if !ok || !present(tv) {
				return nil
			}
			fv, ok := data[field]
			if ok && present(fv) {
				return nil
			}
			return []*FieldError{{Field: field, Kind: ViolationRequiredMissing}}
		},
	}
}

// DocumentSchema validates the fully assembled document: every step's
// strict schema plus any cross-step rules.
type DocumentSchema struct {
	// Steps maps step ID to its schema, in the same order as the config.
	Steps map[string]*StepSchema

	CrossRules []CrossRule
}

// DocumentResult carries per-step results plus cross-rule failures.
type DocumentResult struct {
	Valid bool

	// StepResults maps step ID to its strict validation result.
	StepResults map[string]Result

	// CrossErrors maps field -> messages from cross rules. They have no
	// single owning step; the engine attributes them to the first step
	// that mentions the field.
	CrossErrors map[string][]string
}

// ValidateDocument runs strict validation for every step schema plus the
// cross rules. Always required before completing a wizard.
func ValidateDocument(ds *DocumentSchema, data map[string]any) DocumentResult {
	res := DocumentResult{
		Valid:       true,
		StepResults: make(map[string]Result),
		CrossErrors: make(map[string][]string),
	}
	if ds == nil {
		return res
	}

	for stepID, s := range ds.Steps {
		r := ValidateStep(s, data, Strict)
		res.StepResults[stepID] = r
		if !r.Valid {
			res.Valid = false
		}
	}

	for _, rule := range ds.CrossRules {
		if rule.Check == nil {
			continue
		}
		for _, ferr := range rule.Check(data) {
			res.CrossErrors[ferr.Field] = append(res.CrossErrors[ferr.Field],
				Message(ferr.Field, ferr.Kind, ferr.Constraint))
			res.Valid = false
		}
	}

	return res
}
