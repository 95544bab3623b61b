package domain

// SessionState is the runtime snapshot of a wizard session. It is owned
// exclusively by the engine: created on mount (fresh or from a draft),
// mutated only through engine operations, discarded on completion or cancel.
type SessionState struct {
	// CurrentStepID is the identifier of the active step.
	CurrentStepID string

	// CurrentStepIndex is the position of the active step in the config.
	CurrentStepIndex int

	// Data is the accumulating, possibly partial form data.
	Data map[string]any

	// FieldErrors maps step ID -> field -> messages from the last strict
	// validation of that step. Cleared when the step passes.
	FieldErrors map[string]map[string][]string

	// Dirty is set by UpdateData and cleared only by a successful save.
	Dirty bool

	// Loading and Saving track in-flight persistence calls. Navigation
	// does not wait on them.
	Loading bool
	Saving  bool

	// DraftID is empty until the first save assigns one.
	DraftID string

	// StepProgress records which steps have passed strict validation.
	StepProgress map[string]bool
}

// NewSessionState creates a clean state positioned at the first step.
func NewSessionState(firstStepID string) *SessionState {
	return &SessionState{
		CurrentStepID: firstStepID,
		Data:          make(map[string]any),
		FieldErrors:   make(map[string]map[string][]string),
		StepProgress:  make(map[string]bool),
	}
}

// Clone returns a deep copy, so callers can inspect state without holding
// a reference into the engine's mutable copy.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	next := *s
	next.Data = make(map[string]any, len(s.Data))
	for k, v := range s.Data {
		next.Data[k] = v
	}
	next.FieldErrors = make(map[string]map[string][]string, len(s.FieldErrors))
	for step, fields := range s.FieldErrors {
		fe := make(map[string][]string, len(fields))
		for f, msgs := range fields {
			fe[f] = append([]string(nil), msgs...)
		}
		next.FieldErrors[step] = fe
	}
	next.StepProgress = make(map[string]bool, len(s.StepProgress))
	for k, v := range s.StepProgress {
		next.StepProgress[k] = v
	}
	return &next
}
