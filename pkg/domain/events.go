package domain

import "time"

// EventType categorizes analytics events emitted during a wizard session.
type EventType string

const (
	EventStepView          EventType = "step_view"
	EventStepCompleted     EventType = "step_completed"
	EventValidationFailure EventType = "validation_failure"
	EventDraftSaved        EventType = "draft_saved"
	EventDraftLoaded       EventType = "draft_loaded"
	EventWizardCompleted   EventType = "wizard_completed"
	EventWizardCancelled   EventType = "wizard_cancelled"
	EventError             EventType = "error"
	EventPerformance       EventType = "performance_metric"
)

// Event is a single analytics record. Events are append-only within a
// session; the session ID is generated once per engine instance and never
// persisted across reloads.
type Event struct {
	ID        string         `json:"id"`
	SessionID string         `json:"sessionId"`
	UserID    string         `json:"userId,omitempty"`
	Type      EventType      `json:"eventType"`
	StepID    string         `json:"stepId,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// SessionSummary aggregates a session's buffered events.
type SessionSummary struct {
	SessionID      string        `json:"sessionId"`
	Events         int           `json:"events"`
	StepsCompleted int           `json:"stepsCompleted"`
	Errors         int           `json:"errors"`
	DraftSaves     int           `json:"draftSaves"`
	Duration       time.Duration `json:"duration"`
}
