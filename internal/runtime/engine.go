// Package runtime implements the wizard state machine: step navigation
// gated on strict validation, draft autosave through the tiered store,
// and completion with full-document validation.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/marcosfrias28/brymar-sub012/internal/logging"
	"github.com/marcosfrias28/brymar-sub012/pkg/analytics"
	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
	"github.com/marcosfrias28/brymar-sub012/pkg/draft"
	"github.com/marcosfrias28/brymar-sub012/pkg/ports"
	"github.com/marcosfrias28/brymar-sub012/pkg/schema"
)

// Engine drives one wizard session. It exclusively owns the session state;
// all access goes through its methods, guarded by a mutex (the Go shape of
// the single-writer model the drafts rely on).
type Engine struct {
	config     *domain.Config
	store      *draft.TieredStore
	recorder   *analytics.Recorder
	onComplete ports.OnComplete
	logger     *slog.Logger
	now        func() time.Time
	userID     string

	mu        sync.Mutex
	state     *domain.SessionState
	dirtyGen  uint64
	closed    bool
	completed bool

	stopAutosave chan struct{}
	autosaveOnce sync.Once
	saveWG       sync.WaitGroup
}

// Option configures the Engine.
type Option func(*Engine)

// WithRecorder attaches an analytics recorder. Without one, telemetry is off.
func WithRecorder(r *analytics.Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithOnComplete sets the completion collaborator.
func WithOnComplete(fn ports.OnComplete) Option {
	return func(e *Engine) { e.onComplete = fn }
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithUserID attaches the acting user to drafts and events.
func WithUserID(userID string) Option {
	return func(e *Engine) { e.userID = userID }
}

// WithClock injects a time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine for the given configuration and tiered
// store. The autosave timer (if configured) starts immediately and runs
// until Cancel, Complete or Close.
func NewEngine(config *domain.Config, store *draft.TieredStore, opts ...Option) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid wizard config: %w", err)
	}
	for i := range config.Steps {
		if s := config.Steps[i].Schema; s != nil {
			if err := s.Compile(); err != nil {
				return nil, fmt.Errorf("step %s: %w", config.Steps[i].ID, err)
			}
		}
	}

	e := &Engine{
		config:       config,
		store:        store,
		logger:       logging.NewNop(),
		now:          time.Now,
		stopAutosave: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.state = domain.NewSessionState(config.Steps[0].ID)
	e.track(domain.EventStepView, nil, e.state.CurrentStepID)

	if config.AutoSave {
		go e.autosaveLoop(config.Interval())
	}

	return e, nil
}

// State returns a deep copy of the current session state.
func (e *Engine) State() *domain.SessionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// CurrentStep returns the active step definition.
func (e *Engine) CurrentStep() domain.Step {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config.Steps[e.state.CurrentStepIndex]
}

// Config returns the wizard configuration.
func (e *Engine) Config() *domain.Config { return e.config }

// UpdateData merges a partial edit into the session data and marks it
// dirty. It never moves steps.
func (e *Engine) UpdateData(partial map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	for k, v := range partial {
		e.state.Data[k] = v
	}
	e.state.Dirty = true
	e.dirtyGen++
}

// ValidateStep runs the given step's schema against current data.
func (e *Engine) ValidateStep(stepID string, mode schema.Mode) (schema.Result, error) {
	step, ok := e.config.Step(stepID)
	if !ok {
		return schema.Result{}, fmt.Errorf("%w: %q", domain.ErrNoSuchStep, stepID)
	}

	e.mu.Lock()
	data := e.state.Clone().Data
	e.mu.Unlock()

	return schema.ValidateStep(step.Schema, data, mode), nil
}

// Progress returns the lenient completion percentage for a step, for
// progress bars. Independent of strict validity.
func (e *Engine) Progress(stepID string) int {
	res, err := e.ValidateStep(stepID, schema.Lenient)
	if err != nil {
		return 0
	}
	return res.Completion
}

// NextStep validates the current step strictly and, on success, advances
// and triggers a non-blocking autosave. On failure the engine stays put
// and the field errors land in the session state.
//
// The returned result carries the validation outcome either way; advanced
// reports whether the index moved.
func (e *Engine) NextStep(ctx context.Context) (advanced bool, result schema.Result, err error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false, schema.Result{}, domain.ErrEngineClosed
	}

	step := e.config.Steps[e.state.CurrentStepIndex]
	result = schema.ValidateStep(step.Schema, e.state.Data, schema.Strict)

	if !result.Valid {
		e.state.FieldErrors[step.ID] = result.Errors
		e.mu.Unlock()
		if e.recorder != nil {
			e.recorder.TrackValidationFailure(step.ID, result.Errors)
		}
		return false, result, nil
	}

	// Step passed: clear its transient errors and record progress.
	delete(e.state.FieldErrors, step.ID)
	e.state.StepProgress[step.ID] = true

	last := e.state.CurrentStepIndex == len(e.config.Steps)-1
	if !last {
		e.state.CurrentStepIndex++
		e.state.CurrentStepID = e.config.Steps[e.state.CurrentStepIndex].ID
	}

	// Snapshot for the autosave while still holding the lock, so the
	// payload captures data and step at this exact moment. The save
	// itself runs in the background; navigation does not wait for it.
	var snapshot *domain.Draft
	var gen uint64
	if last {
		e.mu.Unlock()
	} else {
		snapshot = e.snapshotLocked()
		gen = e.dirtyGen
		e.state.Saving = true
		// Registered under the lock so a concurrent Close cannot observe
		// a zero counter between the unlock and the goroutine launch.
		e.saveWG.Add(1)
		e.mu.Unlock()
	}

	if e.recorder != nil {
		e.recorder.TrackStepCompletion(step.ID, result.Completion)
	}
	if !last {
		e.track(domain.EventStepView, nil, snapshot.CurrentStepID)
		go func() {
			defer e.saveWG.Done()
			e.persistSnapshot(context.WithoutCancel(ctx), snapshot, gen)
		}()
	}

	return !last, result, nil
}

// PreviousStep moves back one step. Always allowed, never validates, and
// does not alter saved data.
func (e *Engine) PreviousStep() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.state.CurrentStepIndex == 0 {
		return false
	}
	e.state.CurrentStepIndex--
	e.state.CurrentStepID = e.config.Steps[e.state.CurrentStepIndex].ID
	return true
}

// GoToStep jumps to an arbitrary step. Backward jumps are always allowed;
// forward jumps require either config.AllowSkipSteps or every intervening
// step (including the current one) to pass strict validation.
func (e *Engine) GoToStep(stepID string) error {
	target := e.config.StepIndex(stepID)
	if target < 0 {
		return fmt.Errorf("%w: %q", domain.ErrNoSuchStep, stepID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return domain.ErrEngineClosed
	}

	current := e.state.CurrentStepIndex
	if target == current {
		return nil
	}

	if target > current && !e.config.AllowSkipSteps {
		for i := current; i < target; i++ {
			step := e.config.Steps[i]
			res := schema.ValidateStep(step.Schema, e.state.Data, schema.Strict)
			if !res.Valid {
				return fmt.Errorf("%w: step %q is not valid", domain.ErrSkipNotAllowed, step.ID)
			}
		}
	}

	e.state.CurrentStepIndex = target
	e.state.CurrentStepID = stepID
	return nil
}

// SaveDraft is the explicit user-triggered save. It validates the current
// step leniently (missing required fields become warnings, never a blocked
// save), awaits the tiered store, and returns the outcome together with
// the lenient result. The draft ID is assigned on first save.
func (e *Engine) SaveDraft(ctx context.Context) (domain.SaveOutcome, schema.Result, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return domain.SaveOutcome{Location: domain.LocationNone}, schema.Result{}, domain.ErrEngineClosed
	}
	step := e.config.Steps[e.state.CurrentStepIndex]
	result := schema.ValidateStep(step.Schema, e.state.Data, schema.Lenient)
	snapshot := e.snapshotLocked()
	gen := e.dirtyGen
	e.state.Saving = true
	e.mu.Unlock()

	if e.recorder != nil && !result.Valid {
		e.recorder.TrackValidationFailure(step.ID, result.Errors)
	}

	outcome, err := e.persistSnapshot(ctx, snapshot, gen)
	return outcome, result, err
}

// snapshotLocked builds a draft from the current state. Caller holds e.mu.
// Payloads capture data and step at call time, never lazily at completion
// time, so a save that finishes after later navigation still writes a
// consistent moment.
func (e *Engine) snapshotLocked() *domain.Draft {
	if e.state.DraftID == "" {
		e.state.DraftID = draft.GenerateDraftID(e.config.Kind, e.userID)
	}

	data := make(map[string]any, len(e.state.Data))
	for k, v := range e.state.Data {
		data[k] = v
	}
	progress := make(map[string]bool, len(e.state.StepProgress))
	for k, v := range e.state.StepProgress {
		progress[k] = v
	}

	return &domain.Draft{
		DraftID:       e.state.DraftID,
		UserID:        e.userID,
		Kind:          e.config.Kind,
		FormData:      data,
		CurrentStepID: e.state.CurrentStepID,
		StepProgress:  progress,
		SavedAt:       e.now().UnixMilli(),
	}
}

// persistSnapshot runs one save against the tiered store and folds the
// outcome back into the session flags. Dirty is cleared only when no edit
// happened since the snapshot was taken.
func (e *Engine) persistSnapshot(ctx context.Context, snapshot *domain.Draft, gen uint64) (domain.SaveOutcome, error) {
	outcome, err := e.store.Save(ctx, snapshot)

	e.mu.Lock()
	e.state.Saving = false
	if err == nil && e.dirtyGen == gen {
		e.state.Dirty = false
	}
	e.mu.Unlock()

	if err != nil {
		e.logger.Warn("draft save failed on all tiers", "draft_id", snapshot.DraftID, "err", err)
		e.track(domain.EventError, map[string]any{"op": "save_draft", "message": err.Error()}, snapshot.CurrentStepID)
		return outcome, err
	}

	if outcome.Degraded() {
		e.logger.Info("draft saved to fallback tier", "draft_id", outcome.DraftID, "location", outcome.Location)
	}
	if e.recorder != nil {
		e.recorder.TrackDraftSaved(outcome, snapshot.CurrentStepID)
	}
	return outcome, nil
}

// LoadDraft replaces session data and position from a stored draft.
// A missing or expired draft returns false and leaves state untouched.
func (e *Engine) LoadDraft(ctx context.Context, draftID string) (bool, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false, domain.ErrEngineClosed
	}
	e.state.Loading = true
	e.mu.Unlock()

	d, err := e.store.Load(ctx, e.config.Kind, e.userID, draftID)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Loading = false

	if err != nil {
		if errors.Is(err, domain.ErrDraftNotFound) {
			return false, nil
		}
		return false, err
	}

	data := make(map[string]any, len(d.FormData))
	for k, v := range d.FormData {
		data[k] = v
	}
	progress := make(map[string]bool, len(d.StepProgress))
	for k, v := range d.StepProgress {
		progress[k] = v
	}

	idx := e.config.StepIndex(d.CurrentStepID)
	if idx < 0 {
		// The config may have changed since the draft was written; fall
		// back to the first step rather than refusing the data.
		idx = 0
	}

	e.state.Data = data
	e.state.StepProgress = progress
	e.state.CurrentStepIndex = idx
	e.state.CurrentStepID = e.config.Steps[idx].ID
	e.state.DraftID = d.DraftID
	e.state.Dirty = false

	e.track(domain.EventDraftLoaded, map[string]any{"draftId": d.DraftID}, e.state.CurrentStepID)
	return true, nil
}

// track emits an analytics event if a recorder is attached.
func (e *Engine) track(eventType domain.EventType, data map[string]any, stepID string) {
	if e.recorder != nil {
		e.recorder.Track(eventType, data, stepID)
	}
}
