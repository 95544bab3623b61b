// Package analytics records wizard telemetry: step views, validation
// failures, draft saves, errors. Recording is best-effort and non-blocking;
// analytics must never be able to break the wizard flow.
package analytics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/marcosfrias28/brymar-sub012/internal/logging"
	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
	"github.com/marcosfrias28/brymar-sub012/pkg/ports"
)

// Recorder buffers a session's events in memory and forwards each one to
// an optional remote sink, fire-and-forget. It is created per session and
// injected wherever needed; there is no package-level instance, so tests
// can run isolated recorders.
type Recorder struct {
	sessionID string
	userID    string

	mu      sync.Mutex
	events  []domain.Event
	started time.Time
	enabled bool
	closed  bool

	sink    ports.EventSink
	wg      sync.WaitGroup
	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time
}

// Option configures the Recorder.
type Option func(*Recorder)

// WithSink sets the remote sink. Without one, events only buffer locally.
func WithSink(sink ports.EventSink) Option {
	return func(r *Recorder) { r.sink = sink }
}

// WithLogger configures a logger for delivery failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) { r.logger = logger }
}

// WithUserID attaches a user to every event.
func WithUserID(userID string) Option {
	return func(r *Recorder) { r.userID = userID }
}

// WithMetrics wires prometheus counters.
func WithMetrics(m *Metrics) Option {
	return func(r *Recorder) { r.metrics = m }
}

// WithClock injects a time source.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// Disabled creates the recorder switched off: Track calls return normally
// but record nothing.
func Disabled() Option {
	return func(r *Recorder) { r.enabled = false }
}

// New creates a Recorder for one wizard session. An empty sessionID gets a
// generated one.
func New(sessionID string, opts ...Option) *Recorder {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	r := &Recorder{
		sessionID: sessionID,
		enabled:   true,
		logger:    logging.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.started = r.now()
	return r
}

// SessionID returns the session this recorder belongs to.
func (r *Recorder) SessionID() string { return r.sessionID }

// SetEnabled flips the global recording switch. When disabled, Track is a
// no-op that still returns normally.
func (r *Recorder) SetEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = enabled
}

// Track records an event and forwards it to the sink in the background.
func (r *Recorder) Track(eventType domain.EventType, data map[string]any, stepID string) {
	r.mu.Lock()
	if !r.enabled || r.closed {
		r.mu.Unlock()
		return
	}
	event := domain.Event{
		ID:        uuid.NewString(),
		SessionID: r.sessionID,
		UserID:    r.userID,
		Type:      eventType,
		StepID:    stepID,
		Timestamp: r.now(),
		Data:      data,
	}
	r.events = append(r.events, event)
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.Events.WithLabelValues(string(eventType)).Inc()
	}

	if r.sink == nil {
		return
	}

	// Fire-and-forget: delivery failure is logged and swallowed, never
	// retried here (retry responsibility belongs to the transport).
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := r.sink.Send(ctx, []domain.Event{event}); err != nil {
			r.logger.Debug("analytics delivery failed", "event", eventType, "err", err)
		}
	}()
}

// TrackStepCompletion records a finished step with its completion percentage.
func (r *Recorder) TrackStepCompletion(stepID string, completion int) {
	r.Track(domain.EventStepCompleted, map[string]any{"completion": completion}, stepID)
}

// TrackValidationFailure records a failed strict validation.
func (r *Recorder) TrackValidationFailure(stepID string, fieldErrors map[string][]string) {
	fields := make([]string, 0, len(fieldErrors))
	for f := range fieldErrors {
		fields = append(fields, f)
	}
	r.Track(domain.EventValidationFailure, map[string]any{"fields": fields}, stepID)
	if r.metrics != nil {
		r.metrics.ValidationFailures.Inc()
	}
}

// TrackDraftSaved records a draft save and which tier took it.
func (r *Recorder) TrackDraftSaved(outcome domain.SaveOutcome, stepID string) {
	r.Track(domain.EventDraftSaved, map[string]any{
		"draftId":  outcome.DraftID,
		"location": string(outcome.Location),
	}, stepID)
	if r.metrics != nil {
		r.metrics.DraftSaves.WithLabelValues(string(outcome.Location)).Inc()
	}
}

// TrackError records a classified failure with context.
func (r *Recorder) TrackError(err error, context map[string]any) {
	data := map[string]any{"message": err.Error()}
	for k, v := range context {
		data[k] = v
	}
	r.Track(domain.EventError, data, "")
}

// TrackPerformanceMetric records a named duration measurement.
func (r *Recorder) TrackPerformanceMetric(name string, value time.Duration) {
	r.Track(domain.EventPerformance, map[string]any{
		"metric": name,
		"ms":     value.Milliseconds(),
	}, "")
}

// Events returns a copy of the buffered events.
func (r *Recorder) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}

// SessionSummary aggregates the buffer. It never touches the remote sink.
func (r *Recorder) SessionSummary() domain.SessionSummary {
	r.mu.Lock()
	defer r.mu.Unlock()

	summary := domain.SessionSummary{
		SessionID: r.sessionID,
		Events:    len(r.events),
		Duration:  r.now().Sub(r.started),
	}
	for _, e := range r.events {
		switch e.Type {
		case domain.EventStepCompleted:
			summary.StepsCompleted++
		case domain.EventError, domain.EventValidationFailure:
			summary.Errors++
		case domain.EventDraftSaved:
			summary.DraftSaves++
		}
	}
	return summary
}

// Close stops accepting events and waits for in-flight deliveries.
func (r *Recorder) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.wg.Wait()
}
