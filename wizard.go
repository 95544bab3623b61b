package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/marcosfrias28/brymar-sub012/internal/logging"
	"github.com/marcosfrias28/brymar-sub012/internal/runtime"
	"github.com/marcosfrias28/brymar-sub012/pkg/analytics"
	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
	"github.com/marcosfrias28/brymar-sub012/pkg/draft"
	"github.com/marcosfrias28/brymar-sub012/pkg/ports"
)

// Engine is the high-level entry point. It owns the per-kind store
// registry and the shared cache tier, and mints one Session per wizard
// run. It wraps the internal runtime and provides a simplified API for
// consumers.
type Engine struct {
	managers      *draft.Managers
	cache         ports.CacheStore
	sink          ports.EventSink
	metrics       *analytics.Metrics
	onComplete    ports.OnComplete
	logger        *slog.Logger
	now           func() time.Time
	serverTimeout time.Duration
	analyticsOff  bool
}

// Option configures the Engine.
type Option func(*Engine)

// WithCache sets the client-side cache tier shared by all sessions.
// Defaults to none; drafts then live on the server tier only.
func WithCache(cache ports.CacheStore) Option {
	return func(e *Engine) { e.cache = cache }
}

// WithEventSink forwards analytics events to an external collector.
func WithEventSink(sink ports.EventSink) Option {
	return func(e *Engine) { e.sink = sink }
}

// WithMetrics attaches prometheus counters to every session recorder.
func WithMetrics(m *analytics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithOnComplete sets the completion collaborator invoked when a session
// publishes its document.
func WithOnComplete(fn ports.OnComplete) Option {
	return func(e *Engine) { e.onComplete = fn }
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock injects a time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithServerTimeout bounds every server-tier draft operation.
func WithServerTimeout(d time.Duration) Option {
	return func(e *Engine) { e.serverTimeout = d }
}

// WithoutAnalytics disables session telemetry entirely.
func WithoutAnalytics() Option {
	return func(e *Engine) { e.analyticsOff = true }
}

// New creates an Engine. Server-tier stores are registered per kind with
// RegisterStore before sessions for that kind can start.
func New(opts ...Option) *Engine {
	e := &Engine{
		managers: draft.NewManagers(),
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RegisterStore binds the server-tier draft store for a wizard kind.
func (e *Engine) RegisterStore(kind domain.Kind, store ports.DraftStore) error {
	return e.managers.Register(kind, store)
}

// Session is one wizard run. It exposes the full runtime surface
// (UpdateData, NextStep, SaveDraft, Complete, ...) plus its recorder.
type Session struct {
	*runtime.Engine

	recorder *analytics.Recorder
}

// Recorder returns the session's analytics recorder, or nil when
// analytics are off.
func (s *Session) Recorder() *analytics.Recorder { return s.recorder }

// Close releases the session's autosave goroutine and flushes pending
// analytics deliveries.
func (s *Session) Close() {
	s.Engine.Close()
	if s.recorder != nil {
		s.recorder.Close()
	}
}

// SessionOption configures a single session.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	userID string
}

// ForUser attributes the session's drafts and events to a user.
func ForUser(userID string) SessionOption {
	return func(c *sessionConfig) { c.userID = userID }
}

// NewSession starts a wizard run for the given configuration. The kind
// must have a registered store.
func (e *Engine) NewSession(config *domain.Config, opts ...SessionOption) (*Session, error) {
	var sc sessionConfig
	for _, opt := range opts {
		opt(&sc)
	}

	store, err := e.tiered(config.Kind)
	if err != nil {
		return nil, err
	}

	var recorder *analytics.Recorder
	if !e.analyticsOff {
		ropts := []analytics.Option{
			analytics.WithLogger(logging.ForComponent(e.logger, "analytics")),
			analytics.WithUserID(sc.userID),
			analytics.WithClock(e.now),
		}
		if e.sink != nil {
			ropts = append(ropts, analytics.WithSink(e.sink))
		}
		if e.metrics != nil {
			ropts = append(ropts, analytics.WithMetrics(e.metrics))
		}
		recorder = analytics.New("", ropts...)
	}

	ropts := []runtime.Option{
		runtime.WithLogger(logging.ForComponent(e.logger, "engine")),
		runtime.WithUserID(sc.userID),
		runtime.WithClock(e.now),
	}
	if recorder != nil {
		ropts = append(ropts, runtime.WithRecorder(recorder))
	}
	if e.onComplete != nil {
		ropts = append(ropts, runtime.WithOnComplete(e.onComplete))
	}

	rt, err := runtime.NewEngine(config, store, ropts...)
	if err != nil {
		if recorder != nil {
			recorder.Close()
		}
		return nil, fmt.Errorf("starting %s session: %w", config.Kind, err)
	}

	return &Session{Engine: rt, recorder: recorder}, nil
}

// ListDrafts returns the live draft IDs for a user across both tiers.
func (e *Engine) ListDrafts(ctx context.Context, kind domain.Kind, userID string) ([]string, error) {
	store, err := e.tiered(kind)
	if err != nil {
		return nil, err
	}
	return store.ListDrafts(ctx, kind, userID)
}

// PurgeExpired removes expired drafts for a user and reports how many
// entries were dropped.
func (e *Engine) PurgeExpired(ctx context.Context, kind domain.Kind, userID string) (int, error) {
	store, err := e.tiered(kind)
	if err != nil {
		return 0, err
	}
	return store.ClearExpired(ctx, kind, userID), nil
}

// DeleteDraft removes one draft from both tiers.
func (e *Engine) DeleteDraft(ctx context.Context, kind domain.Kind, userID, draftID string) error {
	store, err := e.tiered(kind)
	if err != nil {
		return err
	}
	return store.Delete(ctx, kind, userID, draftID)
}

func (e *Engine) tiered(kind domain.Kind) (*draft.TieredStore, error) {
	server, err := e.managers.Get(kind)
	if err != nil {
		return nil, err
	}
	topts := []draft.Option{
		draft.WithLogger(logging.ForComponent(e.logger, "store")),
		draft.WithClock(e.now),
	}
	if e.serverTimeout > 0 {
		topts = append(topts, draft.WithServerTimeout(e.serverTimeout))
	}
	return draft.NewTiered(server, e.cache, topts...), nil
}
