// Package http exposes the server tier over HTTP: draft CRUD per wizard
// kind, analytics ingest, health and metrics.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marcosfrias28/brymar-sub012/internal/logging"
	"github.com/marcosfrias28/brymar-sub012/pkg/analytics"
	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
	"github.com/marcosfrias28/brymar-sub012/pkg/draft"
	"github.com/marcosfrias28/brymar-sub012/pkg/ports"
)

// Server handles the wizard HTTP surface. Draft operations resolve their
// backing store through the per-kind registry; analytics events are
// forwarded to the configured sink.
type Server struct {
	managers *draft.Managers
	sink     ports.EventSink
	registry *prometheus.Registry
	metrics  *analytics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures the Server.
type Option func(*Server)

// WithSink forwards ingested analytics events to a collector.
func WithSink(sink ports.EventSink) Option {
	return func(s *Server) { s.sink = sink }
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetricsRegistry serves /metrics from the given registry instead of
// the default one.
func WithMetricsRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// WithMetrics counts saves and ingested events on the given collectors.
func WithMetrics(m *analytics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithClock injects a time source.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewHandler creates the HTTP handler for the draft and analytics API.
func NewHandler(managers *draft.Managers, opts ...Option) http.Handler {
	s := &Server{
		managers: managers,
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.Health)
	r.Method(http.MethodGet, "/metrics", s.metricsHandler())
	r.Post("/api/events", s.IngestEvents)

	r.Route("/api/{kind}/drafts", func(r chi.Router) {
		r.Post("/", s.SaveDraft)
		r.Get("/", s.ListDrafts)
		r.Get("/{draftID}", s.LoadDraft)
		r.Delete("/{draftID}", s.DeleteDraft)
	})

	return enableCORS(r)
}

func (s *Server) metricsHandler() http.Handler {
	if s.registry != nil {
		return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
	}
	return promhttp.Handler()
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SaveDraft handles POST /api/{kind}/drafts. The body is the full draft
// payload; saves overwrite, last write wins.
func (s *Server) SaveDraft(w http.ResponseWriter, r *http.Request) {
	kind, store, ok := s.resolve(w, r)
	if !ok {
		return
	}

	var d domain.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	d.Kind = kind
	if d.DraftID == "" {
		d.DraftID = draft.GenerateDraftID(kind, d.UserID)
	}
	if d.SavedAt == 0 {
		d.SavedAt = s.now().UnixMilli()
	}

	if err := store.Save(r.Context(), &d); err != nil {
		s.logger.Error("draft save failed", "kind", kind, "draft_id", d.DraftID, "err", err)
		http.Error(w, "Failed to save draft", http.StatusInternalServerError)
		return
	}

	if s.metrics != nil {
		s.metrics.DraftSaves.WithLabelValues(string(domain.LocationServer)).Inc()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"draftId": d.DraftID,
		"savedAt": d.SavedAt,
	})
}

// LoadDraft handles GET /api/{kind}/drafts/{draftID}.
func (s *Server) LoadDraft(w http.ResponseWriter, r *http.Request) {
	_, store, ok := s.resolve(w, r)
	if !ok {
		return
	}

	d, err := store.Load(r.Context(), chi.URLParam(r, "draftID"))
	if err != nil {
		if errors.Is(err, domain.ErrDraftNotFound) {
			http.Error(w, "Draft not found", http.StatusNotFound)
			return
		}
		s.logger.Error("draft load failed", "err", err)
		http.Error(w, "Failed to load draft", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

// DeleteDraft handles DELETE /api/{kind}/drafts/{draftID}. Deleting a
// missing draft succeeds.
func (s *Server) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	_, store, ok := s.resolve(w, r)
	if !ok {
		return
	}

	if err := store.Delete(r.Context(), chi.URLParam(r, "draftID")); err != nil {
		s.logger.Error("draft delete failed", "err", err)
		http.Error(w, "Failed to delete draft", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListDrafts handles GET /api/{kind}/drafts?user=<id>.
func (s *Server) ListDrafts(w http.ResponseWriter, r *http.Request) {
	kind, store, ok := s.resolve(w, r)
	if !ok {
		return
	}

	userID := r.URL.Query().Get("user")
	if userID == "" {
		http.Error(w, "Missing user parameter", http.StatusBadRequest)
		return
	}

	ids, err := store.List(r.Context(), kind, userID)
	if err != nil {
		s.logger.Error("draft list failed", "err", err)
		http.Error(w, "Failed to list drafts", http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"draftIds": ids})
}

// IngestEvents handles POST /api/events: a JSON array of analytics events
// forwarded to the sink. Ingest is best-effort; a missing sink accepts
// and drops.
func (s *Server) IngestEvents(w http.ResponseWriter, r *http.Request) {
	var events []domain.Event
	if err := json.NewDecoder(r.Body).Decode(&events); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if s.metrics != nil {
		for i := range events {
			s.metrics.Events.WithLabelValues(string(events[i].Type)).Inc()
		}
	}

	accepted := len(events)
	if s.sink != nil && len(events) > 0 {
		if err := s.sink.Send(r.Context(), events); err != nil {
			s.logger.Warn("event sink rejected batch", "events", len(events), "err", err)
			accepted = 0
		}
	}

	writeJSON(w, http.StatusAccepted, map[string]int{"accepted": accepted})
}

// resolve parses the kind from the URL and looks up its store. On failure
// it writes the response and returns ok=false.
func (s *Server) resolve(w http.ResponseWriter, r *http.Request) (domain.Kind, ports.DraftStore, bool) {
	kind, err := domain.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		http.Error(w, "Unknown wizard kind", http.StatusNotFound)
		return "", nil, false
	}
	store, err := s.managers.Get(kind)
	if err != nil {
		http.Error(w, "No store for wizard kind", http.StatusNotFound)
		return "", nil, false
	}
	return kind, store, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
