package analytics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors for wizard telemetry.
type Metrics struct {
	Events             *prometheus.CounterVec
	DraftSaves         *prometheus.CounterVec
	ValidationFailures prometheus.Counter
}

// NewMetrics creates the collectors and registers them with the given
// registerer (pass prometheus.DefaultRegisterer for the global one).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wizard_events_total",
			Help: "Analytics events recorded, by event type.",
		}, []string{"type"}),
		DraftSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wizard_draft_saves_total",
			Help: "Draft saves, by storage location (server, cache, none).",
		}, []string{"location"}),
		ValidationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wizard_validation_failures_total",
			Help: "Strict step validations that blocked navigation.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Events, m.DraftSaves, m.ValidationFailures)
	}
	return m
}
