// Package metrics holds the Prometheus collectors of the engine. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeStored   = "stored"
	OutcomeInvalid  = "stored_invalid"
	OutcomeConflict = "conflict"
	OutcomeBlocked  = "blocked"
)

// Metrics groups the engine collectors.
type Metrics struct {
	actions   *prometheus.CounterVec
	saves     *prometheus.CounterVec
	publishes *prometheus.CounterVec
	issues    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lienzo_actions_total",
				Help: "Semantic actions applied to canvases, by outcome",
			},
			[]string{"action", "outcome"},
		),
		saves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lienzo_saves_total",
				Help: "Draft saves, by outcome",
			},
			[]string{"outcome"},
		),
		publishes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lienzo_publishes_total",
				Help: "Publish attempts, by outcome",
			},
			[]string{"outcome"},
		),
		issues: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lienzo_validation_issues_total",
				Help: "Validation issues reported, by severity and code",
			},
			[]string{"severity", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lienzo_operation_duration_seconds",
				Help:    "Duration of engine workflows",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"operation"},
		),
	}
	reg.MustRegister(m.actions, m.saves, m.publishes, m.issues, m.duration)
	return m
}

// ObserveAction records one action outcome. Its signature matches
// actions.WithObserver.
func (m *Metrics) ObserveAction(action string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.actions.WithLabelValues(action, outcome).Inc()
}

// ObserveSave records a save outcome.
func (m *Metrics) ObserveSave(outcome string) {
	if m == nil {
		return
	}
	m.saves.WithLabelValues(outcome).Inc()
}

// ObservePublish records a publish outcome.
func (m *Metrics) ObservePublish(outcome string) {
	if m == nil {
		return
	}
	m.publishes.WithLabelValues(outcome).Inc()
}

// ObserveIssue counts one validation issue.
func (m *Metrics) ObserveIssue(severity, code string) {
	if m == nil {
		return
	}
	m.issues.WithLabelValues(severity, code).Inc()
}

// Since records the time elapsed since start for operation.
func (m *Metrics) Since(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
