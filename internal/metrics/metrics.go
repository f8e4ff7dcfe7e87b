// Package metrics provides Prometheus instrumentation for the Router.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation outcomes.
const (
	OutcomeOK             = "ok"
	OutcomeInvalid        = "invalid"
	OutcomeUnrecognized   = "unrecognized"
	OutcomeUnsupported    = "unsupported"
	OutcomeStorageFailure = "storage_failure"
)

// Metrics holds the Router's collectors.
type Metrics struct {
	// Operations counts Router calls by operation and outcome.
	Operations *prometheus.CounterVec

	// Duration tracks Router call latency.
	Duration *prometheus.HistogramVec

	// Notifications counts change signals published.
	Notifications prometheus.Counter
}

// New creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shelf",
				Subsystem: "router",
				Name:      "operations_total",
				Help:      "Total number of router operations.",
			},
			[]string{"op", "outcome"}, // "query" | "insert" | "update" | "delete"
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "shelf",
				Subsystem: "router",
				Name:      "operation_duration_seconds",
				Help:      "Duration of router operations in seconds.",
				Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .5, 1},
			},
			[]string{"op"},
		),
		Notifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shelf",
			Name:      "notifications_total",
			Help:      "Total change notifications published.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Operations, m.Duration, m.Notifications)
	}
	return m
}

// Observe records one operation. Safe on a nil receiver.
func (m *Metrics) Observe(op, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(op, outcome).Inc()
	m.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Notified records one published change signal. Safe on a nil receiver.
func (m *Metrics) Notified() {
	if m == nil {
		return
	}
	m.Notifications.Inc()
}
