// Package metrics holds the Prometheus collectors of the resolver. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Adapter call outcomes.
const (
	OutcomeHit         = "hit"
	OutcomeAbsent      = "absent"
	OutcomeMismatch    = "mismatch"
	OutcomeRejected    = "rejected"
	OutcomeUnavailable = "unavailable"
	OutcomeTimeout     = "timeout"
	OutcomeSkipped     = "skipped"
)

// Metrics is the set of resolver collectors.
type Metrics struct {
	AdapterCalls    *prometheus.CounterVec
	AdapterDuration *prometheus.HistogramVec
	Resolutions     *prometheus.CounterVec
	ResolveDuration prometheus.Histogram
	CacheLookups    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AdapterCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propres_adapter_calls_total",
				Help: "Adapter invocations by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		AdapterDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "propres_adapter_duration_seconds",
				Help:    "Adapter call latency in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"source"},
		),
		Resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propres_resolutions_total",
				Help: "Completed resolutions by assessment status",
			},
			[]string{"assessment"},
		),
		ResolveDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "propres_resolve_duration_seconds",
				Help:    "End-to-end resolution latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
			},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propres_cache_lookups_total",
				Help: "Result cache lookups by result",
			},
			[]string{"result"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.AdapterCalls, m.AdapterDuration, m.Resolutions, m.ResolveDuration, m.CacheLookups)
	}
	return m
}

// ObserveAdapter records one adapter call.
func (m *Metrics) ObserveAdapter(source, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.AdapterCalls.WithLabelValues(source, outcome).Inc()
	if outcome != OutcomeSkipped {
		m.AdapterDuration.WithLabelValues(source).Observe(d.Seconds())
	}
}

// ObserveResolution records a completed resolution.
func (m *Metrics) ObserveResolution(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(status).Inc()
	m.ResolveDuration.Observe(d.Seconds())
}

// ObserveCache records a cache lookup result ("hit", "miss" or "error").
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
