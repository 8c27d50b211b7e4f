// Package metrics exposes Prometheus collectors for the credential lifecycle.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Operation labels.
const (
	OpLogin   = "login"
	OpRefresh = "refresh"
	OpRevoke  = "revoke"
)

const namespace = "keycard"

// Metrics holds the collectors registered for one process. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	operations   *prometheus.CounterVec
	storeLatency *prometheus.HistogramVec
	cleared      prometheus.Counter
}

// New creates a registry with Go and process collectors plus the service
// collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "credentials",
				Name:      "operations_total",
				Help:      "Credential lifecycle operations by outcome",
			},
			[]string{"operation", "result"},
		),
		storeLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "call_duration_seconds",
				Help:      "Latency of refresh record store calls",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"call"},
		),
		cleared: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "housekeeping",
				Name:      "expired_refresh_tokens_cleared_total",
				Help:      "Refresh tokens nulled by the housekeeping worker",
			},
		),
	}
	reg.MustRegister(m.operations, m.storeLatency, m.cleared)
	return m
}

// ObserveOperation counts one credential operation.
func (m *Metrics) ObserveOperation(op, result string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, result).Inc()
}

// ObserveStoreCall records how long a store call took.
func (m *Metrics) ObserveStoreCall(call string, started time.Time) {
	if m == nil {
		return
	}
	m.storeLatency.WithLabelValues(call).Observe(time.Since(started).Seconds())
}

// AddCleared adds n housekeeping clears.
func (m *Metrics) AddCleared(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.cleared.Add(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
