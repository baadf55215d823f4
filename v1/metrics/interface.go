package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector provides an interface for collecting and exposing
// application metrics. It abstracts Prometheus metric operations with
// support for counters, histograms, and gauges.
//
// This interface is implemented by the concrete *Metrics type.
type MetricsCollector interface {
	// Built-in search metric methods

	// IncrementSearches increments the search counter for a provider,
	// strategy, and outcome ("success" or "error").
	IncrementSearches(provider, strategy, status string)

	// RecordSearchDuration records the duration of a search under the
	// backend that answered it.
	RecordSearchDuration(start time.Time, provider string)

	// IncrementCacheHit counts one cache hit.
	IncrementCacheHit()

	// IncrementCacheMiss counts one cache miss.
	IncrementCacheMiss()

	// SetCircuitState sets the circuit gauge for a backend
	// (0=closed, 1=open, 2=half-open).
	SetCircuitState(backend string, state float64)

	// Dynamic metric factories

	// CreateCounter creates a new CounterVec metric and registers it.
	CreateCounter(name, help string, labels []string) *prometheus.CounterVec

	// CreateHistogram creates a new HistogramVec metric and registers it.
	CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec

	// CreateGauge creates a new GaugeVec metric and registers it.
	CreateGauge(name, help string, labels []string) *prometheus.GaugeVec
}

var _ MetricsCollector = (*Metrics)(nil)
