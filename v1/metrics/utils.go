package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IncrementSearches increments the search counter.
// status is "success" or "error".
// Example: metrics.IncrementSearches("postgres", "auto", "success")
func (m *Metrics) IncrementSearches(provider, strategy, status string) {
	m.searchesTotal.WithLabelValues(provider, strategy, status).Inc()
}

// RecordSearchDuration records the duration of a search request under the
// backend that answered it.
// Example: defer metrics.RecordSearchDuration(time.Now(), "postgres")
func (m *Metrics) RecordSearchDuration(start time.Time, provider string) {
	m.searchDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
}

// IncrementCacheHit counts one cache hit.
func (m *Metrics) IncrementCacheHit() {
	m.cacheHitsTotal.WithLabelValues("hit").Inc()
}

// IncrementCacheMiss counts one cache miss.
func (m *Metrics) IncrementCacheMiss() {
	m.cacheHitsTotal.WithLabelValues("miss").Inc()
}

// SetCircuitState sets the circuit gauge for a backend.
// Use 0 for closed, 1 for open, 2 for half-open.
func (m *Metrics) SetCircuitState(backend string, state float64) {
	m.circuitState.WithLabelValues(backend).Set(state)
}

// CreateCounter creates a new CounterVec metric and registers it.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := m.newCounterVec(name, help, labels)
	m.wrapped.MustRegister(counter)
	return counter
}

// CreateHistogram creates a new HistogramVec metric and registers it.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := m.newHistogramVec(name, help, labels, buckets)
	m.wrapped.MustRegister(hist)
	return hist
}

// CreateGauge creates a new GaugeVec metric and registers it.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := m.newGaugeVec(name, help, labels)
	m.wrapped.MustRegister(gauge)
	return gauge
}

func (m *Metrics) newCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

func (m *Metrics) newHistogramVec(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		},
		labels,
	)
}

func (m *Metrics) newGaugeVec(name, help string, labels []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}
