package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics encapsulates the Prometheus registry and HTTP server responsible
// for exposing smartsearch metrics.
//
// Each instance keeps its own isolated registry so multiple services in one
// process cannot collide on metric names. All metrics carry a constant
// service="<name>" label.
type Metrics struct {
	// Server defines the HTTP server used to expose the /metrics endpoint.
	Server *http.Server

	// Registry is the Prometheus registry where all metrics are registered.
	Registry *prometheus.Registry

	namespace string
	wrapped   prometheus.Registerer

	// Core built-in search metrics
	searchesTotal  *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	cacheHitsTotal *prometheus.CounterVec
	circuitState   *prometheus.GaugeVec
}

// NewMetrics initializes a Metrics instance: a dedicated registry, the
// built-in search metrics, optional Go/process collectors, and an HTTP
// server exposing /metrics at cfg.Address.
//
// Example:
//
//	m := metrics.NewMetrics(metrics.Config{
//	    Address:                 ":9090",
//	    ServiceName:             "smartsearch",
//	    EnableDefaultCollectors: true,
//	})
//	go m.Server.ListenAndServe()
func NewMetrics(cfg Config) *Metrics {
	cfg = cfg.withDefaults()

	registry := prometheus.NewRegistry()

	// All metrics emitted by this service automatically include the label
	// service="<cfg.ServiceName>".
	wrapped := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry:  registry,
		namespace: cfg.Namespace,
		wrapped:   wrapped,
	}

	m.searchesTotal = m.newCounterVec("searches_total",
		"Total number of search requests by provider, strategy, and outcome",
		[]string{"provider", "strategy", "status"})
	m.searchDuration = m.newHistogramVec("search_duration_seconds",
		"Duration of search requests in seconds by answering backend",
		[]string{"provider"}, prometheus.DefBuckets)
	m.cacheHitsTotal = m.newCounterVec("cache_requests_total",
		"Cache lookups by outcome (hit or miss)",
		[]string{"result"})
	m.circuitState = m.newGaugeVec("circuit_state",
		"Circuit breaker state per backend (0=closed, 1=open, 2=half-open)",
		[]string{"backend"})

	wrapped.MustRegister(
		m.searchesTotal,
		m.searchDuration,
		m.cacheHitsTotal,
		m.circuitState,
	)

	if cfg.EnableDefaultCollectors {
		wrapped.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	m.Server = &http.Server{
		Addr:    cfg.Address,
		Handler: handler,
	}
	return m
}
