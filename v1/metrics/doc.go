// Package metrics provides Prometheus-based monitoring for smartsearch.
//
// Each Metrics instance keeps its own isolated registry, wraps every metric
// with a constant service label, ships a set of built-in search metrics, and
// exposes everything on a /metrics HTTP endpoint for scraping.
//
// # Built-in metrics
//
//   - searches_total{provider,strategy,status}: search requests by backend
//     and outcome
//   - search_duration_seconds{provider}: request latency by answering backend
//   - cache_requests_total{result}: cache hits and misses
//   - circuit_state{backend}: circuit breaker state per backend
//   - operations_total{component,operation,status} and
//     operation_duration_seconds{component,operation}: generic per-component
//     counters fed by the Observer adapter
//
// # Direct Usage
//
//	m := metrics.NewMetrics(metrics.Config{
//	    Address:                 ":9090",
//	    ServiceName:             "smartsearch",
//	    EnableDefaultCollectors: true,
//	})
//	go m.Server.ListenAndServe()
//
//	m.IncrementSearches("postgres", "auto", "success")
//	defer m.RecordSearchDuration(time.Now(), "postgres")
//
// # Observability wiring
//
// NewObserver adapts a Metrics instance to observability.Observer, the hook
// every smartsearch provider accepts. One observer makes every component
// report into the same registry:
//
//	obs := metrics.NewObserver(m)
//	pg.WithObserver(obs)
//	rd.WithObserver(obs)
//	core.WithObserver(obs)
//
// # FX Module Integration
//
//	app := fx.New(
//	    metrics.FXModule,
//	    fx.Supply(metrics.Config{ServiceName: "smartsearch"}),
//	    // other modules pick up the provided observability.Observer
//	)
//
// Access metrics at: http://localhost:9090/metrics
package metrics
