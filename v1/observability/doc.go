// Package observability defines the Observer hook used by every smartsearch
// provider package.
//
// Providers (redis, postgres, mariadb, qdrant, memory, the search core) do not
// depend on any concrete metrics or tracing implementation. Instead they emit
// OperationContext values to an optional Observer. Applications decide what to
// do with those events: record Prometheus metrics (see the metrics package),
// emit OpenTelemetry spans (see the tracer package), log them, or fan out to
// several sinks with MultiObserver.
//
// # Usage
//
//	client, _ := redis.NewClient(cfg)
//	client = client.WithObserver(observability.Multi(
//	    metricsObserver,
//	    tracingObserver,
//	))
//
// Every event carries the component name ("redis", "postgres", "search", ...),
// the operation ("get", "search", "index", ...), the resource acted on (cache
// key, index name), the duration, any error, and a free-form metadata map.
package observability
