package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/samas-io/smartsearch/v1/breaker"
	"github.com/samas-io/smartsearch/v1/observability"
)

// Observer adapts a Metrics instance to the observability.Observer interface
// so every smartsearch component feeds the same registry.
//
// Search operations from the "search" component update the built-in search
// metrics; every operation additionally lands in a generic per-component
// counter and duration histogram.
type Observer struct {
	metrics *Metrics

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// NewObserver creates an observer writing into the given Metrics instance.
func NewObserver(m *Metrics) *Observer {
	return &Observer{
		metrics: m,
		operationsTotal: m.CreateCounter("operations_total",
			"Component operations by outcome",
			[]string{"component", "operation", "status"}),
		operationDuration: m.CreateHistogram("operation_duration_seconds",
			"Duration of component operations in seconds",
			[]string{"component", "operation"}, prometheus.DefBuckets),
	}
}

var _ observability.Observer = (*Observer)(nil)

// ObserveOperation records one component operation.
func (o *Observer) ObserveOperation(ctx observability.OperationContext) {
	status := "success"
	if ctx.Error != nil {
		status = "error"
	}
	o.operationsTotal.WithLabelValues(ctx.Component, ctx.Operation, status).Inc()
	o.operationDuration.WithLabelValues(ctx.Component, ctx.Operation).Observe(ctx.Duration.Seconds())

	if ctx.Component == "search" && ctx.Operation == "search" {
		o.observeSearch(ctx, status)
	}
}

func (o *Observer) observeSearch(ctx observability.OperationContext, status string) {
	strategy, _ := ctx.Metadata["strategy"].(string)

	backend := ctx.SubResource
	if fromCache, _ := ctx.Metadata["from_cache"].(bool); fromCache {
		backend = "cache"
		o.metrics.IncrementCacheHit()
	}
	if backend == "" {
		backend = "database"
	}

	o.metrics.IncrementSearches(backend, strategy, status)
	o.metrics.searchDuration.WithLabelValues(backend).Observe(ctx.Duration.Seconds())
}

// CircuitStateHook returns a breaker state-change callback that keeps the
// circuit_state gauge current. Wire it into the breaker configuration:
//
//	manager := breaker.NewManager(breaker.Config{
//	    OnStateChange: metricsObserver.CircuitStateHook(),
//	})
func (o *Observer) CircuitStateHook() func(name string, from, to breaker.State) {
	return func(name string, from, to breaker.State) {
		o.metrics.SetCircuitState(name, float64(to))
	}
}
