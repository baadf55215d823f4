package observability

import "time"

// OperationContext describes a single operation performed by a smartsearch
// component. It is passed to Observer implementations for metrics, tracing,
// or audit purposes.
type OperationContext struct {
	// Component is the emitting package, e.g. "redis", "postgres", "search".
	Component string

	// Operation is the action performed, e.g. "get", "set", "search", "index".
	Operation string

	// Resource is the primary object acted on: a cache key, an index name,
	// a collection name.
	Resource string

	// SubResource is optional extra addressing: a field name, a tag, a
	// provider name for routed operations.
	SubResource string

	// Duration is how long the operation took.
	Duration time.Duration

	// Error is the error returned by the operation, nil on success.
	Error error

	// Size is an operation-specific magnitude: bytes read, rows returned,
	// documents indexed.
	Size int64

	// Metadata carries operation-specific details, e.g. ttl, strategy,
	// circuit state.
	Metadata map[string]interface{}
}

// Observer receives operation events from smartsearch components.
//
// Implementations must be safe for concurrent use; providers call
// ObserveOperation from arbitrary goroutines.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// NoopObserver is an Observer that discards all events.
// Useful as a default when no observability sink is configured.
type NoopObserver struct{}

// ObserveOperation discards the event.
func (NoopObserver) ObserveOperation(OperationContext) {}

// MultiObserver fans events out to several observers in order.
type MultiObserver struct {
	observers []Observer
}

// Multi combines several observers into one. Nil entries are skipped.
func Multi(observers ...Observer) *MultiObserver {
	filtered := make([]Observer, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	return &MultiObserver{observers: filtered}
}

// ObserveOperation forwards the event to every wrapped observer.
func (m *MultiObserver) ObserveOperation(ctx OperationContext) {
	for _, o := range m.observers {
		o.ObserveOperation(ctx)
	}
}
