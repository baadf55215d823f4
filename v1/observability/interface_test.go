package observability

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []OperationContext
}

func (r *recordingObserver) ObserveOperation(ctx OperationContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ctx)
}

func TestMultiFansOut(t *testing.T) {
	a := &recordingObserver{}
	b := &recordingObserver{}

	m := Multi(a, nil, b)
	m.ObserveOperation(OperationContext{
		Component: "search",
		Operation: "search",
		Resource:  "articles",
		Duration:  5 * time.Millisecond,
		Error:     errors.New("boom"),
	})

	if len(a.events) != 1 || len(b.events) != 1 {
		t.Fatalf("expected each observer to receive 1 event, got %d and %d", len(a.events), len(b.events))
	}
	if a.events[0].Component != "search" {
		t.Fatalf("expected component search, got %q", a.events[0].Component)
	}
}

func TestMultiEmptyNoPanic(t *testing.T) {
	Multi().ObserveOperation(OperationContext{Component: "redis"})
	Multi(nil, nil).ObserveOperation(OperationContext{Component: "redis"})
}

func TestNoopObserver(t *testing.T) {
	var o Observer = NoopObserver{}
	o.ObserveOperation(OperationContext{Component: "postgres", Operation: "search"})
}
