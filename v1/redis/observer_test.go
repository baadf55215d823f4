package redis

import (
	"sync"
	"testing"
	"time"

	"github.com/samas-io/smartsearch/v1/observability"
)

// TestObserver is a mock observer for testing.
type TestObserver struct {
	mu         sync.Mutex
	operations []observability.OperationContext
}

func (t *TestObserver) ObserveOperation(ctx observability.OperationContext) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.operations = append(t.operations, ctx)
}

func (t *TestObserver) GetOperations() []observability.OperationContext {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]observability.OperationContext, len(t.operations))
	copy(out, t.operations)
	return out
}

func TestObserveOperationNilObserverNoPanic(t *testing.T) {
	r := &RedisClient{
		observer: nil,
	}

	// Should not panic.
	r.observeOperation("get", "articles:abc", "", 10*time.Millisecond, nil, 0, nil)
}

func TestObserveOperationCallsObserver(t *testing.T) {
	obs := &TestObserver{}
	r := &RedisClient{
		observer: obs,
	}

	r.observeOperation("set", "articles:abc", "", 10*time.Millisecond, nil, 100, map[string]interface{}{"ttl": "5m0s"})

	ops := obs.GetOperations()
	if len(ops) != 1 {
		t.Fatalf("expected 1 operation, got %d", len(ops))
	}
	if ops[0].Component != "redis" {
		t.Fatalf("expected component redis, got %q", ops[0].Component)
	}
	if ops[0].Operation != "set" {
		t.Fatalf("expected operation set, got %q", ops[0].Operation)
	}
	if ops[0].Resource != "articles:abc" {
		t.Fatalf("expected resource articles:abc, got %q", ops[0].Resource)
	}
	if ops[0].Size != 100 {
		t.Fatalf("expected size 100, got %d", ops[0].Size)
	}
	if ops[0].Metadata == nil || ops[0].Metadata["ttl"] != "5m0s" {
		t.Fatalf("expected metadata ttl=5m0s, got %#v", ops[0].Metadata)
	}
}

func TestWithObserverChaining(t *testing.T) {
	obs := &TestObserver{}
	r := &RedisClient{}

	out := r.WithObserver(obs)
	if out != r {
		t.Fatalf("WithObserver should return same instance for chaining")
	}
	if r.observer != obs {
		t.Fatalf("expected observer to be set")
	}
}

func TestKeyPrefixing(t *testing.T) {
	r := &RedisClient{keyPrefix: "smartsearch:"}

	if got := r.key("articles:abc"); got != "smartsearch:articles:abc" {
		t.Fatalf("unexpected key: %q", got)
	}
	if got := r.tagKey("articles"); got != "smartsearch:tag:articles" {
		t.Fatalf("unexpected tag key: %q", got)
	}
}

func TestNameIsStable(t *testing.T) {
	r := &RedisClient{}
	if r.Name() != "redis" {
		t.Fatalf("expected provider name redis, got %q", r.Name())
	}
}
