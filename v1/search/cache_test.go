package search

import (
	"strings"
	"testing"

	"github.com/samas-io/smartsearch/v1/provider"
)

func TestCacheKeyDeterministic(t *testing.T) {
	opts := provider.SearchOptions{Limit: 20, Filters: []provider.Filter{provider.Eq("author", "chen")}}

	a := cacheKey("articles", "raft", opts, nil)
	b := cacheKey("articles", "raft", opts, nil)
	if a != b {
		t.Fatalf("same request produced different keys: %s / %s", a, b)
	}
	if !strings.HasPrefix(a, "articles:") {
		t.Fatalf("key missing index prefix: %s", a)
	}
}

func TestCacheKeyVariesByRequest(t *testing.T) {
	base := cacheKey("articles", "raft", provider.SearchOptions{}, nil)

	if k := cacheKey("articles", "paxos", provider.SearchOptions{}, nil); k == base {
		t.Fatal("different queries share a key")
	}
	if k := cacheKey("articles", "raft", provider.SearchOptions{Limit: 50}, nil); k == base {
		t.Fatal("different limits share a key")
	}
	if k := cacheKey("notes", "raft", provider.SearchOptions{}, nil); k == base {
		t.Fatal("different indexes share a key")
	}
	if k := cacheKey("articles", "raft", provider.SearchOptions{}, []string{"admin"}); k == base {
		t.Fatal("roles did not split the key")
	}
}

func TestCacheKeyIgnoresRouting(t *testing.T) {
	base := cacheKey("articles", "raft", provider.SearchOptions{}, nil)

	withStrategy := cacheKey("articles", "raft", provider.SearchOptions{
		Strategy: provider.StrategyCacheFirst,
	}, nil)
	if withStrategy != base {
		t.Fatal("strategy must not split the cache")
	}

	withTimeout := cacheKey("articles", "raft", provider.SearchOptions{
		Timeout: 1000,
	}, nil)
	if withTimeout != base {
		t.Fatal("timeout must not split the cache")
	}
}

func TestCacheKeyRoleOrderInsensitive(t *testing.T) {
	a := cacheKey("articles", "raft", provider.SearchOptions{}, []string{"admin", "analyst"})
	b := cacheKey("articles", "raft", provider.SearchOptions{}, []string{"analyst", "admin"})
	if a != b {
		t.Fatal("role order split the key")
	}
}
