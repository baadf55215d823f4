package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/samas-io/smartsearch/v1/observability"
	"github.com/samas-io/smartsearch/v1/provider"
)

// entry is a stored cache value with its own expiration. Expiry is enforced
// per entry on read; the LRU itself only bounds the entry count. Longer-lived
// values, such as the search core's stale copies, keep their full TTL.
type entry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache is an in-process cache provider backed by an expirable LRU.
// It is the zero-infrastructure alternative to the Redis provider: same
// contract, process-local scope.
//
// MemoryCache implements provider.CacheProvider.
type MemoryCache struct {
	lru        *expirable.LRU[string, entry]
	defaultTTL time.Duration

	// tags maps tag -> set of keys, guarded by tagMu.
	tagMu sync.Mutex
	tags  map[string]map[string]struct{}

	observer observability.Observer

	hits   atomic.Int64
	misses atomic.Int64

	// now is the clock; replaced in tests.
	now func() time.Time
}

// Config defines the configuration for the in-memory cache provider.
type Config struct {
	// MaxEntries bounds the number of cached values; the least recently
	// used entry is evicted beyond it.
	// Default: 10000
	MaxEntries int `yaml:"max_entries"`

	// DefaultTTL is applied when SetJSON receives a zero TTL. Explicit TTLs
	// are honored as given, shorter or longer.
	// Default: 5 minutes
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// Default values for configuration
const (
	DefaultMaxEntries = 10_000
	DefaultTTL        = 5 * time.Minute
)

// NewMemoryCache creates an in-memory cache provider.
//
// Example:
//
//	cache := memory.NewMemoryCache(memory.Config{
//	    MaxEntries: 5000,
//	    DefaultTTL: time.Minute,
//	})
func NewMemoryCache(cfg Config) *MemoryCache {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultMaxEntries
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = DefaultTTL
	}

	return &MemoryCache{
		// TTL 0 disables the LRU's own expiry; lifetimes are tracked per
		// entry so explicit TTLs longer than DefaultTTL survive.
		lru:        expirable.NewLRU[string, entry](cfg.MaxEntries, nil, 0),
		defaultTTL: cfg.DefaultTTL,
		tags:       make(map[string]map[string]struct{}),
		now:        time.Now,
	}
}

// WithObserver sets the observer and returns the cache for method chaining.
func (m *MemoryCache) WithObserver(observer observability.Observer) *MemoryCache {
	m.observer = observer
	return m
}

// Name returns the provider identifier "memory".
func (m *MemoryCache) Name() string {
	return "memory"
}

// GetJSON retrieves the value at key and unmarshals it into dest.
// Returns provider.ErrCacheMiss when the key does not exist or has expired.
func (m *MemoryCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	start := time.Now()
	e, ok := m.lru.Get(key)
	if ok && m.now().After(e.expiresAt) {
		m.lru.Remove(key)
		ok = false
	}
	if !ok {
		m.misses.Add(1)
		m.observe("get", key, time.Since(start), nil, 0, map[string]interface{}{"hit": false})
		return provider.ErrCacheMiss
	}

	if err := json.Unmarshal(e.data, dest); err != nil {
		m.observe("get", key, time.Since(start), err, int64(len(e.data)), nil)
		return fmt.Errorf("memory get %q: unmarshal: %w", key, err)
	}
	m.hits.Add(1)
	m.observe("get", key, time.Since(start), nil, int64(len(e.data)), map[string]interface{}{"hit": true})
	return nil
}

// SetJSON marshals value and stores it at key. A zero TTL falls back to
// DefaultTTL; explicit TTLs are honored as given.
func (m *MemoryCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	start := time.Now()
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("memory set %q: marshal: %w", key, err)
	}

	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	m.lru.Add(key, entry{data: data, expiresAt: m.now().Add(ttl)})

	m.observe("set", key, time.Since(start), nil, int64(len(data)), nil)
	return nil
}

// Delete removes the given keys, returning how many existed.
func (m *MemoryCache) Delete(ctx context.Context, keys ...string) (int64, error) {
	var deleted int64
	for _, k := range keys {
		if m.lru.Remove(k) {
			deleted++
		}
	}
	return deleted, nil
}

// DeleteByPattern removes all keys matching a glob pattern (path.Match
// syntax, e.g. "articles:*"), returning how many were removed.
func (m *MemoryCache) DeleteByPattern(ctx context.Context, pattern string) (int64, error) {
	var deleted int64
	for _, k := range m.lru.Keys() {
		ok, err := path.Match(pattern, k)
		if err != nil {
			return deleted, fmt.Errorf("memory delete pattern %q: %w", pattern, err)
		}
		if ok && m.lru.Remove(k) {
			deleted++
		}
	}
	m.observe("delete_pattern", pattern, 0, nil, deleted, nil)
	return deleted, nil
}

// Exists reports whether the key is present and unexpired.
func (m *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	e, ok := m.lru.Peek(key)
	if ok && m.now().After(e.expiresAt) {
		return false, nil
	}
	return ok, nil
}

// TTL returns the remaining lifetime of the key. Returns
// provider.ErrCacheMiss when the key does not exist or has expired.
func (m *MemoryCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	e, ok := m.lru.Peek(key)
	if !ok {
		return 0, provider.ErrCacheMiss
	}
	remaining := e.expiresAt.Sub(m.now())
	if remaining <= 0 {
		return 0, provider.ErrCacheMiss
	}
	return remaining, nil
}

// Tag associates keys with a tag for group invalidation.
func (m *MemoryCache) Tag(ctx context.Context, tag string, keys ...string) error {
	m.tagMu.Lock()
	defer m.tagMu.Unlock()

	set, ok := m.tags[tag]
	if !ok {
		set = make(map[string]struct{}, len(keys))
		m.tags[tag] = set
	}
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return nil
}

// InvalidateTag removes every key associated with the tag, returning how
// many cached entries were removed.
func (m *MemoryCache) InvalidateTag(ctx context.Context, tag string) (int64, error) {
	m.tagMu.Lock()
	set := m.tags[tag]
	delete(m.tags, tag)
	m.tagMu.Unlock()

	var deleted int64
	for k := range set {
		if m.lru.Remove(k) {
			deleted++
		}
	}
	m.observe("invalidate_tag", tag, 0, nil, deleted, nil)
	return deleted, nil
}

// HealthCheck always reports healthy: an in-process map cannot be down.
// Included so the memory provider satisfies the same contract as Redis.
func (m *MemoryCache) HealthCheck(ctx context.Context) provider.HealthStatus {
	return provider.HealthStatus{
		Healthy:   true,
		CheckedAt: time.Now(),
		Details: map[string]interface{}{
			"entries": m.lru.Len(),
		},
	}
}

// Stats returns the provider's operation counters.
func (m *MemoryCache) Stats() provider.Stats {
	return provider.Stats{
		Hits:   m.hits.Load(),
		Misses: m.misses.Load(),
	}
}

// Close drops all cached entries.
func (m *MemoryCache) Close() error {
	m.lru.Purge()
	m.tagMu.Lock()
	m.tags = make(map[string]map[string]struct{})
	m.tagMu.Unlock()
	return nil
}

func (m *MemoryCache) observe(operation, resource string, duration time.Duration, err error, size int64, metadata map[string]interface{}) {
	if m == nil || m.observer == nil {
		return
	}
	m.observer.ObserveOperation(observability.OperationContext{
		Component: "memory",
		Operation: operation,
		Resource:  resource,
		Duration:  duration,
		Error:     err,
		Size:      size,
		Metadata:  metadata,
	})
}

// compile-time interface checks
var (
	_ provider.CacheProvider = (*MemoryCache)(nil)
	_ provider.StatsReporter = (*MemoryCache)(nil)
)
