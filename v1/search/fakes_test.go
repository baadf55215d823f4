package search

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/samas-io/smartsearch/v1/events"
	"github.com/samas-io/smartsearch/v1/observability"
	"github.com/samas-io/smartsearch/v1/provider"
)

// fakeProvider is an in-memory SearchProvider with injectable failures.
type fakeProvider struct {
	name string

	mu       sync.Mutex
	results  []provider.SearchResult
	err      error
	searches int
	indexed  map[string][]provider.Document
	deleted  map[string][]string

	suggestions []string
}

func newFakeProvider(name string, results ...provider.SearchResult) *fakeProvider {
	return &fakeProvider{
		name:    name,
		results: results,
		indexed: make(map[string][]provider.Document),
		deleted: make(map[string][]string),
	}
}

func (f *fakeProvider) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeProvider) searchCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searches
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Search(ctx context.Context, index, query string, opts provider.SearchOptions) (*provider.SearchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches++
	if f.err != nil {
		return nil, f.err
	}
	results := append([]provider.SearchResult(nil), f.results...)
	return &provider.SearchResponse{
		Results:  results,
		Total:    int64(len(results)),
		Provider: f.name,
	}, nil
}

func (f *fakeProvider) Index(ctx context.Context, index string, docs []provider.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.indexed[index] = append(f.indexed[index], docs...)
	return nil
}

func (f *fakeProvider) Delete(ctx context.Context, index string, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deleted[index] = append(f.deleted[index], ids...)
	return nil
}

func (f *fakeProvider) HealthCheck(ctx context.Context) provider.HealthStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	status := provider.HealthStatus{Healthy: f.err == nil, CheckedAt: time.Now()}
	if f.err != nil {
		status.Error = f.err.Error()
	}
	return status
}

func (f *fakeProvider) Close() error { return nil }

func (f *fakeProvider) Suggest(ctx context.Context, index, prefix string, limit int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]string, 0, limit)
	for _, s := range f.suggestions {
		if strings.HasPrefix(s, prefix) && len(out) < limit {
			out = append(out, s)
		}
	}
	return out, nil
}

var (
	_ provider.SearchProvider = (*fakeProvider)(nil)
	_ provider.Suggester      = (*fakeProvider)(nil)
)

// bareProvider is a SearchProvider without suggestion support.
type bareProvider struct{ inner *fakeProvider }

func (b *bareProvider) Name() string { return b.inner.name }
func (b *bareProvider) Search(ctx context.Context, index, query string, opts provider.SearchOptions) (*provider.SearchResponse, error) {
	return b.inner.Search(ctx, index, query, opts)
}
func (b *bareProvider) Index(ctx context.Context, index string, docs []provider.Document) error {
	return b.inner.Index(ctx, index, docs)
}
func (b *bareProvider) Delete(ctx context.Context, index string, ids []string) error {
	return b.inner.Delete(ctx, index, ids)
}
func (b *bareProvider) HealthCheck(ctx context.Context) provider.HealthStatus {
	return b.inner.HealthCheck(ctx)
}
func (b *bareProvider) Close() error { return nil }

// fakeCache is a map-backed CacheProvider with tag support.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	tags    map[string]map[string]struct{}
	getErr  error
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries: make(map[string][]byte),
		tags:    make(map[string]map[string]struct{}),
	}
}

func (c *fakeCache) keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.entries))
	for k := range c.entries {
		out = append(out, k)
	}
	return out
}

func (c *fakeCache) drop(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *fakeCache) Name() string { return "fake-cache" }

func (c *fakeCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return c.getErr
	}
	raw, ok := c.entries[key]
	if !ok {
		return provider.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *fakeCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, keys ...string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := c.entries[k]; ok {
			delete(c.entries, k)
			n++
		}
	}
	return n, nil
}

func (c *fakeCache) DeleteByPattern(ctx context.Context, pattern string) (int64, error) {
	return 0, nil
}

func (c *fakeCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok, nil
}

func (c *fakeCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		return 0, provider.ErrCacheMiss
	}
	return 0, nil
}

func (c *fakeCache) Tag(ctx context.Context, tag string, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.tags[tag]
	if !ok {
		set = make(map[string]struct{})
		c.tags[tag] = set
	}
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return nil
}

func (c *fakeCache) InvalidateTag(ctx context.Context, tag string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for k := range c.tags[tag] {
		if _, ok := c.entries[k]; ok {
			delete(c.entries, k)
			n++
		}
	}
	delete(c.tags, tag)
	return n, nil
}

func (c *fakeCache) HealthCheck(ctx context.Context) provider.HealthStatus {
	return provider.HealthStatus{Healthy: true, CheckedAt: time.Now()}
}

func (c *fakeCache) Close() error { return nil }

var _ provider.CacheProvider = (*fakeCache)(nil)

// capturePublisher records published events.
type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func (p *capturePublisher) published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

// recordingMonitor captures the hook sequence of a request.
type recordingMonitor struct {
	mu    sync.Mutex
	hooks []string
}

func (m *recordingMonitor) add(hook string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, hook)
}

func (m *recordingMonitor) seen() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.hooks...)
}

func (m *recordingMonitor) Start(index, query string)                   { m.add("start") }
func (m *recordingMonitor) StrategySelected(strategy provider.Strategy) { m.add("strategy:" + string(strategy)) }
func (m *recordingMonitor) CacheHit(key string)                         { m.add("cache-hit") }
func (m *recordingMonitor) CacheMiss(key string)                        { m.add("cache-miss") }
func (m *recordingMonitor) ProviderTried(name string)                   { m.add("tried:" + name) }
func (m *recordingMonitor) ProviderFailed(name string, err error)       { m.add("failed:" + name) }
func (m *recordingMonitor) ProviderSucceeded(name string, results int)  { m.add("ok:" + name) }
func (m *recordingMonitor) Finish(resp *provider.SearchResponse)        { m.add("finish") }

// captureObserver records every observed operation.
type captureObserver struct {
	mu  sync.Mutex
	ops []observability.OperationContext
}

func (o *captureObserver) ObserveOperation(ctx observability.OperationContext) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ops = append(o.ops, ctx)
}

func (o *captureObserver) observed() []observability.OperationContext {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]observability.OperationContext(nil), o.ops...)
}

func hit(id, content string, score float64) provider.SearchResult {
	return provider.SearchResult{
		Document: provider.Document{ID: id, Content: content},
		Score:    score,
	}
}
