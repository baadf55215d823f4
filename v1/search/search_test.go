package search

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/samas-io/smartsearch/v1/breaker"
	"github.com/samas-io/smartsearch/v1/events"
	"github.com/samas-io/smartsearch/v1/governance"
	"github.com/samas-io/smartsearch/v1/provider"
)

func newCore(t *testing.T, primary provider.SearchProvider) *SmartSearch {
	t.Helper()
	core, err := New(Config{}, primary)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return core
}

func TestSearchRequiresIndex(t *testing.T) {
	core := newCore(t, newFakeProvider("pg", hit("1", "a", 1)))

	_, err := core.Search(context.Background(), "", "query", provider.SearchOptions{})
	if !errors.Is(err, provider.ErrIndexRequired) {
		t.Fatalf("expected ErrIndexRequired, got %v", err)
	}
}

func TestSearchRequiresPrimary(t *testing.T) {
	if _, err := New(Config{}, nil); err == nil {
		t.Fatal("expected error for nil primary")
	}
}

func TestDatabaseOnlyBypassesCache(t *testing.T) {
	pg := newFakeProvider("pg", hit("1", "first", 1))
	cache := newFakeCache()
	core := newCore(t, pg).WithCache(cache)

	for i := 0; i < 2; i++ {
		resp, err := core.Search(context.Background(), "articles", "q", provider.SearchOptions{
			Strategy: provider.StrategyDatabaseOnly,
		})
		if err != nil {
			t.Fatalf("search %d failed: %v", i, err)
		}
		if resp.FromCache {
			t.Fatal("database-only response marked as cached")
		}
	}
	if pg.searchCalls() != 2 {
		t.Fatalf("expected 2 provider calls, got %d", pg.searchCalls())
	}
	if len(cache.keys()) != 0 {
		t.Fatalf("database-only wrote to the cache: %v", cache.keys())
	}
}

func TestCacheAsideMissThenHit(t *testing.T) {
	pg := newFakeProvider("pg", hit("1", "cached doc", 0.8))
	cache := newFakeCache()
	mon := &recordingMonitor{}
	core := newCore(t, pg).WithCache(cache).WithMonitor(mon)

	first, err := core.Search(context.Background(), "articles", "q", provider.SearchOptions{})
	if err != nil {
		t.Fatalf("first search failed: %v", err)
	}
	if first.FromCache {
		t.Fatal("first search should not come from cache")
	}
	if first.Strategy != provider.StrategyAuto {
		t.Fatalf("expected auto strategy, got %q", first.Strategy)
	}

	second, err := core.Search(context.Background(), "articles", "q", provider.SearchOptions{})
	if err != nil {
		t.Fatalf("second search failed: %v", err)
	}
	if !second.FromCache {
		t.Fatal("second search should come from cache")
	}
	if second.Results[0].Document.Content != "cached doc" {
		t.Fatalf("unexpected cached content %q", second.Results[0].Document.Content)
	}
	if pg.searchCalls() != 1 {
		t.Fatalf("expected 1 provider call, got %d", pg.searchCalls())
	}

	hooks := mon.seen()
	if !slices.Contains(hooks, "cache-miss") || !slices.Contains(hooks, "cache-hit") {
		t.Fatalf("expected both cache-miss and cache-hit hooks, got %v", hooks)
	}
}

func TestDifferentQueriesGetDifferentEntries(t *testing.T) {
	pg := newFakeProvider("pg", hit("1", "a", 1))
	cache := newFakeCache()
	core := newCore(t, pg).WithCache(cache)

	ctx := context.Background()
	if _, err := core.Search(ctx, "articles", "first", provider.SearchOptions{}); err != nil {
		t.Fatal(err)
	}
	if _, err := core.Search(ctx, "articles", "second", provider.SearchOptions{}); err != nil {
		t.Fatal(err)
	}
	if pg.searchCalls() != 2 {
		t.Fatalf("distinct queries should not share entries, got %d calls", pg.searchCalls())
	}
}

func TestStaleServeWhenProvidersDown(t *testing.T) {
	pg := newFakeProvider("pg", hit("1", "survivor", 0.9))
	cache := newFakeCache()
	core := newCore(t, pg).WithCache(cache)

	ctx := context.Background()
	if _, err := core.Search(ctx, "articles", "q", provider.SearchOptions{}); err != nil {
		t.Fatalf("priming search failed: %v", err)
	}

	// Fresh entry expires, stale copy survives, database goes down.
	for _, k := range cache.keys() {
		if !strings.HasPrefix(k, stalePrefix) {
			cache.drop(k)
		}
	}
	pg.fail(errors.New("connection refused"))

	resp, err := core.Search(ctx, "articles", "q", provider.SearchOptions{})
	if err != nil {
		t.Fatalf("expected stale serve, got error: %v", err)
	}
	if !resp.FromCache {
		t.Fatal("stale response not marked as cached")
	}
	if resp.Results[0].Document.Content != "survivor" {
		t.Fatalf("unexpected stale content %q", resp.Results[0].Document.Content)
	}
}

func TestCacheFirstDoesNotServeStale(t *testing.T) {
	pg := newFakeProvider("pg", hit("1", "a", 1))
	cache := newFakeCache()
	core := newCore(t, pg).WithCache(cache)

	ctx := context.Background()
	if _, err := core.Search(ctx, "articles", "q", provider.SearchOptions{}); err != nil {
		t.Fatal(err)
	}
	for _, k := range cache.keys() {
		if !strings.HasPrefix(k, stalePrefix) {
			cache.drop(k)
		}
	}
	pg.fail(errors.New("connection refused"))

	_, err := core.Search(ctx, "articles", "q", provider.SearchOptions{
		Strategy: provider.StrategyCacheFirst,
	})
	if err == nil {
		t.Fatal("cache-first should not fall back to the stale copy")
	}
}

func TestFallbackToSecondary(t *testing.T) {
	pg := newFakeProvider("pg")
	pg.fail(errors.New("down"))
	maria := newFakeProvider("mariadb", hit("2", "from secondary", 0.5))
	mon := &recordingMonitor{}
	core := newCore(t, pg).WithSecondaries(maria).WithMonitor(mon)

	resp, err := core.Search(context.Background(), "articles", "q", provider.SearchOptions{})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if resp.Provider != "mariadb" {
		t.Fatalf("expected secondary to answer, got %q", resp.Provider)
	}

	hooks := mon.seen()
	if !slices.Contains(hooks, "failed:pg") || !slices.Contains(hooks, "ok:mariadb") {
		t.Fatalf("unexpected hook sequence %v", hooks)
	}
}

func TestAllProvidersDown(t *testing.T) {
	pg := newFakeProvider("pg")
	pg.fail(errors.New("down"))
	core := newCore(t, pg)

	_, err := core.Search(context.Background(), "articles", "q", provider.SearchOptions{})
	if !IsAllProvidersDown(err) {
		t.Fatalf("expected ErrAllProvidersDown, got %v", err)
	}
}

func TestOpenCircuitFailsFast(t *testing.T) {
	pg := newFakeProvider("pg")
	pg.fail(errors.New("down"))

	manager := breaker.NewManager(breaker.Config{FailureThreshold: 1})
	core := newCore(t, pg).WithBreakers(manager)

	ctx := context.Background()
	if _, err := core.Search(ctx, "articles", "q", provider.SearchOptions{}); err == nil {
		t.Fatal("expected failure")
	}
	calls := pg.searchCalls()

	_, err := core.Search(ctx, "articles", "q", provider.SearchOptions{})
	if !IsAllProvidersDown(err) {
		t.Fatalf("expected ErrAllProvidersDown, got %v", err)
	}
	if pg.searchCalls() != calls {
		t.Fatalf("open circuit still reached the provider: %d -> %d", calls, pg.searchCalls())
	}
}

func TestHybridFusesRankings(t *testing.T) {
	pg := newFakeProvider("pg",
		hit("shared", "in both", 0.9),
		hit("pg-only", "postgres hit", 0.5),
	)
	vec := newFakeProvider("qdrant",
		hit("vec-only", "vector hit", 0.99),
		hit("shared", "in both", 0.7),
	)
	core := newCore(t, pg).WithSecondaries(vec)

	resp, err := core.Search(context.Background(), "articles", "q", provider.SearchOptions{
		Strategy: provider.StrategyHybrid,
	})
	if err != nil {
		t.Fatalf("hybrid search failed: %v", err)
	}
	if resp.Provider != "hybrid" {
		t.Fatalf("expected hybrid provider label, got %q", resp.Provider)
	}
	if len(resp.Results) != 3 {
		t.Fatalf("expected 3 fused results, got %d", len(resp.Results))
	}
	if resp.Results[0].Document.ID != "shared" {
		t.Fatalf("document found by both providers should rank first, got %q", resp.Results[0].Document.ID)
	}
}

func TestHybridToleratesOneFailure(t *testing.T) {
	pg := newFakeProvider("pg", hit("1", "a", 1))
	vec := newFakeProvider("qdrant")
	vec.fail(errors.New("down"))
	core := newCore(t, pg).WithSecondaries(vec)

	resp, err := core.Search(context.Background(), "articles", "q", provider.SearchOptions{
		Strategy: provider.StrategyHybrid,
	})
	if err != nil {
		t.Fatalf("hybrid should tolerate one provider failing: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
}

func TestGovernanceMasksAndSplitsCacheByRole(t *testing.T) {
	pg := newFakeProvider("pg", provider.SearchResult{
		Document: provider.Document{
			ID:      "1",
			Content: "record",
			Fields:  map[string]interface{}{"ssn": "123-45-6789"},
		},
		Score: 1,
	})
	cache := newFakeCache()
	engine := governance.NewEngine(governance.Config{
		Policies: map[string]governance.Policy{
			"patients": {
				MaskFields: []governance.FieldRule{{Field: "ssn", Mask: governance.MaskRedact}},
			},
		},
	})
	core := newCore(t, pg).WithCache(cache).WithGovernance(engine)

	ctx := context.Background()
	analyst := governance.Actor{ID: "u1", Roles: []string{"analyst"}}
	resp, err := core.SearchAs(ctx, analyst, "patients", "q", provider.SearchOptions{})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if got := resp.Results[0].Document.Fields["ssn"]; got != governance.RedactToken {
		t.Fatalf("ssn not masked, got %v", got)
	}

	// A second role must not reuse the analyst's entry.
	admin := governance.Actor{ID: "u2", Roles: []string{"admin"}}
	if _, err := core.SearchAs(ctx, admin, "patients", "q", provider.SearchOptions{}); err != nil {
		t.Fatalf("admin search failed: %v", err)
	}

	fresh := 0
	for _, k := range cache.keys() {
		if !strings.HasPrefix(k, stalePrefix) {
			fresh++
		}
	}
	if fresh != 2 {
		t.Fatalf("expected one fresh entry per role, got %d (%v)", fresh, cache.keys())
	}

	// The cached copy holds the masked value, never the raw one.
	for _, k := range cache.keys() {
		var cached provider.SearchResponse
		if err := cache.GetJSON(ctx, k, &cached); err != nil {
			t.Fatal(err)
		}
		if got := cached.Results[0].Document.Fields["ssn"]; got != governance.RedactToken {
			t.Fatalf("cache entry %s holds unmasked value %v", k, got)
		}
	}
}

func TestGovernanceDenies(t *testing.T) {
	pg := newFakeProvider("pg", hit("1", "a", 1))
	engine := governance.NewEngine(governance.Config{
		Policies: map[string]governance.Policy{
			"patients": {AllowedRoles: []string{"clinician"}},
		},
	})
	core := newCore(t, pg).WithGovernance(engine)

	_, err := core.SearchAs(context.Background(), governance.Actor{ID: "u1"}, "patients", "q", provider.SearchOptions{})
	if !governance.IsAccessDenied(err) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestIndexInvalidatesCacheAndPublishes(t *testing.T) {
	pg := newFakeProvider("pg", hit("1", "a", 1))
	cache := newFakeCache()
	pub := &capturePublisher{}
	core := newCore(t, pg).WithCache(cache).WithPublisher(pub)

	ctx := context.Background()
	if _, err := core.Search(ctx, "articles", "q", provider.SearchOptions{}); err != nil {
		t.Fatal(err)
	}
	if len(cache.keys()) == 0 {
		t.Fatal("search did not populate the cache")
	}

	docs := []provider.Document{{ID: "9", Content: "new doc"}}
	if err := core.Index(ctx, "articles", docs); err != nil {
		t.Fatalf("index failed: %v", err)
	}
	if len(cache.keys()) != 0 {
		t.Fatalf("index did not invalidate cached responses: %v", cache.keys())
	}
	if len(pg.indexed["articles"]) != 1 {
		t.Fatalf("primary did not receive the documents")
	}

	published := pub.published()
	if len(published) != 1 || published[0].Type != events.TypeIndex {
		t.Fatalf("expected one index event, got %+v", published)
	}
	if !slices.Contains(published[0].IDs, "9") {
		t.Fatalf("event missing document ID: %+v", published[0])
	}
}

func TestIndexWritesSecondaries(t *testing.T) {
	pg := newFakeProvider("pg")
	vec := newFakeProvider("qdrant")
	core := newCore(t, pg).WithSecondaries(vec)

	docs := []provider.Document{{ID: "1", Content: "doc"}}
	if err := core.Index(context.Background(), "articles", docs); err != nil {
		t.Fatal(err)
	}
	if len(vec.indexed["articles"]) != 1 {
		t.Fatal("secondary did not receive the documents")
	}
}

func TestIndexSecondaryFailureDoesNotBlock(t *testing.T) {
	pg := newFakeProvider("pg")
	vec := newFakeProvider("qdrant")
	vec.fail(errors.New("down"))
	core := newCore(t, pg).WithSecondaries(vec)

	docs := []provider.Document{{ID: "1", Content: "doc"}}
	if err := core.Index(context.Background(), "articles", docs); err != nil {
		t.Fatalf("secondary failure must not fail the write: %v", err)
	}
	if len(pg.indexed["articles"]) != 1 {
		t.Fatal("primary write missing")
	}
}

func TestDeletePublishes(t *testing.T) {
	pg := newFakeProvider("pg")
	pub := &capturePublisher{}
	core := newCore(t, pg).WithPublisher(pub)

	if err := core.Delete(context.Background(), "articles", []string{"1", "2"}); err != nil {
		t.Fatal(err)
	}
	if len(pg.deleted["articles"]) != 2 {
		t.Fatal("primary did not receive the deletes")
	}

	published := pub.published()
	if len(published) != 1 || published[0].Type != events.TypeDelete {
		t.Fatalf("expected one delete event, got %+v", published)
	}
}

func TestHandleEventDropsTaggedEntries(t *testing.T) {
	pg := newFakeProvider("pg", hit("1", "a", 1))
	cache := newFakeCache()
	core := newCore(t, pg).WithCache(cache)

	ctx := context.Background()
	if _, err := core.Search(ctx, "articles", "q", provider.SearchOptions{}); err != nil {
		t.Fatal(err)
	}
	if len(cache.keys()) == 0 {
		t.Fatal("cache not populated")
	}

	err := core.HandleEvent(ctx, events.Event{Type: events.TypeInvalidate, Index: "articles"})
	if err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}
	if len(cache.keys()) != 0 {
		t.Fatalf("event did not invalidate entries: %v", cache.keys())
	}
}

func TestSuggest(t *testing.T) {
	pg := newFakeProvider("pg")
	pg.suggestions = []string{"golang", "gopher", "rust"}
	core := newCore(t, pg)

	out, err := core.Suggest(context.Background(), "articles", "go", 10)
	if err != nil {
		t.Fatalf("suggest failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 suggestions, got %v", out)
	}
}

func TestSuggestUnsupported(t *testing.T) {
	core := newCore(t, &bareProvider{inner: newFakeProvider("bare")})

	_, err := core.Suggest(context.Background(), "articles", "go", 10)
	if !IsSuggestNotSupported(err) {
		t.Fatalf("expected ErrSuggestNotSupported, got %v", err)
	}
}

func TestStatsSnapshot(t *testing.T) {
	pg := newFakeProvider("pg", hit("1", "a", 1))
	cache := newFakeCache()
	core := newCore(t, pg).WithCache(cache)

	ctx := context.Background()
	if _, err := core.Search(ctx, "articles", "q", provider.SearchOptions{}); err != nil {
		t.Fatal(err)
	}
	if _, err := core.Search(ctx, "articles", "q", provider.SearchOptions{}); err != nil {
		t.Fatal(err)
	}

	snap := core.Stats()
	if snap.Searches != 2 {
		t.Fatalf("expected 2 searches, got %d", snap.Searches)
	}
	if snap.CacheHits != 1 || snap.CacheMisses != 1 {
		t.Fatalf("expected 1 hit / 1 miss, got %d / %d", snap.CacheHits, snap.CacheMisses)
	}
	if state, ok := snap.Breakers["pg"]; !ok || state != "closed" {
		t.Fatalf("expected closed breaker for pg, got %v", snap.Breakers)
	}
}

func TestHealthCheckAggregates(t *testing.T) {
	pg := newFakeProvider("pg")
	cache := newFakeCache()
	core := newCore(t, pg).WithCache(cache)

	status := core.HealthCheck(context.Background())
	if !status.Healthy {
		t.Fatalf("expected healthy, got %+v", status)
	}

	pg.fail(errors.New("down"))
	status = core.HealthCheck(context.Background())
	if status.Healthy {
		t.Fatal("expected unhealthy when no database answers")
	}
}

func TestObservationCarriesAnsweringBackend(t *testing.T) {
	pg := newFakeProvider("pg", hit("1", "a", 1))
	obs := &captureObserver{}
	core := newCore(t, pg).WithObserver(obs)

	if _, err := core.Search(context.Background(), "articles", "q", provider.SearchOptions{
		Strategy: provider.StrategyDatabaseOnly,
	}); err != nil {
		t.Fatal(err)
	}
	if err := core.Index(context.Background(), "articles", []provider.Document{{ID: "1"}}); err != nil {
		t.Fatal(err)
	}

	ops := obs.observed()
	if len(ops) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(ops))
	}
	if ops[0].Operation != "search" || ops[0].SubResource != "pg" {
		t.Fatalf("search observation should name the answering backend, got %+v", ops[0])
	}
	if ops[1].Operation != "index" || ops[1].SubResource != "pg" {
		t.Fatalf("index observation should name the primary backend, got %+v", ops[1])
	}
}
