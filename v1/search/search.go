package search

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/samas-io/smartsearch/v1/breaker"
	"github.com/samas-io/smartsearch/v1/governance"
	"github.com/samas-io/smartsearch/v1/provider"
)

// Search executes a query with an anonymous actor. Governance policies that
// restrict roles will deny the request; use SearchAs when policies apply.
func (s *SmartSearch) Search(ctx context.Context, index, query string, opts provider.SearchOptions) (*provider.SearchResponse, error) {
	return s.SearchAs(ctx, governance.Actor{}, index, query, opts)
}

// SearchAs executes a query on behalf of an actor, routing between cache and
// database providers according to the request's strategy (or the configured
// default).
//
// Routing behavior per strategy:
//   - StrategyAuto: cache-aside while the cache is healthy; on total
//     database failure a stale cached copy is served when one exists.
//   - StrategyCacheFirst: cache-aside regardless of health signals.
//   - StrategyDatabaseOnly: bypasses the cache entirely.
//   - StrategyHybrid: queries every provider concurrently and fuses the
//     rankings.
func (s *SmartSearch) SearchAs(ctx context.Context, actor governance.Actor, index, query string, opts provider.SearchOptions) (*provider.SearchResponse, error) {
	start := time.Now()
	s.searches.Add(1)

	if index == "" {
		s.errs.Add(1)
		return nil, provider.ErrIndexRequired
	}

	opts = opts.Normalize()
	strategy := opts.Strategy
	if strategy == "" {
		strategy = s.cfg.DefaultStrategy
	}

	s.monitor.Start(index, query)
	s.monitor.StrategySelected(strategy)

	var (
		resp *provider.SearchResponse
		err  error
	)
	switch strategy {
	case provider.StrategyDatabaseOnly:
		resp, err = s.searchDatabase(ctx, actor, index, query, opts)
	case provider.StrategyCacheFirst:
		resp, err = s.searchCacheAside(ctx, actor, index, query, opts, false)
	case provider.StrategyHybrid:
		resp, err = s.searchHybrid(ctx, actor, index, query, opts)
	default:
		resp, err = s.searchAuto(ctx, actor, index, query, opts)
	}

	if err != nil {
		s.errs.Add(1)
		s.observe("search", index, "", start, err, 0, map[string]interface{}{"strategy": string(strategy)})
		return nil, err
	}

	resp.Strategy = strategy
	s.monitor.Finish(resp)
	s.observe("search", index, resp.Provider, start, nil, int64(len(resp.Results)), map[string]interface{}{
		"strategy":   string(strategy),
		"from_cache": resp.FromCache,
	})
	return resp, nil
}

// searchAuto is cache-aside while the cache is healthy, with a stale-serve
// fallback when every database route is down.
func (s *SmartSearch) searchAuto(ctx context.Context, actor governance.Actor, index, query string, opts provider.SearchOptions) (*provider.SearchResponse, error) {
	if !s.cacheHealthy() {
		return s.searchDatabase(ctx, actor, index, query, opts)
	}
	return s.searchCacheAside(ctx, actor, index, query, opts, true)
}

// searchCacheAside reads the cache first and falls back to the database on
// miss, populating the cache best-effort with the governed response.
// Concurrent misses for the same request collapse into one database query.
func (s *SmartSearch) searchCacheAside(ctx context.Context, actor governance.Actor, index, query string, opts provider.SearchOptions, staleServe bool) (*provider.SearchResponse, error) {
	if s.cache == nil {
		return s.searchDatabase(ctx, actor, index, query, opts)
	}

	key := cacheKey(index, query, opts, roleKey(s.engine, actor))
	if resp, ok := s.getCached(ctx, key); ok {
		s.cacheHits.Add(1)
		s.monitor.CacheHit(key)
		resp.FromCache = true
		return resp, nil
	}
	s.cacheMisses.Add(1)
	s.monitor.CacheMiss(key)

	// The flight key carries no roles: actors with different policies share
	// one database query, and each applies its own governance afterwards.
	flightKey := cacheKey(index, query, opts, nil)
	raw, err, _ := s.flight.Do(flightKey, func() (interface{}, error) {
		return s.queryProviders(ctx, index, query, opts)
	})
	if err != nil {
		if staleServe {
			if resp, ok := s.getCached(ctx, stalePrefix+key); ok {
				s.logWarn("serving stale cached response", err, map[string]interface{}{
					"index": index, "key": key,
				})
				s.monitor.CacheHit(stalePrefix + key)
				resp.FromCache = true
				return resp, nil
			}
		}
		return nil, err
	}

	// Shallow-copy the shared flight result before governing; ApplyToResults
	// copies rows it mutates, so the original stays intact for other callers.
	resp := *raw.(*provider.SearchResponse)
	resp.Results, err = s.govern(ctx, actor, index, resp.Results)
	if err != nil {
		return nil, err
	}

	s.setCached(ctx, index, key, &resp)
	return &resp, nil
}

// searchDatabase queries the providers in order and governs the response.
// The cache is neither read nor written.
func (s *SmartSearch) searchDatabase(ctx context.Context, actor governance.Actor, index, query string, opts provider.SearchOptions) (*provider.SearchResponse, error) {
	resp, err := s.queryProviders(ctx, index, query, opts)
	if err != nil {
		return nil, err
	}
	resp.Results, err = s.govern(ctx, actor, index, resp.Results)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// searchHybrid queries every provider concurrently, fuses their rankings
// with reciprocal rank fusion, and caches the fused response. Provider
// failures are tolerated as long as at least one list comes back.
func (s *SmartSearch) searchHybrid(ctx context.Context, actor governance.Actor, index, query string, opts provider.SearchOptions) (*provider.SearchResponse, error) {
	var key string
	if s.cache != nil {
		key = cacheKey(index, "hybrid|"+query, opts, roleKey(s.engine, actor))
		if resp, ok := s.getCached(ctx, key); ok {
			s.cacheHits.Add(1)
			s.monitor.CacheHit(key)
			resp.FromCache = true
			return resp, nil
		}
		s.cacheMisses.Add(1)
		s.monitor.CacheMiss(key)
	}

	start := time.Now()
	providers := s.providers()
	lists := make([][]provider.SearchResult, len(providers))
	answered := make([]bool, len(providers))
	provErrs := make([]error, len(providers))

	// Plain errgroup, no shared context: one provider failing must not
	// cancel its siblings.
	var g errgroup.Group
	for i, p := range providers {
		g.Go(func() error {
			resp, err := s.queryOne(ctx, p, index, query, opts)
			if err != nil {
				provErrs[i] = err
				return nil
			}
			lists[i] = resp.Results
			answered[i] = true
			return nil
		})
	}
	_ = g.Wait()

	nonEmpty := make([][]provider.SearchResult, 0, len(lists))
	for i, l := range lists {
		if answered[i] {
			nonEmpty = append(nonEmpty, l)
		}
	}
	if len(nonEmpty) == 0 {
		firstErr := fmt.Errorf("no provider answered")
		for _, e := range provErrs {
			if e != nil {
				firstErr = e
				break
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrAllProvidersDown, firstErr)
	}

	fused := fuseRRF(nonEmpty, 0)
	total := int64(len(fused))
	if len(fused) > opts.Limit {
		fused = fused[:opts.Limit]
	}

	resp := &provider.SearchResponse{
		Results:  fused,
		Total:    total,
		Took:     time.Since(start),
		Provider: "hybrid",
	}

	var err error
	resp.Results, err = s.govern(ctx, actor, index, resp.Results)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.setCached(ctx, index, key, resp)
	}
	return resp, nil
}

// queryProviders tries the primary, then each secondary, returning the first
// successful response. Every call runs under the provider's circuit breaker.
func (s *SmartSearch) queryProviders(ctx context.Context, index, query string, opts provider.SearchOptions) (*provider.SearchResponse, error) {
	var lastErr error
	for _, p := range s.providers() {
		resp, err := s.queryOne(ctx, p, index, query, opts)
		if err != nil {
			lastErr = err
			continue
		}
		return resp, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrAllProvidersDown, lastErr)
}

func (s *SmartSearch) queryOne(ctx context.Context, p provider.SearchProvider, index, query string, opts provider.SearchOptions) (*provider.SearchResponse, error) {
	s.monitor.ProviderTried(p.Name())

	var resp *provider.SearchResponse
	br := s.breakers.GetOrCreate(p.Name())
	err := br.Execute(ctx, func(ctx context.Context) error {
		var err error
		resp, err = p.Search(ctx, index, query, opts)
		return err
	})
	if err != nil {
		s.monitor.ProviderFailed(p.Name(), err)
		if !breaker.IsCircuitOpen(err) {
			s.logWarn("provider search failed", err, map[string]interface{}{
				"provider": p.Name(), "index": index,
			})
		}
		return nil, err
	}

	s.monitor.ProviderSucceeded(p.Name(), len(resp.Results))
	return resp, nil
}

// govern applies the policy engine when one is attached.
func (s *SmartSearch) govern(ctx context.Context, actor governance.Actor, index string, results []provider.SearchResult) ([]provider.SearchResult, error) {
	if s.engine == nil {
		return results, nil
	}
	return s.engine.ApplyToResults(ctx, actor, index, results)
}

func (s *SmartSearch) getCached(ctx context.Context, key string) (*provider.SearchResponse, bool) {
	resp := &provider.SearchResponse{}
	err := s.cache.GetJSON(ctx, key, resp)
	if err == nil {
		return resp, true
	}
	if !provider.IsCacheMiss(err) {
		s.logWarn("cache read failed", err, map[string]interface{}{"key": key})
	}
	return nil, false
}

// setCached stores the fresh copy, a longer-lived stale copy, and tags both
// with the index for invalidation. All writes are best effort.
func (s *SmartSearch) setCached(ctx context.Context, index, key string, resp *provider.SearchResponse) {
	if err := s.cache.SetJSON(ctx, key, resp, s.cfg.CacheTTL); err != nil {
		s.logWarn("cache write failed", err, map[string]interface{}{"key": key})
		return
	}
	staleKey := stalePrefix + key
	staleTTL := s.cfg.CacheTTL * time.Duration(s.cfg.StaleMultiplier)
	if err := s.cache.SetJSON(ctx, staleKey, resp, staleTTL); err != nil {
		s.logWarn("stale cache write failed", err, map[string]interface{}{"key": staleKey})
	}
	if err := s.cache.Tag(ctx, index, key, staleKey); err != nil {
		s.logWarn("cache tag failed", err, map[string]interface{}{"index": index})
	}
}
