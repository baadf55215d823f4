package search

import "github.com/samas-io/smartsearch/v1/provider"

// SearchMonitor receives hooks at each stage of a search request.
// Implementations can use this for logging, metrics, or debugging.
// All methods may be called concurrently from multiple requests.
type SearchMonitor interface {
	// Start is called when a search request enters the core.
	Start(index, query string)

	// StrategySelected is called once routing has been decided for the
	// request, with the strategy that will actually run.
	StrategySelected(strategy provider.Strategy)

	// CacheHit is called when a cached response is served.
	CacheHit(key string)

	// CacheMiss is called when the cache was consulted and had no entry.
	CacheMiss(key string)

	// ProviderTried is called before a database provider is queried.
	ProviderTried(name string)

	// ProviderFailed is called when a database provider returned an error
	// or its circuit rejected the call.
	ProviderFailed(name string, err error)

	// ProviderSucceeded is called when a database provider answered,
	// with the number of results it returned.
	ProviderSucceeded(name string, results int)

	// Finish is called with the final response. It is not called when the
	// request fails outright.
	Finish(resp *provider.SearchResponse)
}

// noopMonitor is the default when no monitor is configured.
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (*noopMonitor) Start(index, query string)                   {}
func (*noopMonitor) StrategySelected(strategy provider.Strategy) {}
func (*noopMonitor) CacheHit(key string)                         {}
func (*noopMonitor) CacheMiss(key string)                        {}
func (*noopMonitor) ProviderTried(name string)                   {}
func (*noopMonitor) ProviderFailed(name string, err error)       {}
func (*noopMonitor) ProviderSucceeded(name string, results int)  {}
func (*noopMonitor) Finish(resp *provider.SearchResponse)        {}
