package memory

import (
	"context"

	"go.uber.org/fx"

	"github.com/samas-io/smartsearch/v1/observability"
	"github.com/samas-io/smartsearch/v1/provider"
)

// FXModule provides the in-memory cache as a provider.CacheProvider.
var FXModule = fx.Module("memory",
	fx.Provide(
		fx.Annotate(
			ProvideCache,
			fx.As(new(provider.CacheProvider)),
		),
	),
	fx.Invoke(RegisterMemoryLifecycle),
)

// CacheParams defines the dependencies for creating the memory cache
type CacheParams struct {
	fx.In

	Config   Config
	Observer observability.Observer `optional:"true"`
}

// ProvideCache creates the memory cache for dependency injection
func ProvideCache(params CacheParams) *MemoryCache {
	cache := NewMemoryCache(params.Config)
	if params.Observer != nil {
		cache = cache.WithObserver(params.Observer)
	}
	return cache
}

// RegisterMemoryLifecycle purges the cache on application shutdown
func RegisterMemoryLifecycle(lc fx.Lifecycle, cache *MemoryCache) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return cache.Close()
		},
	})
}
