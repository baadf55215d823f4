// Package memory provides an in-process cache provider backed by a
// size-bounded, TTL-aware LRU.
//
// It implements the same CacheProvider contract as the Redis provider, so
// callers can swap between the two without code changes: development and
// single-instance deployments use memory, clustered ones use Redis.
//
// # Direct Usage
//
//	cache := memory.NewMemoryCache(memory.Config{MaxEntries: 5000})
//
//	err := cache.SetJSON(ctx, "articles:abc", response, time.Minute)
//	err = cache.GetJSON(ctx, "articles:abc", &response)
//
// # FX Module Integration
//
//	app := fx.New(
//	    fx.Supply(memory.Config{}),
//	    memory.FXModule,
//	)
//
// Values round-trip through JSON, matching the Redis provider's wire shape,
// so a value written by one provider deserializes identically from the other.
package memory
