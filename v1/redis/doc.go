// Package redis provides the Redis-backed cache provider for smartsearch.
//
// The provider stores search responses (or any JSON-serializable value) with
// TTLs and supports two invalidation styles: glob patterns (SCAN based) and
// tags (set based), the latter being what the search core uses to drop every
// cached response for an index when documents change.
//
// # Architecture
//
// This package follows the "accept interfaces, return structs" design pattern:
//   - Client interface: the full Redis cache contract
//   - RedisClient struct: concrete implementation
//   - NewClient / NewClusterClient / NewFailoverClient constructors
//   - FX modules providing both *RedisClient and the Client interface
//
// RedisClient also implements provider.CacheProvider, the backend-agnostic
// surface the search core consumes.
//
// # Direct Usage (Without FX)
//
//	cache, err := redis.NewClient(redis.Config{
//		Host:       "localhost",
//		Port:       6379,
//		DefaultTTL: 5 * time.Minute,
//	})
//	if err != nil {
//		return err
//	}
//	defer cache.Close()
//
//	var resp provider.SearchResponse
//	err = cache.GetJSON(ctx, "articles:abc123", &resp)
//	if provider.IsCacheMiss(err) {
//		// fall through to the database
//	}
//
// # FX Module Integration
//
//	app := fx.New(
//	    logger.FXModule,
//	    redis.FXModule,
//	    fx.Provide(func() redis.Config { return loadConfig() }),
//	)
//
// Cluster and Sentinel deployments use ClusterFXModule / FailoverFXModule
// with their respective configs.
//
// # Observability (Observer Hook)
//
// The provider supports optional observability through the Observer interface
// from the observability package:
//
//	cache = cache.WithObserver(myObserver).WithLogger(myLogger)
//
// The observer receives events for cache operations:
//   - Component: "redis"
//   - Operations: "get", "set", "delete", "delete_pattern", "tag",
//     "invalidate_tag"
//   - Resource: caller-visible key or tag (without the key prefix)
//   - Metadata: hit/miss flag, ttl, key counts
//
// # Distributed Locks
//
// AcquireLock takes a TTL-bounded lock via SetNX with a random token;
// Lock.Release uses a compare-and-delete script so an expired lock that was
// reacquired elsewhere is never released by the old holder.
package redis
