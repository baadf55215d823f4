package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/samas-io/smartsearch/v1/provider"
)

// Client is the full contract of the Redis cache provider: the shared
// provider.CacheProvider surface plus Redis-specific extras (distributed
// locks, pool stats, raw client access).
//
// This interface is implemented by the concrete *RedisClient type.
type Client interface {
	provider.CacheProvider
	provider.StatsReporter

	// Ping checks if the Redis server is reachable and responsive.
	Ping(ctx context.Context) error

	// PoolStats returns connection pool statistics.
	PoolStats() *redis.PoolStats

	// AcquireLock attempts to take a distributed lock with the given TTL.
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (*Lock, error)

	// Client returns the underlying go-redis client for advanced operations.
	Client() redis.UniversalClient
}

// compile-time interface checks
var (
	_ Client                 = (*RedisClient)(nil)
	_ provider.CacheProvider = (*RedisClient)(nil)
)
