package provider

import (
	"context"
	"time"
)

// SearchProvider is the unified contract for source-of-truth search backends.
//
// This interface allows applications to:
//   - Switch between PostgreSQL, MariaDB, and Qdrant without code changes
//   - Write backend-agnostic search logic
//   - Mock search operations easily for testing
//
// Implementations:
//   - postgres.Postgres
//   - mariadb.MariaDB
//   - qdrant.Qdrant
type SearchProvider interface {
	// Name returns the stable lowercase identifier of the backend,
	// e.g. "postgres", "mariadb", "qdrant".
	Name() string

	// Search executes a query against the given index.
	// An empty query matches all documents within the filters.
	Search(ctx context.Context, index, query string, opts SearchOptions) (*SearchResponse, error)

	// Index upserts documents into the given index.
	Index(ctx context.Context, index string, docs []Document) error

	// Delete removes documents by ID from the given index.
	Delete(ctx context.Context, index string, ids []string) error

	// HealthCheck probes the backend and reports its status.
	// It never returns an error; failures are carried in the status.
	HealthCheck(ctx context.Context) HealthStatus

	// Close releases all resources held by the provider.
	Close() error
}

// Suggester is an optional extension of SearchProvider for backends that can
// serve prefix completions.
type Suggester interface {
	// Suggest returns up to limit completions for the given prefix.
	Suggest(ctx context.Context, index, prefix string, limit int) ([]string, error)
}

// CacheProvider is the unified contract for cache backends storing search
// responses (or any JSON-serializable value).
//
// Implementations:
//   - redis.RedisClient
//   - memory.MemoryCache
type CacheProvider interface {
	// Name returns the stable lowercase identifier of the backend,
	// e.g. "redis", "memory".
	Name() string

	// GetJSON retrieves the value at key and unmarshals it into dest.
	// Returns ErrCacheMiss when the key does not exist.
	GetJSON(ctx context.Context, key string, dest interface{}) error

	// SetJSON marshals value and stores it at key with the given TTL.
	// A zero TTL means no expiration.
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes the given keys, returning how many existed.
	Delete(ctx context.Context, keys ...string) (int64, error)

	// DeleteByPattern removes all keys matching a glob pattern
	// (e.g. "articles:*"), returning how many were removed.
	DeleteByPattern(ctx context.Context, pattern string) (int64, error)

	// Exists reports whether the key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// TTL returns the remaining lifetime of the key.
	// Returns ErrCacheMiss when the key does not exist.
	TTL(ctx context.Context, key string) (time.Duration, error)

	// Tag associates key with a tag for group invalidation.
	Tag(ctx context.Context, tag string, keys ...string) error

	// InvalidateTag removes every key associated with the tag,
	// returning how many keys were removed.
	InvalidateTag(ctx context.Context, tag string) (int64, error)

	// HealthCheck probes the backend and reports its status.
	HealthCheck(ctx context.Context) HealthStatus

	// Close releases all resources held by the provider.
	Close() error
}

// StatsReporter is an optional extension implemented by providers that track
// operation counters.
type StatsReporter interface {
	Stats() Stats
}
