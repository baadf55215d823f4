// Package provider defines the unified contracts every smartsearch backend
// implements.
//
// Two families of backends exist:
//
//   - SearchProvider: a source of truth that can index, delete, and search
//     documents. Implemented by postgres.Postgres, mariadb.MariaDB, and
//     qdrant.QdrantClient.
//   - CacheProvider: a fast read-through store for search responses.
//     Implemented by redis.RedisClient and memory.MemoryCache.
//
// # Usage
//
// Applications depend on the interfaces for backend-agnostic code:
//
//	type Catalog struct {
//	    db    provider.SearchProvider
//	    cache provider.CacheProvider
//	}
//
// and select the implementation via configuration (see the config package):
//
//	db, err := config.NewSearchProvider(config.Postgres(pgCfg))
//	cache, err := config.NewCacheProvider(config.Redis(redisCfg))
//
// # Backend-Specific Behavior
//
// While the interface is unified, some operations have backend-specific
// behavior:
//
// Full-text ranking:
//   - PostgreSQL: ts_rank over a tsvector expression (ILIKE fallback)
//   - MariaDB: MATCH ... AGAINST relevance (LIKE fallback)
//   - Qdrant: cosine similarity over an embedded query vector
//
// Empty query:
//   - SQL backends: match-all within filters
//   - Qdrant: requires an Embedder; returns ErrEmbedderRequired without one
//
// See the individual backend package documentation for details.
package provider
