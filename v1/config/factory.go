package config

import (
	"fmt"

	"github.com/samas-io/smartsearch/v1/mariadb"
	"github.com/samas-io/smartsearch/v1/memory"
	"github.com/samas-io/smartsearch/v1/postgres"
	"github.com/samas-io/smartsearch/v1/provider"
	"github.com/samas-io/smartsearch/v1/qdrant"
	"github.com/samas-io/smartsearch/v1/redis"
)

// NewSearchProvider constructs the database provider the union selects.
//
// Qdrant providers come back without an embedder; attach one with
// WithEmbedder before serving vector queries.
func NewSearchProvider(cfg DatabaseConfig) (provider.SearchProvider, error) {
	switch cfg.Type {
	case DatabasePostgres:
		if cfg.Postgres == nil {
			return nil, fmt.Errorf("database.postgres: block required for type %q", cfg.Type)
		}
		return postgres.NewPostgres(*cfg.Postgres)
	case DatabaseMariaDB:
		if cfg.MariaDB == nil {
			return nil, fmt.Errorf("database.mariadb: block required for type %q", cfg.Type)
		}
		return mariadb.NewMariaDB(*cfg.MariaDB)
	case DatabaseQdrant:
		if cfg.Qdrant == nil {
			return nil, fmt.Errorf("database.qdrant: block required for type %q", cfg.Type)
		}
		return qdrant.NewQdrant(*cfg.Qdrant)
	default:
		return nil, fmt.Errorf("database.type: unknown provider %q", cfg.Type)
	}
}

// NewCacheProvider constructs the cache provider the union selects.
// An empty Type returns nil without error: caching is optional.
func NewCacheProvider(cfg CacheConfig) (provider.CacheProvider, error) {
	switch cfg.Type {
	case "":
		return nil, nil
	case CacheRedis:
		if cfg.Redis == nil {
			return nil, fmt.Errorf("cache.redis: block required for type %q", cfg.Type)
		}
		return redis.NewClient(*cfg.Redis)
	case CacheMemory:
		if cfg.Memory == nil {
			return nil, fmt.Errorf("cache.memory: block required for type %q", cfg.Type)
		}
		return memory.NewMemoryCache(*cfg.Memory), nil
	default:
		return nil, fmt.Errorf("cache.type: unknown provider %q", cfg.Type)
	}
}
