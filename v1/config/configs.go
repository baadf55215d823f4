package config

import (
	"github.com/samas-io/smartsearch/v1/breaker"
	"github.com/samas-io/smartsearch/v1/events"
	"github.com/samas-io/smartsearch/v1/governance"
	"github.com/samas-io/smartsearch/v1/health"
	"github.com/samas-io/smartsearch/v1/logger"
	"github.com/samas-io/smartsearch/v1/mariadb"
	"github.com/samas-io/smartsearch/v1/memory"
	"github.com/samas-io/smartsearch/v1/metrics"
	"github.com/samas-io/smartsearch/v1/postgres"
	"github.com/samas-io/smartsearch/v1/qdrant"
	"github.com/samas-io/smartsearch/v1/redis"
	"github.com/samas-io/smartsearch/v1/search"
	"github.com/samas-io/smartsearch/v1/tracer"
)

// Config is the top-level smartsearch configuration, one YAML file covering
// every package. Sections left empty fall back to per-package defaults.
type Config struct {
	Logger     logger.Config     `yaml:"logger"`
	Metrics    metrics.Config    `yaml:"metrics"`
	Tracer     tracer.Config     `yaml:"tracer"`
	Database   DatabaseConfig    `yaml:"database"`
	Cache      CacheConfig       `yaml:"cache"`
	Breaker    breaker.Config    `yaml:"breaker"`
	Health     health.Config     `yaml:"health"`
	Governance governance.Config `yaml:"governance"`
	Events     events.Config     `yaml:"events"`
	Search     search.Config     `yaml:"search"`
}

// Database provider type identifiers for DatabaseConfig.Type.
const (
	DatabasePostgres = "postgres"
	DatabaseMariaDB  = "mariadb"
	DatabaseQdrant   = "qdrant"
)

// Cache provider type identifiers for CacheConfig.Type.
const (
	CacheRedis  = "redis"
	CacheMemory = "memory"
)

// DatabaseConfig is a tagged union selecting one database provider.
// Exactly the block matching Type must be set.
type DatabaseConfig struct {
	// Type selects the backend: "postgres", "mariadb", or "qdrant".
	Type string `yaml:"type"`

	Postgres *postgres.Config `yaml:"postgres"`
	MariaDB  *mariadb.Config  `yaml:"mariadb"`
	Qdrant   *qdrant.Config   `yaml:"qdrant"`
}

// CacheConfig is a tagged union selecting one cache provider.
// An empty Type disables caching entirely.
type CacheConfig struct {
	// Type selects the backend: "redis", "memory", or "" for none.
	Type string `yaml:"type"`

	Redis  *redis.Config  `yaml:"redis"`
	Memory *memory.Config `yaml:"memory"`
}

// Postgres wraps a postgres configuration into the database union.
func Postgres(cfg postgres.Config) DatabaseConfig {
	return DatabaseConfig{Type: DatabasePostgres, Postgres: &cfg}
}

// MariaDB wraps a mariadb configuration into the database union.
func MariaDB(cfg mariadb.Config) DatabaseConfig {
	return DatabaseConfig{Type: DatabaseMariaDB, MariaDB: &cfg}
}

// Qdrant wraps a qdrant configuration into the database union.
func Qdrant(cfg qdrant.Config) DatabaseConfig {
	return DatabaseConfig{Type: DatabaseQdrant, Qdrant: &cfg}
}

// Redis wraps a redis configuration into the cache union.
func Redis(cfg redis.Config) CacheConfig {
	return CacheConfig{Type: CacheRedis, Redis: &cfg}
}

// Memory wraps an in-memory cache configuration into the cache union.
func Memory(cfg memory.Config) CacheConfig {
	return CacheConfig{Type: CacheMemory, Memory: &cfg}
}
