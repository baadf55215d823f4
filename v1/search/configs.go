package search

import (
	"time"

	"github.com/samas-io/smartsearch/v1/provider"
)

// Config defines the configuration for the search orchestrator.
type Config struct {
	// DefaultStrategy is used when a request does not pick one.
	// Default: provider.StrategyAuto
	DefaultStrategy provider.Strategy `yaml:"default_strategy"`

	// CacheTTL is how long cached search responses stay fresh.
	// Default: 5 minutes
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// StaleMultiplier scales CacheTTL for the stale copy served while the
	// database circuit is open. A multiplier of 6 keeps stale responses
	// for 30 minutes under the default TTL.
	// Default: 6
	StaleMultiplier int `yaml:"stale_multiplier"`

	// Logger is an optional logger from v1/logger
	Logger Logger
}

// Logger is an interface that matches smartsearch's v1/logger.Logger.
type Logger interface {
	Error(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
}

// Default values for configuration
const (
	DefaultCacheTTL        = 5 * time.Minute
	DefaultStaleMultiplier = 6
)

func (c Config) withDefaults() Config {
	if c.DefaultStrategy == "" {
		c.DefaultStrategy = provider.StrategyAuto
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.StaleMultiplier <= 0 {
		c.StaleMultiplier = DefaultStaleMultiplier
	}
	return c
}
