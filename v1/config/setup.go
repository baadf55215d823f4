package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/samas-io/smartsearch/v1/provider"
)

// EnvConfigPath is the environment variable LoadFromEnv reads the config
// file path from.
const EnvConfigPath = "SMARTSEARCH_CONFIG"

// Load reads, expands, parses, and validates a YAML configuration file.
//
// Environment references of the form ${VAR} are replaced with the
// variable's value before parsing; ${VAR:fallback} substitutes the fallback
// when the variable is unset or empty.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// LoadFromEnv loads the file named by the SMARTSEARCH_CONFIG environment
// variable.
func LoadFromEnv() (Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		return Config{}, fmt.Errorf("%s is not set", EnvConfigPath)
	}
	return Load(path)
}

// MustLoad loads configuration or panics. Intended for main functions where
// a bad config file should stop the process.
func MustLoad(path string) Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Parse expands, parses, and validates raw YAML configuration bytes.
//
// Decoding goes through an intermediate map so duration fields accept
// human-readable values like "30s" or "5m", which plain YAML decoding of
// time.Duration does not.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &cfg,
		TagName:    "yaml",
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return Config{}, fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for correctness. Errors name the YAML
// field path that failed.
func (c Config) Validate() error {
	switch c.Database.Type {
	case DatabasePostgres, DatabaseMariaDB, DatabaseQdrant:
	case "":
		return fmt.Errorf("database.type is required")
	default:
		return fmt.Errorf("database.type must be one of %q, %q, %q, got %q",
			DatabasePostgres, DatabaseMariaDB, DatabaseQdrant, c.Database.Type)
	}

	switch c.Cache.Type {
	case "", CacheRedis, CacheMemory:
	default:
		return fmt.Errorf("cache.type must be %q, %q, or empty, got %q",
			CacheRedis, CacheMemory, c.Cache.Type)
	}

	switch c.Search.DefaultStrategy {
	case "", provider.StrategyAuto, provider.StrategyCacheFirst,
		provider.StrategyDatabaseOnly, provider.StrategyHybrid:
	default:
		return fmt.Errorf("search.default_strategy: unknown strategy %q", c.Search.DefaultStrategy)
	}

	if c.Search.CacheTTL < 0 {
		return fmt.Errorf("search.cache_ttl must not be negative, got %s", c.Search.CacheTTL)
	}
	if c.Breaker.FailureThreshold < 0 {
		return fmt.Errorf("breaker.failure_threshold must not be negative, got %d", c.Breaker.FailureThreshold)
	}
	return nil
}

// expandEnvVars replaces ${VAR} and ${VAR:fallback} with environment
// variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, fallback, hasFallback := strings.Cut(expr, ":")
		val := os.Getenv(varName)
		if val == "" && hasFallback {
			val = fallback
		}
		return []byte(val)
	})
}
