package redis

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/samas-io/smartsearch/v1/observability"
)

// RedisClient is the Redis-backed cache provider for smartsearch.
// It wraps go-redis and implements provider.CacheProvider: JSON value
// caching with TTLs, glob and tag based invalidation, and health checks.
//
// RedisClient implements the Client interface.
type RedisClient struct {
	// client is the underlying go-redis client
	client redis.UniversalClient

	// keyPrefix is prepended to every key
	keyPrefix string

	// defaultTTL is applied when SetJSON receives a zero TTL
	defaultTTL time.Duration

	// logger is used for structured logging
	logger Logger

	// observer provides optional observability hooks
	observer observability.Observer

	// operation counters for Stats()
	hits   atomic.Int64
	misses atomic.Int64
	errs   atomic.Int64

	// mu protects concurrent access to client
	mu sync.RWMutex

	// shutdownSignal is closed when the client is being shut down
	shutdownSignal chan struct{}

	closeShutdownOnce sync.Once
}

// NewClient creates and initializes a Redis cache provider connected to a
// standalone Redis instance.
//
// Example:
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
func NewClient(cfg Config) (*RedisClient, error) {
	// Apply defaults
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.MinRetryBackoff == 0 {
		cfg.MinRetryBackoff = DefaultMinRetryBackoff
	}
	if cfg.MaxRetryBackoff == 0 {
		cfg.MaxRetryBackoff = DefaultMaxRetryBackoff
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}

	tlsConfig, err := buildTLSConfig(cfg.TLS, cfg.Host)
	if err != nil {
		return nil, err
	}

	opts := &redis.Options{
		Addr:            fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Username:        cfg.Username,
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		ConnMaxIdleTime: cfg.IdleTimeout,
		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: cfg.MinRetryBackoff,
		MaxRetryBackoff: cfg.MaxRetryBackoff,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		TLSConfig:       tlsConfig,
	}

	r := &RedisClient{
		client:         redis.NewClient(opts),
		keyPrefix:      cfg.KeyPrefix,
		defaultTTL:     cfg.DefaultTTL,
		logger:         cfg.Logger,
		shutdownSignal: make(chan struct{}),
	}
	if r.logger != nil {
		r.logger.Info("redis cache provider initialized", nil, map[string]interface{}{
			"addr": opts.Addr, "db": cfg.DB,
		})
	}
	return r, nil
}

// NewClusterClient creates a Redis cache provider connected to a Redis
// Cluster deployment.
//
// DeleteByPattern and InvalidateTag scan per keyslot owner; prefer tag
// invalidation over broad patterns on clusters.
func NewClusterClient(cfg ClusterConfig) (*RedisClient, error) {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	if cfg.MaxRedirects == 0 {
		cfg.MaxRedirects = 3
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}

	tlsConfig, err := buildTLSConfig(cfg.TLS, "")
	if err != nil {
		return nil, err
	}

	opts := &redis.ClusterOptions{
		Addrs:          cfg.Addrs,
		Username:       cfg.Username,
		Password:       cfg.Password,
		MaxRedirects:   cfg.MaxRedirects,
		RouteByLatency: cfg.RouteByLatency,
		PoolSize:       cfg.PoolSize,
		MaxRetries:     cfg.MaxRetries,
		DialTimeout:    cfg.DialTimeout,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		TLSConfig:      tlsConfig,
	}

	r := &RedisClient{
		client:         redis.NewClusterClient(opts),
		keyPrefix:      cfg.KeyPrefix,
		defaultTTL:     cfg.DefaultTTL,
		logger:         cfg.Logger,
		shutdownSignal: make(chan struct{}),
	}
	if r.logger != nil {
		r.logger.Info("redis cluster cache provider initialized", nil, map[string]interface{}{
			"addrs": cfg.Addrs,
		})
	}
	return r, nil
}

// NewFailoverClient creates a Redis cache provider connected through Redis
// Sentinel for high availability.
func NewFailoverClient(cfg FailoverConfig) (*RedisClient, error) {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}

	tlsConfig, err := buildTLSConfig(cfg.TLS, "")
	if err != nil {
		return nil, err
	}

	opts := &redis.FailoverOptions{
		MasterName:       cfg.MasterName,
		SentinelAddrs:    cfg.SentinelAddrs,
		SentinelPassword: cfg.SentinelPassword,
		Username:         cfg.Username,
		Password:         cfg.Password,
		DB:               cfg.DB,
		PoolSize:         cfg.PoolSize,
		MaxRetries:       cfg.MaxRetries,
		DialTimeout:      cfg.DialTimeout,
		ReadTimeout:      cfg.ReadTimeout,
		WriteTimeout:     cfg.WriteTimeout,
		TLSConfig:        tlsConfig,
	}

	r := &RedisClient{
		client:         redis.NewFailoverClient(opts),
		keyPrefix:      cfg.KeyPrefix,
		defaultTTL:     cfg.DefaultTTL,
		logger:         cfg.Logger,
		shutdownSignal: make(chan struct{}),
	}
	if r.logger != nil {
		r.logger.Info("redis failover cache provider initialized", nil, map[string]interface{}{
			"master": cfg.MasterName,
		})
	}
	return r, nil
}

// buildTLSConfig creates a TLS configuration from the provided config.
// Returns nil when TLS is disabled.
func buildTLSConfig(cfg TLSConfig, defaultServerName string) (*tls.Config, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	if cfg.ServerName != "" {
		tlsConfig.ServerName = cfg.ServerName
	} else if defaultServerName != "" {
		tlsConfig.ServerName = defaultServerName
	}

	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA cert")
		}
		tlsConfig.RootCAs = caCertPool
	}

	if cfg.ClientCertPath != "" && cfg.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// Name returns the provider identifier "redis".
func (r *RedisClient) Name() string {
	return "redis"
}

// Client returns the underlying go-redis client for advanced operations.
func (r *RedisClient) Client() redis.UniversalClient {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.client
}

// Close closes the Redis client and releases all resources.
func (r *RedisClient) Close() error {
	r.closeShutdownOnce.Do(func() {
		close(r.shutdownSignal)
	})

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client != nil {
		if err := r.client.Close(); err != nil {
			if r.logger != nil {
				r.logger.Warn("failed to close redis client", err, nil)
			}
			return err
		}
	}
	return nil
}

// WithObserver sets the observer for this client and returns the client for
// method chaining. The observer receives events about cache operations.
func (r *RedisClient) WithObserver(observer observability.Observer) *RedisClient {
	r.observer = observer
	return r
}

// WithLogger sets the logger for this client and returns the client for
// method chaining.
func (r *RedisClient) WithLogger(logger Logger) *RedisClient {
	r.logger = logger
	return r
}
