package redis

import "time"

// Config defines the configuration for a standalone Redis cache provider.
type Config struct {
	// Host is the Redis server hostname or IP address
	// Default: "localhost"
	Host string `yaml:"host"`

	// Port is the Redis server port
	// Default: 6379
	Port int `yaml:"port"`

	// Username is the Redis username for ACL authentication (Redis 6.0+)
	// Leave empty for no username-based authentication
	Username string `yaml:"username"`

	// Password is the Redis password for authentication
	// Leave empty for no authentication
	Password string `yaml:"password"`

	// DB is the Redis database number to use (0-15 by default)
	// Default: 0
	DB int `yaml:"db"`

	// KeyPrefix is prepended to every key this provider touches, so several
	// applications can share one Redis without colliding.
	// Default: "smartsearch:"
	KeyPrefix string `yaml:"key_prefix"`

	// DefaultTTL is applied by SetJSON when the caller passes a zero TTL.
	// Zero means no expiration.
	DefaultTTL time.Duration `yaml:"default_ttl"`

	// PoolSize is the maximum number of socket connections
	// Default: 10 per CPU (set by go-redis)
	PoolSize int `yaml:"pool_size"`

	// MinIdleConns is the minimum number of idle connections to maintain
	MinIdleConns int `yaml:"min_idle_conns"`

	// MaxRetries is the maximum number of retries before giving up
	// Default: 3
	MaxRetries int `yaml:"max_retries"`

	// MinRetryBackoff is the minimum backoff between each retry
	// Default: 8 milliseconds
	MinRetryBackoff time.Duration `yaml:"min_retry_backoff"`

	// MaxRetryBackoff is the maximum backoff between each retry
	// Default: 512 milliseconds
	MaxRetryBackoff time.Duration `yaml:"max_retry_backoff"`

	// DialTimeout is the timeout for establishing new connections
	// Default: 5 seconds
	DialTimeout time.Duration `yaml:"dial_timeout"`

	// ReadTimeout is the timeout for socket reads
	// Default: 3 seconds
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the timeout for socket writes
	// Default: ReadTimeout
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the amount of time after which idle connections are closed
	// Default: 5 minutes
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// TLS contains TLS/SSL configuration
	TLS TLSConfig `yaml:"tls"`

	// Logger is an optional logger from v1/logger
	Logger Logger
}

// TLSConfig contains TLS/SSL configuration parameters.
type TLSConfig struct {
	// Enabled determines whether to use TLS/SSL for the connection
	Enabled bool `yaml:"enabled"`

	// CACertPath is the file path to the CA certificate for verifying the server
	CACertPath string `yaml:"ca_cert_path"`

	// ClientCertPath is the file path to the client certificate
	ClientCertPath string `yaml:"client_cert_path"`

	// ClientKeyPath is the file path to the client certificate's private key
	ClientKeyPath string `yaml:"client_key_path"`

	// InsecureSkipVerify controls whether to skip verification of the server's
	// certificate. Testing only.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`

	// ServerName is used to verify the hostname on the returned certificates
	// If empty, the Host from the main config is used
	ServerName string `yaml:"server_name"`
}

// ClusterConfig defines the configuration for Redis Cluster mode.
type ClusterConfig struct {
	// Addrs is a seed list of cluster nodes
	// Example: []string{"localhost:7000", "localhost:7001", "localhost:7002"}
	Addrs []string `yaml:"addrs"`

	// Username is the Redis username for ACL authentication (Redis 6.0+)
	Username string `yaml:"username"`

	// Password is the Redis password for authentication
	Password string `yaml:"password"`

	// KeyPrefix is prepended to every key this provider touches.
	// Note: pattern and tag invalidation operate per node in cluster mode.
	KeyPrefix string `yaml:"key_prefix"`

	// DefaultTTL is applied by SetJSON when the caller passes a zero TTL.
	DefaultTTL time.Duration `yaml:"default_ttl"`

	// MaxRedirects is the maximum number of retries for MOVED/ASK redirects
	// Default: 3
	MaxRedirects int `yaml:"max_redirects"`

	// RouteByLatency enables routing read-only commands to the closest node
	RouteByLatency bool `yaml:"route_by_latency"`

	// PoolSize is the maximum number of socket connections per node
	PoolSize int `yaml:"pool_size"`

	// MaxRetries is the maximum number of retries before giving up
	MaxRetries int `yaml:"max_retries"`

	// DialTimeout is the timeout for establishing new connections
	DialTimeout time.Duration `yaml:"dial_timeout"`

	// ReadTimeout is the timeout for socket reads
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the timeout for socket writes
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// TLS contains TLS/SSL configuration
	TLS TLSConfig `yaml:"tls"`

	// Logger is an optional logger from v1/logger
	Logger Logger
}

// FailoverConfig defines the configuration for Redis Sentinel (failover) mode.
type FailoverConfig struct {
	// MasterName is the name of the master instance as configured in Sentinel
	MasterName string `yaml:"master_name"`

	// SentinelAddrs is a list of Sentinel node addresses
	SentinelAddrs []string `yaml:"sentinel_addrs"`

	// SentinelPassword is the password for Sentinel authentication
	SentinelPassword string `yaml:"sentinel_password"`

	// Username is the Redis username for ACL authentication (Redis 6.0+)
	Username string `yaml:"username"`

	// Password is the Redis password for authentication
	Password string `yaml:"password"`

	// DB is the Redis database number to use
	DB int `yaml:"db"`

	// KeyPrefix is prepended to every key this provider touches.
	KeyPrefix string `yaml:"key_prefix"`

	// DefaultTTL is applied by SetJSON when the caller passes a zero TTL.
	DefaultTTL time.Duration `yaml:"default_ttl"`

	// PoolSize is the maximum number of socket connections
	PoolSize int `yaml:"pool_size"`

	// MaxRetries is the maximum number of retries before giving up
	MaxRetries int `yaml:"max_retries"`

	// DialTimeout is the timeout for establishing new connections
	DialTimeout time.Duration `yaml:"dial_timeout"`

	// ReadTimeout is the timeout for socket reads
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the timeout for socket writes
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// TLS contains TLS/SSL configuration
	TLS TLSConfig `yaml:"tls"`

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
	DefaultHost            = "localhost"
	DefaultPort            = 6379
	DefaultKeyPrefix       = "smartsearch:"
	DefaultMaxRetries      = 3
	DefaultMinRetryBackoff = 8 * time.Millisecond
	DefaultMaxRetryBackoff = 512 * time.Millisecond
	DefaultDialTimeout     = 5 * time.Second
	DefaultReadTimeout     = 3 * time.Second
	DefaultIdleTimeout     = 5 * time.Minute
	DefaultScanBatch       = 500
)
