package postgres

import "time"

// Connection contains the PostgreSQL connection parameters.
type Connection struct {
	// Host is the database server hostname
	// Default: "localhost"
	Host string `yaml:"host"`

	// Port is the database server port
	// Default: "5432"
	Port string `yaml:"port"`

	// User is the database user
	User string `yaml:"user"`

	// Password is the database user's password
	Password string `yaml:"password"`

	// DbName is the database name to connect to
	DbName string `yaml:"db_name"`

	// SSLMode controls TLS negotiation ("disable", "require", "verify-full", ...)
	// Default: "disable"
	SSLMode string `yaml:"ssl_mode"`
}

// ConnectionDetails contains connection pool tuning parameters.
type ConnectionDetails struct {
	// MaxOpenConns limits the number of open connections to the database
	// Default: 50
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns limits the number of idle connections in the pool
	// Default: 25
	MaxIdleConns int `yaml:"max_idle_conns"`

	// ConnMaxLifetime limits how long a connection may be reused
	// Default: 1 minute
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// Config defines the configuration for the PostgreSQL search provider.
type Config struct {
	// Connection contains the database connection parameters
	Connection Connection `yaml:"connection"`

	// ConnectionDetails contains connection pool tuning
	ConnectionDetails ConnectionDetails `yaml:"connection_details"`

	// TablePrefix is prepended to every index name to form the table name.
	// Default: "search_"
	TablePrefix string `yaml:"table_prefix"`

	// Language is the text search configuration passed to to_tsvector and
	// plainto_tsquery.
	// Default: "english"
	Language string `yaml:"language"`

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
	DefaultPort            = "5432"
	DefaultSSLMode         = "disable"
	DefaultTablePrefix     = "search_"
	DefaultLanguage        = "english"
	DefaultMaxOpenConns    = 50
	DefaultMaxIdleConns    = 25
	DefaultConnMaxLifetime = 1 * time.Minute
)

func (c Config) withDefaults() Config {
	if c.Connection.Host == "" {
		c.Connection.Host = DefaultHost
	}
	if c.Connection.Port == "" {
		c.Connection.Port = DefaultPort
	}
	if c.Connection.SSLMode == "" {
		c.Connection.SSLMode = DefaultSSLMode
	}
	if c.TablePrefix == "" {
		c.TablePrefix = DefaultTablePrefix
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.ConnectionDetails.MaxOpenConns <= 0 {
		c.ConnectionDetails.MaxOpenConns = DefaultMaxOpenConns
	}
	if c.ConnectionDetails.MaxIdleConns <= 0 {
		c.ConnectionDetails.MaxIdleConns = DefaultMaxIdleConns
	}
	if c.ConnectionDetails.ConnMaxLifetime <= 0 {
		c.ConnectionDetails.ConnMaxLifetime = DefaultConnMaxLifetime
	}
	return c
}
