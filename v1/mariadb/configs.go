package mariadb

import "time"

// Connection contains the MariaDB/MySQL connection parameters.
type Connection struct {
	// Host is the database server hostname
	// Default: "localhost"
	Host string `yaml:"host"`

	// Port is the database server port
	// Default: "3306"
	Port string `yaml:"port"`

	// User is the database user
	User string `yaml:"user"`

	// Password is the database user's password
	Password string `yaml:"password"`

	// DbName is the database name to connect to
	DbName string `yaml:"db_name"`

	// Charset is the connection character set
	// Default: "utf8mb4"
	Charset string `yaml:"charset"`

	// ParseTime enables scanning DATE/DATETIME into time.Time
	ParseTime bool `yaml:"parse_time"`

	// Loc sets the timezone used for time.Time values
	// Default: "Local"
	Loc string `yaml:"loc"`

	// TLS selects a registered TLS configuration ("true", "skip-verify", custom name)
	TLS string `yaml:"tls"`

	// Timeout is the dial timeout in DSN syntax (e.g. "5s")
	Timeout string `yaml:"timeout"`

	// ReadTimeout is the per-query read timeout in DSN syntax
	ReadTimeout string `yaml:"read_timeout"`

	// WriteTimeout is the per-query write timeout in DSN syntax
	WriteTimeout string `yaml:"write_timeout"`
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

// Config defines the configuration for the MariaDB search provider.
type Config struct {
	// Connection contains the database connection parameters
	Connection Connection `yaml:"connection"`

	// ConnectionDetails contains connection pool tuning
	ConnectionDetails ConnectionDetails `yaml:"connection_details"`

	// TablePrefix is prepended to every index name to form the table name.
	// Default: "search_"
	TablePrefix string `yaml:"table_prefix"`

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
	DefaultPort            = "3306"
	DefaultCharset         = "utf8mb4"
	DefaultLoc             = "Local"
	DefaultTablePrefix     = "search_"
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
	if c.Connection.Charset == "" {
		c.Connection.Charset = DefaultCharset
	}
	if c.Connection.Loc == "" {
		c.Connection.Loc = DefaultLoc
	}
	if c.TablePrefix == "" {
		c.TablePrefix = DefaultTablePrefix
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
