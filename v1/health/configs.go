package health

import "time"

// Config defines the configuration for the health monitor.
type Config struct {
	// CheckInterval is how often every registered provider is probed.
	// Default: 10 seconds
	CheckInterval time.Duration `yaml:"check_interval"`

	// CheckTimeout bounds each individual probe.
	// Default: 5 seconds
	CheckTimeout time.Duration `yaml:"check_timeout"`

	// FailureThreshold is how many consecutive probe failures it takes
	// before a provider is reported unhealthy. 1 means a single failed
	// probe flips the status.
	// Default: 1
	FailureThreshold int `yaml:"failure_threshold"`

	// Logger is an optional logger used for status change logging.
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
	DefaultCheckInterval    = 10 * time.Second
	DefaultCheckTimeout     = 5 * time.Second
	DefaultFailureThreshold = 1
)

func (cfg Config) withDefaults() Config {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = DefaultCheckInterval
	}
	if cfg.CheckTimeout <= 0 {
		cfg.CheckTimeout = DefaultCheckTimeout
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = DefaultFailureThreshold
	}
	return cfg
}
