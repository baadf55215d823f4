package breaker

import "time"

// Config defines the configuration for a circuit breaker.
// The zero value is usable; every field falls back to its package default.
type Config struct {
	// Name identifies the protected backend in logs, metrics, and snapshots.
	Name string `yaml:"name"`

	// FailureThreshold is the number of consecutive failures in the Closed
	// state that opens the circuit.
	// Default: 5
	FailureThreshold int `yaml:"failure_threshold"`

	// SuccessThreshold is the number of successful probes in the HalfOpen
	// state that closes the circuit again.
	// Default: 2
	SuccessThreshold int `yaml:"success_threshold"`

	// RecoveryTimeout is how long the circuit stays Open before probe calls
	// are admitted.
	// Default: 30 seconds
	RecoveryTimeout time.Duration `yaml:"recovery_timeout"`

	// HalfOpenMaxProbes caps how many calls may be in flight concurrently
	// while the circuit is HalfOpen.
	// Default: 3
	HalfOpenMaxProbes int `yaml:"half_open_max_probes"`

	// OnStateChange is invoked after every state transition with the breaker
	// name, the previous state, and the new state. Called while the breaker's
	// lock is NOT held; implementations may call back into the breaker.
	OnStateChange func(name string, from, to State)

	// Logger is an optional logger used for state transition logging.
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
	DefaultFailureThreshold  = 5
	DefaultSuccessThreshold  = 2
	DefaultRecoveryTimeout   = 30 * time.Second
	DefaultHalfOpenMaxProbes = 3
)

func (cfg Config) withDefaults() Config {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = DefaultFailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = DefaultSuccessThreshold
	}
	if cfg.RecoveryTimeout <= 0 {
		cfg.RecoveryTimeout = DefaultRecoveryTimeout
	}
	if cfg.HalfOpenMaxProbes <= 0 {
		cfg.HalfOpenMaxProbes = DefaultHalfOpenMaxProbes
	}
	return cfg
}
