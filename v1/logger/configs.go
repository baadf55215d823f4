package logger

// Log levels accepted by Config.Level.
const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config defines the configuration for the smartsearch logger.
type Config struct {
	// Level is the minimum level that will be emitted.
	// One of: "debug", "info", "warning", "error".
	// Default: "info".
	Level string `yaml:"level"`

	// ServiceName is attached to every log entry under the "service" key.
	// Use it to distinguish multiple processes shipping logs to the same sink.
	ServiceName string `yaml:"service_name"`

	// EnableTracing enables automatic extraction of the active OpenTelemetry
	// span from the context-aware logging methods, adding trace_id and
	// span_id fields to log entries.
	EnableTracing bool `yaml:"enable_tracing"`
}
