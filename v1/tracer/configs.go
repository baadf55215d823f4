package tracer

// Config defines the configuration for the OpenTelemetry tracer.
type Config struct {
	// ServiceName identifies this service in trace backends.
	ServiceName string `yaml:"service_name"`

	// AppEnv names the deployment environment, e.g. "production",
	// "staging", "development". Attached to every span as a resource
	// attribute.
	AppEnv string `yaml:"app_env"`

	// EnableExport controls whether spans are shipped to an OTLP
	// collector. When false the provider records spans locally only,
	// which is what you want in tests.
	EnableExport bool `yaml:"enable_export"`

	// Endpoint is the OTLP HTTP collector address, e.g.
	// "localhost:4318". Empty means the exporter reads the standard
	// OTEL_EXPORTER_OTLP_* environment variables.
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS on the exporter connection. Only honored
	// when Endpoint is set.
	Insecure bool `yaml:"insecure"`
}

// Logger is an interface that matches smartsearch's v1/logger.Logger.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}
