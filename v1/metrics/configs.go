package metrics

// DefaultMetricsAddress is used when no listen address is specified.
const DefaultMetricsAddress = ":9090"

// Config defines the configuration structure for the Prometheus metrics server.
type Config struct {
	// Address determines the network address where the Prometheus
	// metrics HTTP server listens.
	//
	// Example values:
	//   - ":9090"          → Listen on all interfaces, port 9090
	//   - "127.0.0.1:9100" → Listen only on localhost, port 9100
	//
	// Default: ":9090"
	Address string `yaml:"address"`

	// EnableDefaultCollectors controls whether the built-in Go runtime
	// and process metrics are automatically registered.
	//
	// When true, metrics such as goroutine count, GC stats, and CPU usage
	// will be included automatically. Disable only if you want full
	// manual control over registered collectors.
	//
	// Default: true (set via withDefaults when the struct is zero)
	EnableDefaultCollectors bool `yaml:"enable_default_collectors"`

	// Namespace sets a global prefix for all metrics registered by this
	// service. Useful when running multiple services in the same
	// Prometheus cluster.
	//
	// Example:
	//   Namespace: "smartsearch"
	//   → Metric name becomes "smartsearch_searches_total"
	Namespace string `yaml:"namespace"`

	// ServiceName identifies the service exposing metrics. It is applied
	// as a constant service="<name>" label on every metric to distinguish
	// services in multi-tenant deployments.
	ServiceName string `yaml:"service_name"`
}

func (c Config) withDefaults() Config {
	if c.Address == "" {
		c.Address = DefaultMetricsAddress
	}
	return c
}
