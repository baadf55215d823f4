package qdrant

import "time"

// Config holds connection and behavior settings for the Qdrant search
// provider.
type Config struct {
	// Endpoint is the hostname of the Qdrant server, e.g. "localhost".
	Endpoint string `yaml:"endpoint" env:"QDRANT_ENDPOINT"`

	// Port is the gRPC port of the Qdrant server. Defaults to 6334.
	Port int `yaml:"port" env:"QDRANT_PORT"`

	// ApiKey is an optional authentication token for secured deployments.
	ApiKey string `yaml:"api_key" env:"QDRANT_API_KEY"`

	// CollectionPrefix is prepended to every index name to form the
	// collection name. Defaults to "search_".
	CollectionPrefix string `yaml:"collection_prefix" env:"QDRANT_COLLECTION_PREFIX"`

	// VectorSize is the embedding dimension used when creating collections.
	// Defaults to 1536.
	VectorSize uint64 `yaml:"vector_size" env:"QDRANT_VECTOR_SIZE"`

	// Timeout is the maximum request duration before timing out.
	Timeout time.Duration `yaml:"timeout" env:"QDRANT_TIMEOUT"`

	// CheckCompatibility controls version compatibility checks between
	// client and server.
	CheckCompatibility bool `yaml:"check_compatibility" env:"QDRANT_CHECK_COMPATIBILITY"`

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
	DefaultEndpoint         = "localhost"
	DefaultPort             = 6334
	DefaultCollectionPrefix = "search_"
	DefaultVectorSize       = 1536
	DefaultTimeout          = 5 * time.Second

	defaultBatchSize = 200 // chunk size for batch upserts
)

func (c Config) withDefaults() Config {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.CollectionPrefix == "" {
		c.CollectionPrefix = DefaultCollectionPrefix
	}
	if c.VectorSize == 0 {
		c.VectorSize = DefaultVectorSize
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}
