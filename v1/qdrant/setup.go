package qdrant

import (
	"context"
	"fmt"
	"regexp"
	"sync/atomic"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/samas-io/smartsearch/v1/observability"
	"github.com/samas-io/smartsearch/v1/provider"
)

// Embedder turns text into an embedding vector. The provider calls it once
// per query and once per document; supply one before indexing or searching.
type Embedder func(ctx context.Context, text string) ([]float32, error)

// Qdrant is a semantic search provider backed by a Qdrant vector database.
// Each index maps to one collection (CollectionPrefix + index). Documents are
// embedded through the configured Embedder and matched by vector similarity
// instead of term overlap.
type Qdrant struct {
	api      *qdrant.Client
	cfg      Config
	embedder Embedder

	observer observability.Observer

	searches atomic.Int64
	writes   atomic.Int64
	errs     atomic.Int64
}

var indexNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// NewQdrant constructs the provider and validates connectivity via a health
// check. The Qdrant Go SDK creates lightweight gRPC connections, so the
// immediate health check fails fast if the service is unreachable.
func NewQdrant(cfg Config) (*Qdrant, error) {
	cfg = cfg.withDefaults()

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:                   cfg.Endpoint,
		Port:                   cfg.Port,
		APIKey:                 cfg.ApiKey,
		SkipCompatibilityCheck: !cfg.CheckCompatibility,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: failed to initialize client: %w", err)
	}

	q := &Qdrant{
		api: client,
		cfg: cfg,
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if _, err := client.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("qdrant: health check failed: %w", err)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("connected to Qdrant", nil, map[string]interface{}{
			"endpoint": cfg.Endpoint,
			"port":     cfg.Port,
		})
	}
	return q, nil
}

// WithEmbedder sets the embedding function and returns the provider for
// method chaining.
func (q *Qdrant) WithEmbedder(embedder Embedder) *Qdrant {
	q.embedder = embedder
	return q
}

// WithObserver sets the observer and returns the provider for method chaining.
func (q *Qdrant) WithObserver(observer observability.Observer) *Qdrant {
	q.observer = observer
	return q
}

// Name returns the provider identifier "qdrant".
func (q *Qdrant) Name() string {
	return "qdrant"
}

// Client returns the underlying Qdrant SDK client for direct access to
// low-level operations.
func (q *Qdrant) Client() *qdrant.Client {
	return q.api
}

// HealthCheck calls the service's health endpoint and reports latency and
// server version.
func (q *Qdrant) HealthCheck(ctx context.Context) provider.HealthStatus {
	start := time.Now()
	status := provider.HealthStatus{CheckedAt: start}

	resp, err := q.api.HealthCheck(ctx)
	status.Latency = time.Since(start)
	if err != nil {
		status.Error = err.Error()
		return status
	}

	status.Healthy = true
	status.Details = map[string]interface{}{
		"title":   resp.GetTitle(),
		"version": resp.GetVersion(),
	}
	return status
}

// Stats returns the provider's operation counters.
func (q *Qdrant) Stats() provider.Stats {
	return provider.Stats{
		Searches: q.searches.Load(),
		Writes:   q.writes.Load(),
		Errors:   q.errs.Load(),
	}
}

// Close gracefully shuts down the provider. The official Qdrant Go SDK does
// not maintain persistent connections, so this closes the gRPC channel only.
func (q *Qdrant) Close() error {
	if q.api == nil {
		return nil
	}
	return q.api.Close()
}

// collectionName maps an index to its backing collection.
func (q *Qdrant) collectionName(index string) (string, error) {
	if index == "" {
		return "", provider.ErrIndexRequired
	}
	if !indexNamePattern.MatchString(index) {
		return "", fmt.Errorf("index name must contain only letters, digits, underscores and hyphens: %q", index)
	}
	return q.cfg.CollectionPrefix + index, nil
}

func (q *Qdrant) observe(operation, resource string, duration time.Duration, err error, size int64) {
	if q.observer == nil {
		return
	}
	q.observer.ObserveOperation(observability.OperationContext{
		Component: "qdrant",
		Operation: operation,
		Resource:  resource,
		Duration:  duration,
		Error:     err,
		Size:      size,
	})
}

// compile-time interface checks
var (
	_ provider.SearchProvider = (*Qdrant)(nil)
	_ provider.StatsReporter  = (*Qdrant)(nil)
)
