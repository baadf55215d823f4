package qdrant

import (
	"context"

	"go.uber.org/fx"

	"github.com/samas-io/smartsearch/v1/observability"
	"github.com/samas-io/smartsearch/v1/provider"
)

// FXModule is an fx module that provides the Qdrant search provider.
// An Embedder must be available in the dependency graph.
var FXModule = fx.Module("qdrant",
	fx.Provide(
		NewQdrantWithDI,
		fx.Annotate(
			func(q *Qdrant) provider.SearchProvider { return q },
			fx.As(new(provider.SearchProvider)),
		),
	),
	fx.Invoke(RegisterQdrantLifecycle),
)

// QdrantParams groups the dependencies needed to create the provider via
// dependency injection.
type QdrantParams struct {
	fx.In

	Config   Config
	Embedder Embedder               `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewQdrantWithDI creates the Qdrant search provider for use with Uber's fx
// dependency injection framework.
func NewQdrantWithDI(params QdrantParams) (*Qdrant, error) {
	q, err := NewQdrant(params.Config)
	if err != nil {
		return nil, err
	}
	if params.Embedder != nil {
		q = q.WithEmbedder(params.Embedder)
	}
	if params.Observer != nil {
		q = q.WithObserver(params.Observer)
	}
	return q, nil
}

// RegisterQdrantLifecycle closes the gRPC channel on application shutdown.
func RegisterQdrantLifecycle(lc fx.Lifecycle, q *Qdrant) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return q.Close()
		},
	})
}
