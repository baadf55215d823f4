package postgres

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/samas-io/smartsearch/v1/observability"
	"github.com/samas-io/smartsearch/v1/provider"
)

// FXModule is an fx module that provides the PostgreSQL search provider.
// It registers the constructor for dependency injection and sets up
// lifecycle hooks for connection monitoring and graceful shutdown.
//
// This module exposes provider.SearchProvider, not the *Postgres concrete type.
var FXModule = fx.Module("postgres",
	fx.Provide(
		NewPostgresWithDI,
		fx.Annotate(
			func(pg *Postgres) provider.SearchProvider { return pg },
			fx.As(new(provider.SearchProvider)),
		),
	),
	fx.Invoke(RegisterPostgresLifecycle),
)

// PostgresParams groups the dependencies needed to create the provider via
// dependency injection.
type PostgresParams struct {
	fx.In

	Config   Config
	Observer observability.Observer `optional:"true"`
}

// NewPostgresWithDI creates the PostgreSQL search provider for use with
// Uber's fx dependency injection framework.
//
// Example usage with fx:
//
//	app := fx.New(
//	    postgres.FXModule,
//	    fx.Provide(func() postgres.Config {
//	        return loadPostgresConfig()
//	    }),
//	)
func NewPostgresWithDI(params PostgresParams) (*Postgres, error) {
	pg, err := NewPostgres(params.Config)
	if err != nil {
		return nil, err
	}
	if params.Observer != nil {
		pg = pg.WithObserver(params.Observer)
	}
	return pg, nil
}

// PostgresLifeCycleParams groups the dependencies needed for lifecycle
// management of the provider within an fx application.
type PostgresLifeCycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Postgres  *Postgres
}

// RegisterPostgresLifecycle registers lifecycle hooks for the provider:
// connection monitoring and automatic reconnection on start, graceful
// shutdown of database connections on stop.
func RegisterPostgresLifecycle(params PostgresLifeCycleParams) {
	wg := &sync.WaitGroup{}
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(1)
			go func() {
				defer wg.Done()
				params.Postgres.MonitorConnection(context.Background())
			}()

			wg.Add(1)
			go func() {
				defer wg.Done()
				params.Postgres.RetryConnection(context.Background())
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			err := params.Postgres.Close()
			wg.Wait()
			return err
		},
	})
}
