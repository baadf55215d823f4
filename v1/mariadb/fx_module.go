package mariadb

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/samas-io/smartsearch/v1/observability"
	"github.com/samas-io/smartsearch/v1/provider"
)

// FXModule is an fx module that provides the MariaDB search provider.
// It registers the constructor for dependency injection and sets up
// lifecycle hooks for connection monitoring and graceful shutdown.
var FXModule = fx.Module("mariadb",
	fx.Provide(
		NewMariaDBWithDI,
		fx.Annotate(
			func(m *MariaDB) provider.SearchProvider { return m },
			fx.As(new(provider.SearchProvider)),
		),
	),
	fx.Invoke(RegisterMariaDBLifecycle),
)

// MariaDBParams groups the dependencies needed to create the provider via
// dependency injection.
type MariaDBParams struct {
	fx.In

	Config   Config
	Observer observability.Observer `optional:"true"`
}

// NewMariaDBWithDI creates the MariaDB search provider for use with Uber's
// fx dependency injection framework.
func NewMariaDBWithDI(params MariaDBParams) (*MariaDB, error) {
	m, err := NewMariaDB(params.Config)
	if err != nil {
		return nil, err
	}
	if params.Observer != nil {
		m = m.WithObserver(params.Observer)
	}
	return m, nil
}

// MariaDBLifeCycleParams groups the dependencies needed for lifecycle
// management of the provider within an fx application.
type MariaDBLifeCycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	MariaDB   *MariaDB
}

// RegisterMariaDBLifecycle registers lifecycle hooks for the provider:
// connection monitoring and automatic reconnection on start, graceful
// shutdown of database connections on stop.
func RegisterMariaDBLifecycle(params MariaDBLifeCycleParams) {
	wg := &sync.WaitGroup{}
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(1)
			go func() {
				defer wg.Done()
				params.MariaDB.MonitorConnection(context.Background())
			}()

			wg.Add(1)
			go func() {
				defer wg.Done()
				params.MariaDB.RetryConnection(context.Background())
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			err := params.MariaDB.Close()
			wg.Wait()
			return err
		},
	})
}
