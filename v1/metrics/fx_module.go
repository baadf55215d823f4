package metrics

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"

	"github.com/samas-io/smartsearch/v1/logger"
	"github.com/samas-io/smartsearch/v1/observability"
)

// FXModule integrates the Prometheus metrics server into an fx application.
//
// The module:
//  1. Provides the NewMetrics factory and the MetricsCollector interface.
//  2. Provides NewObserver as the observability.Observer every other
//     smartsearch module picks up optionally.
//  3. Invokes RegisterMetricsLifecycle to start and stop the HTTP server.
//
// Usage:
//
//	app := fx.New(
//	    metrics.FXModule,
//	    fx.Provide(func() metrics.Config {
//	        return metrics.Config{
//	            Address:                 ":9090",
//	            EnableDefaultCollectors: true,
//	            ServiceName:             "smartsearch",
//	        }
//	    }),
//	    // other modules...
//	)
var FXModule = fx.Module("metrics",
	fx.Provide(
		NewMetrics,
		func(m *Metrics) MetricsCollector { return m },
		NewObserver,
		func(o *Observer) observability.Observer { return o },
	),
	fx.Invoke(RegisterMetricsLifecycle),
)

// MetricsParams defines the dependencies for the lifecycle registration.
type MetricsParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Metrics   *Metrics
	Log       *logger.Logger `optional:"true"`
}

// RegisterMetricsLifecycle manages the startup and shutdown lifecycle of the
// Prometheus metrics HTTP server.
//
// OnStart launches the server in a background goroutine; OnStop shuts it
// down gracefully. Invoked automatically by FXModule.
func RegisterMetricsLifecycle(params MetricsParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if params.Log != nil {
					params.Log.Info("starting prometheus metrics server", nil, map[string]interface{}{
						"address": params.Metrics.Server.Addr,
					})
				}
				err := params.Metrics.Server.ListenAndServe()
				if err != nil && !errors.Is(err, http.ErrServerClosed) && params.Log != nil {
					params.Log.Error("metrics server failed", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if params.Log != nil {
				params.Log.Info("shutting down prometheus metrics server", nil, nil)
			}
			return params.Metrics.Server.Shutdown(ctx)
		},
	})
}
