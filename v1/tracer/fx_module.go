package tracer

import (
	"context"

	"go.uber.org/fx"
)

// FXModule configures distributed tracing for an fx application. It provides
// the Tracer client together with its span-emitting Observer, and registers
// a shutdown hook that flushes pending spans to the exporter on termination.
//
// The Observer is provided as the concrete *Observer; the metrics module
// already binds the observability.Observer interface, so applications wanting
// both combine them with observability.Multi.
//
// Usage:
//
//	app := fx.New(
//	    tracer.FXModule,
//	    fx.Supply(tracer.Config{ServiceName: "smartsearch", EnableExport: true}),
//	    // other modules...
//	)
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClient,
		NewObserver,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// RegisterTracerLifecycle registers the shutdown hook for the tracer.
// Invoked automatically by FXModule.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if tracer == nil || tracer.tracer == nil {
				return nil
			}
			if tracer.logger != nil {
				tracer.logger.Info("shutting down tracer", nil, nil)
			}
			return tracer.tracer.Shutdown(ctx)
		},
	})
}
