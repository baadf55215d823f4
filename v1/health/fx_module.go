package health

import (
	"context"

	"go.uber.org/fx"
)

// FXModule is an fx.Module that provides the health Monitor and manages its
// check loop lifecycle.
//
// Usage:
//
//	app := fx.New(
//	    health.FXModule,
//	    fx.Provide(func() health.Config { return health.Config{} }),
//	)
//
// Providers are registered by whichever component composes them (typically
// the search core) before the application starts.
var FXModule = fx.Module("health",
	fx.Provide(
		NewMonitorWithDI,
	),
	fx.Invoke(RegisterMonitorLifecycle),
)

// MonitorParams groups the dependencies needed to create a health Monitor.
type MonitorParams struct {
	fx.In

	Config Config
	Logger Logger `optional:"true"` // Optional logger from v1/logger
}

// NewMonitorWithDI creates a health Monitor using dependency injection.
func NewMonitorWithDI(params MonitorParams) *Monitor {
	if params.Logger != nil {
		params.Config.Logger = params.Logger
	}
	return NewMonitor(params.Config)
}

// RegisterMonitorLifecycle starts the check loop on application start and
// stops it on shutdown.
func RegisterMonitorLifecycle(lc fx.Lifecycle, m *Monitor) {
	loopCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			m.Start(loopCtx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			m.Stop()
			return nil
		},
	})
}
