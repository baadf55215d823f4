package governance

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// FXModule provides the governance engine with a zap audit sink.
// Supply an ArchiverConfig and add ArchiverFXModule to also archive audit
// records to object storage.
var FXModule = fx.Module("governance",
	fx.Provide(NewEngineWithDI),
)

// ArchiverFXModule provides the object-storage audit archiver and manages
// its flush loop through the application lifecycle.
var ArchiverFXModule = fx.Module("governance_archiver",
	fx.Provide(
		NewArchiver,
		fx.Annotate(
			func(a *Archiver) Sink { return a },
			fx.ResultTags(`group:"audit_sinks"`),
		),
	),
	fx.Invoke(RegisterArchiverLifecycle),
)

// EngineParams groups the dependencies needed to create the engine via
// dependency injection.
type EngineParams struct {
	fx.In

	Config Config
	Zap    *zap.Logger `optional:"true"`
	Sinks  []Sink      `group:"audit_sinks"`
}

// NewEngineWithDI creates the governance engine for use with Uber's fx
// dependency injection framework. A zap logger in the graph becomes a
// structured audit sink; additional sinks join via the "audit_sinks" group.
func NewEngineWithDI(params EngineParams) *Engine {
	sinks := params.Sinks
	if params.Zap != nil {
		sinks = append(sinks, NewZapSink(params.Zap))
	}
	return NewEngine(params.Config, sinks...)
}

// RegisterArchiverLifecycle starts the archiver's flush loop on application
// start and drains it on stop.
func RegisterArchiverLifecycle(lc fx.Lifecycle, archiver *Archiver) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return archiver.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return archiver.Stop(ctx)
		},
	})
}
