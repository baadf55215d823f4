package breaker

import "go.uber.org/fx"

// FXModule is an fx.Module that provides the breaker Manager.
// The Manager carries no external resources, so no lifecycle hooks are needed.
//
// Usage:
//
//	app := fx.New(
//	    breaker.FXModule,
//	    fx.Provide(func() breaker.Config { return breaker.Config{} }),
//	    // other modules...
//	)
var FXModule = fx.Module("breaker",
	fx.Provide(
		NewManagerWithDI,
	),
)

// ManagerParams groups the dependencies needed to create a breaker Manager.
type ManagerParams struct {
	fx.In

	Config Config
	Logger Logger `optional:"true"` // Optional logger from v1/logger
}

// NewManagerWithDI creates a breaker Manager using dependency injection.
// The optional logger is injected into the default breaker configuration
// before delegating to NewManager.
func NewManagerWithDI(params ManagerParams) *Manager {
	if params.Logger != nil {
		params.Config.Logger = params.Logger
	}
	return NewManager(params.Config)
}
