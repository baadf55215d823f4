package search

import (
	"go.uber.org/fx"

	"github.com/samas-io/smartsearch/v1/breaker"
	"github.com/samas-io/smartsearch/v1/events"
	"github.com/samas-io/smartsearch/v1/governance"
	"github.com/samas-io/smartsearch/v1/health"
	"github.com/samas-io/smartsearch/v1/observability"
	"github.com/samas-io/smartsearch/v1/provider"
)

// FXModule provides the search core. Backend lifecycles (database
// connections, cache clients, publishers) stay with their own modules;
// the core does not close them on shutdown when assembled through fx.
var FXModule = fx.Module("search",
	fx.Provide(ProvideSmartSearch),
)

// SearchParams defines the dependencies for creating the search core.
// Everything beyond the primary provider is optional.
type SearchParams struct {
	fx.In

	Config      Config
	Primary     provider.SearchProvider
	Secondaries []provider.SearchProvider `group:"secondary_providers"`
	Cache       provider.CacheProvider    `optional:"true"`
	Breakers    *breaker.Manager          `optional:"true"`
	Health      *health.Monitor           `optional:"true"`
	Governance  *governance.Engine        `optional:"true"`
	Publisher   events.Publisher          `optional:"true"`
	Observer    observability.Observer    `optional:"true"`
	Monitor     SearchMonitor             `optional:"true"`
}

// ProvideSmartSearch creates the search core for dependency injection
func ProvideSmartSearch(params SearchParams) (*SmartSearch, error) {
	core, err := New(params.Config, params.Primary)
	if err != nil {
		return nil, err
	}
	if len(params.Secondaries) > 0 {
		core = core.WithSecondaries(params.Secondaries...)
	}
	if params.Cache != nil {
		core = core.WithCache(params.Cache)
	}
	if params.Breakers != nil {
		core = core.WithBreakers(params.Breakers)
	}
	if params.Governance != nil {
		core = core.WithGovernance(params.Governance)
	}
	if params.Publisher != nil {
		core = core.WithPublisher(params.Publisher)
	}
	if params.Observer != nil {
		core = core.WithObserver(params.Observer)
	}
	if params.Monitor != nil {
		core = core.WithMonitor(params.Monitor)
	}
	// Health registration must run after the cache and secondaries are
	// attached so every backend lands in the check rotation.
	if params.Health != nil {
		core = core.WithHealth(params.Health)
	}
	return core, nil
}
