package config

import (
	"go.uber.org/fx"

	"github.com/samas-io/smartsearch/v1/breaker"
	"github.com/samas-io/smartsearch/v1/events"
	"github.com/samas-io/smartsearch/v1/governance"
	"github.com/samas-io/smartsearch/v1/health"
	"github.com/samas-io/smartsearch/v1/logger"
	"github.com/samas-io/smartsearch/v1/metrics"
	"github.com/samas-io/smartsearch/v1/search"
	"github.com/samas-io/smartsearch/v1/tracer"
)

// FXModule splits a loaded Config into the per-package configuration structs
// the other smartsearch modules consume. Supply the Config itself, e.g.:
//
//	cfg := config.MustLoad("config/production.yaml")
//	app := fx.New(
//	    fx.Supply(cfg),
//	    config.FXModule,
//	    logger.FXModule,
//	    postgres.FXModule,
//	    // ...
//	)
//
// Backend providers are not constructed here; use the backend FX modules
// with the extracted configs, or call NewSearchProvider/NewCacheProvider
// directly when wiring by hand.
var FXModule = fx.Module("config",
	fx.Provide(
		func(c Config) logger.Config { return c.Logger },
		func(c Config) metrics.Config { return c.Metrics },
		func(c Config) tracer.Config { return c.Tracer },
		func(c Config) DatabaseConfig { return c.Database },
		func(c Config) CacheConfig { return c.Cache },
		func(c Config) breaker.Config { return c.Breaker },
		func(c Config) health.Config { return c.Health },
		func(c Config) governance.Config { return c.Governance },
		func(c Config) events.Config { return c.Events },
		func(c Config) search.Config { return c.Search },
	),
)
