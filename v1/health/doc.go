// Package health runs periodic health checks against registered smartsearch
// providers and keeps the latest status snapshot for strategy routing.
//
// The search core consults the monitor on every request under the automatic
// strategy: an unhealthy cache means "go straight to the database", an
// unhealthy database means "prefer the cache".
//
// # Usage
//
//	mon := health.NewMonitor(health.Config{CheckInterval: 10 * time.Second})
//	mon.Register("postgres", db.HealthCheck)
//	mon.Register("redis", cache.HealthCheck)
//	mon.Start(ctx)
//	defer mon.Stop()
//
//	if mon.Healthy("redis") {
//	    // cache-aside
//	}
//
// Subscribe returns a channel receiving a StatusChange whenever a provider
// flips between healthy and unhealthy. The channel is buffered; slow
// consumers lose intermediate flips, never the monitor.
//
// # FX Module Integration
//
//	app := fx.New(
//	    health.FXModule,
//	    fx.Provide(func() health.Config { return health.Config{} }),
//	)
//
// The fx lifecycle starts the check loop on application start and stops it on
// shutdown.
package health
