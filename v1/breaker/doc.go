// Package breaker implements the circuit breaker protecting smartsearch
// database and cache providers.
//
// A Breaker wraps calls to one backend. While the backend is healthy the
// breaker stays Closed and calls pass through. After a run of consecutive
// failures it Opens: calls fail fast with ErrCircuitOpen instead of piling
// onto a struggling dependency. After a cooldown the breaker admits a limited
// number of probe calls (HalfOpen); enough successes close it again, any
// probe failure re-opens it and re-arms the cooldown.
//
// # Direct Usage
//
//	b := breaker.New(breaker.Config{Name: "postgres"})
//
//	err := b.Execute(ctx, func(ctx context.Context) error {
//	    _, err := db.Search(ctx, index, query, opts)
//	    return err
//	})
//	if errors.Is(err, breaker.ErrCircuitOpen) {
//	    // route to the cache instead
//	}
//
// Allow/RecordSuccess/RecordFailure are exposed for callers that need the
// result value and cannot use the closure form.
//
// # Manager
//
// The search core keeps one breaker per provider through a Manager:
//
//	mgr := breaker.NewManager(breaker.Config{})
//	pg := mgr.GetOrCreate("postgres")
//	rd := mgr.GetOrCreate("redis")
//
// Manager.Snapshot reports every breaker's state for health endpoints and
// metrics.
//
// # FX Module Integration
//
//	app := fx.New(
//	    breaker.FXModule,
//	    fx.Provide(func() breaker.Config { return breaker.Config{} }),
//	)
//
// # Failure Classification
//
// context.Canceled does not count as a backend failure: the caller walked
// away, the backend did nothing wrong. context.DeadlineExceeded does count.
package breaker
