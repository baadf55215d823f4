// Package search is the core of smartsearch: it routes requests between a
// primary database provider, optional secondary providers, and an optional
// cache, with per-backend circuit breakers, cache-aside population, data
// governance, and index-change events.
//
// # Architecture
//
// A SmartSearch instance composes the other smartsearch packages:
//
//   - provider.SearchProvider implementations (postgres, mariadb, qdrant)
//     answer queries and take writes
//   - provider.CacheProvider implementations (redis, memory) store responses
//   - breaker.Manager keeps one circuit per backend so a failing database
//     cannot take cache reads down with it
//   - health.Monitor feeds StrategyAuto's routing decisions
//   - governance.Engine masks and filters responses per actor
//   - events.Publisher tells other nodes to drop stale cache entries
//
// # Strategies
//
// Each request runs under one of four routing strategies, chosen per request
// via SearchOptions.Strategy or configured as the default:
//
//   - StrategyAuto: cache-aside while the cache is healthy; a stale cached
//     copy is served when every database route is down
//   - StrategyCacheFirst: cache-aside regardless of health signals
//   - StrategyDatabaseOnly: bypasses the cache
//   - StrategyHybrid: queries all providers concurrently and fuses their
//     rankings with reciprocal rank fusion
//
// # Direct Usage
//
//	pg, err := postgres.NewPostgres(pgConfig)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rd, err := redis.NewClient(redisConfig)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	core, err := search.New(search.Config{}, pg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	core.WithCache(rd)
//
//	resp, err := core.Search(ctx, "articles", "circuit breakers", provider.SearchOptions{Limit: 20})
//
// # FX Module Integration
//
//	app := fx.New(
//	    fx.Supply(pgConfig, redisConfig, search.Config{}),
//	    postgres.FXModule,
//	    redis.FXModule,
//	    search.FXModule,
//	    fx.Invoke(func(core *search.SmartSearch) { ... }),
//	)
//
// # Caching
//
// Cached responses are keyed by index, query, and the normalized options;
// when a governance engine is attached the actor's roles join the key so a
// masked view is never served across roles. Every entry is tagged with its
// index. Index, Delete, and incoming events invalidate by tag. Alongside
// each fresh entry a longer-lived stale copy is kept; StrategyAuto serves it
// when the database circuits are open.
package search
