// Package postgres provides a full-text search provider backed by PostgreSQL.
//
// Each search index maps to one table named TablePrefix + index with a fixed
// row shape (id, content, fields JSONB, tags JSONB, updated_at) and a GIN
// expression index over to_tsvector(content). Queries are ranked with
// ts_rank; when the full-text match yields nothing, the provider falls back
// to an ILIKE substring scan so partial words still return results.
//
// # Architecture
//
// The provider keeps its *gorm.DB behind an atomic pointer. A monitor
// goroutine pings the database every 10 seconds and hands failures to a retry
// goroutine that reconnects and swaps the pointer, so in-flight readers are
// never blocked by recovery.
//
// # Direct Usage
//
//	pg, err := postgres.NewPostgres(postgres.Config{
//	    Connection: postgres.Connection{
//	        Host:   "localhost",
//	        Port:   "5432",
//	        User:   "search",
//	        DbName: "search",
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//	defer pg.Close()
//
//	resp, err := pg.Search(ctx, "articles", "distributed consensus", provider.SearchOptions{Limit: 20})
//
// # FX Module Integration
//
//	app := fx.New(
//	    fx.Provide(func() postgres.Config { return loadConfig() }),
//	    postgres.FXModule,
//	)
//
// The fx module exposes the provider as provider.SearchProvider and wires the
// monitor and retry goroutines into the application lifecycle.
//
// # Observability
//
// Attach an observability.Observer with WithObserver to receive one
// OperationContext per search, index and delete call.
package postgres
