package postgres

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/samas-io/smartsearch/v1/observability"
	"github.com/samas-io/smartsearch/v1/provider"
)

// Postgres is a full-text search provider backed by PostgreSQL. Each index
// maps to one table (TablePrefix + index) holding documents with a tsvector
// expression index over the content column.
//
// Concurrency: the active *gorm.DB pointer is stored in an atomic pointer and
// can be swapped during reconnection without blocking readers.
type Postgres struct {
	cfg             Config
	client          atomic.Pointer[gorm.DB]
	shutdownSignal  chan struct{}
	retryChanSignal chan error

	closeRetryChanOnce sync.Once
	closeShutdownOnce  sync.Once

	observer observability.Observer

	searches atomic.Int64
	writes   atomic.Int64
	errs     atomic.Int64
}

var indexNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// NewPostgres creates a new Postgres search provider with the provided
// configuration. It establishes the initial database connection and sets up
// the internal state for connection monitoring and recovery.
//
// Returns *Postgres concrete type (following Go best practice: "accept interfaces, return structs").
func NewPostgres(cfg Config) (*Postgres, error) {
	cfg = cfg.withDefaults()

	conn, err := connectToPostgres(cfg)
	if err != nil {
		return nil, fmt.Errorf("error in connecting to postgres after all retries: %w", err)
	}

	pg := &Postgres{
		cfg:             cfg,
		shutdownSignal:  make(chan struct{}),
		retryChanSignal: make(chan error, 1),
	}
	pg.client.Store(conn)
	return pg, nil
}

// WithObserver sets the observer and returns the provider for method chaining.
func (p *Postgres) WithObserver(observer observability.Observer) *Postgres {
	p.observer = observer
	return p
}

// Name returns the provider identifier "postgres".
func (p *Postgres) Name() string {
	return "postgres"
}

// DB returns the current *gorm.DB for advanced use cases. The pointer may be
// swapped by the reconnection loop; do not cache it across calls.
func (p *Postgres) DB() *gorm.DB {
	return p.client.Load()
}

// connectToPostgres establishes a connection to the PostgreSQL database using
// the provided configuration, then configures the connection pool.
func connectToPostgres(cfg Config) (*gorm.DB, error) {
	pgConnStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Connection.Host,
		cfg.Connection.Port,
		cfg.Connection.User,
		cfg.Connection.Password,
		cfg.Connection.DbName,
		cfg.Connection.SSLMode)

	database, err := gorm.Open(
		postgres.Open(pgConnStr),
		&gorm.Config{
			TranslateError: true,
		})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	databaseInstance, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get PostgreSQL database instance: %w", err)
	}

	databaseInstance.SetMaxOpenConns(cfg.ConnectionDetails.MaxOpenConns)
	databaseInstance.SetMaxIdleConns(cfg.ConnectionDetails.MaxIdleConns)
	databaseInstance.SetConnMaxLifetime(cfg.ConnectionDetails.ConnMaxLifetime)

	if cfg.Logger != nil {
		cfg.Logger.Info("connected to PostgreSQL database", nil, map[string]interface{}{
			"host": cfg.Connection.Host,
			"db":   cfg.Connection.DbName,
		})
	}

	return database, nil
}

// RetryConnection continuously attempts to reconnect to the PostgreSQL
// database when notified of a connection failure. It operates as a goroutine
// that waits for signals on retryChanSignal before attempting reconnection.
//
// It implements two nested loops:
// - The outer loop waits for retry signals
// - The inner loop attempts reconnection until successful
func (p *Postgres) RetryConnection(ctx context.Context) {
outerLoop:
	for {
		select {
		case <-p.shutdownSignal:
			return
		case <-ctx.Done():
			return
		case <-p.retryChanSignal:
		innerLoop:
			for {
				select {
				case <-p.shutdownSignal:
					return
				case <-ctx.Done():
					return
				default:
					newConn, err := connectToPostgres(p.cfg)
					if err != nil {
						if p.cfg.Logger != nil {
							p.cfg.Logger.Error("PostgreSQL reconnection failed", err)
						}
						time.Sleep(time.Second)
						continue innerLoop
					}
					p.client.Store(newConn)
					if p.cfg.Logger != nil {
						p.cfg.Logger.Info("successfully reconnected to PostgreSQL database", nil)
					}
					continue outerLoop
				}
			}
		}
	}
}

// MonitorConnection periodically checks the health of the database connection
// and signals the RetryConnection goroutine when a failure is detected.
func (p *Postgres) MonitorConnection(ctx context.Context) {
	defer p.closeRetryChanOnce.Do(func() {
		close(p.retryChanSignal)
	})

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-p.shutdownSignal:
			return
		case <-ticker.C:
			if err := p.ping(); err != nil {
				select {
				case p.retryChanSignal <- err:
				default:
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// ping snapshots the current *gorm.DB and pings it with a 5 second timeout.
func (p *Postgres) ping() error {
	dbConn := p.DB()
	if dbConn == nil {
		return fmt.Errorf("database client is not initialized")
	}

	db, err := dbConn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance during health check: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed during health check: %w", err)
	}

	return nil
}

// HealthCheck pings the database and reports latency and pool statistics.
func (p *Postgres) HealthCheck(ctx context.Context) provider.HealthStatus {
	start := time.Now()
	status := provider.HealthStatus{CheckedAt: start}

	dbConn := p.DB()
	if dbConn == nil {
		status.Error = "database client is not initialized"
		return status
	}
	db, err := dbConn.DB()
	if err != nil {
		status.Error = err.Error()
		return status
	}
	if err := db.PingContext(ctx); err != nil {
		status.Latency = time.Since(start)
		status.Error = err.Error()
		return status
	}

	poolStats := db.Stats()
	status.Healthy = true
	status.Latency = time.Since(start)
	status.Details = map[string]interface{}{
		"open_connections": poolStats.OpenConnections,
		"in_use":           poolStats.InUse,
		"idle":             poolStats.Idle,
	}
	return status
}

// Stats returns the provider's operation counters.
func (p *Postgres) Stats() provider.Stats {
	return provider.Stats{
		Searches: p.searches.Load(),
		Writes:   p.writes.Load(),
		Errors:   p.errs.Load(),
	}
}

// Close stops the monitoring goroutines and closes the database connection.
func (p *Postgres) Close() error {
	p.closeShutdownOnce.Do(func() {
		close(p.shutdownSignal)
	})

	dbConn := p.DB()
	if dbConn == nil {
		return nil
	}
	sqlDB, err := dbConn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// tableName maps an index to its backing table. Index names are restricted to
// identifier-safe characters because the table name is interpolated into DDL.
func (p *Postgres) tableName(index string) (string, error) {
	if index == "" {
		return "", provider.ErrIndexRequired
	}
	if !indexNamePattern.MatchString(index) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIndexName, index)
	}
	return p.cfg.TablePrefix + index, nil
}

func (p *Postgres) observe(operation, resource string, duration time.Duration, err error, size int64) {
	if p.observer == nil {
		return
	}
	p.observer.ObserveOperation(observability.OperationContext{
		Component: "postgres",
		Operation: operation,
		Resource:  resource,
		Duration:  duration,
		Error:     err,
		Size:      size,
	})
}

// compile-time interface checks
var (
	_ provider.SearchProvider = (*Postgres)(nil)
	_ provider.Suggester      = (*Postgres)(nil)
	_ provider.StatsReporter  = (*Postgres)(nil)
)
