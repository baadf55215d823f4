package mariadb

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/samas-io/smartsearch/v1/observability"
	"github.com/samas-io/smartsearch/v1/provider"
)

// MariaDB is a thread-safe full-text search provider backed by MariaDB/MySQL.
// Each index maps to one table (TablePrefix + index) carrying a FULLTEXT
// index over the content column. The active connection is guarded by a mutex
// so it can be replaced during reconnection.
type MariaDB struct {
	client          *gorm.DB
	cfg             Config
	mu              sync.RWMutex
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

// NewMariaDB creates a new MariaDB search provider with the provided
// configuration. It establishes the initial database connection and sets up
// the internal state for connection monitoring and recovery.
func NewMariaDB(cfg Config) (*MariaDB, error) {
	cfg = cfg.withDefaults()

	conn, err := connectToMariaDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("error in connecting to MariaDB after all retries: %w", err)
	}

	return &MariaDB{
		client:          conn,
		cfg:             cfg,
		shutdownSignal:  make(chan struct{}),
		retryChanSignal: make(chan error, 1),
	}, nil
}

// WithObserver sets the observer and returns the provider for method chaining.
func (m *MariaDB) WithObserver(observer observability.Observer) *MariaDB {
	m.observer = observer
	return m
}

// Name returns the provider identifier "mariadb".
func (m *MariaDB) Name() string {
	return "mariadb"
}

// DB returns the current *gorm.DB for advanced use cases.
func (m *MariaDB) DB() *gorm.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client
}

// connectToMariaDB establishes a connection to the MariaDB/MySQL database
// using the provided configuration, then configures the connection pool.
func connectToMariaDB(cfg Config) (*gorm.DB, error) {
	parseTime := "True"
	if !cfg.Connection.ParseTime {
		parseTime = "False"
	}

	// Format: username:password@tcp(host:port)/dbname?param=value
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=%s&loc=%s",
		cfg.Connection.User,
		cfg.Connection.Password,
		cfg.Connection.Host,
		cfg.Connection.Port,
		cfg.Connection.DbName,
		cfg.Connection.Charset,
		parseTime,
		cfg.Connection.Loc,
	)

	if cfg.Connection.TLS != "" {
		dsn += "&tls=" + cfg.Connection.TLS
	}
	if cfg.Connection.Timeout != "" {
		dsn += "&timeout=" + cfg.Connection.Timeout
	}
	if cfg.Connection.ReadTimeout != "" {
		dsn += "&readTimeout=" + cfg.Connection.ReadTimeout
	}
	if cfg.Connection.WriteTimeout != "" {
		dsn += "&writeTimeout=" + cfg.Connection.WriteTimeout
	}

	database, err := gorm.Open(
		mysql.Open(dsn),
		&gorm.Config{
			TranslateError: true,
		})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to MariaDB/MySQL database: %w", err)
	}

	databaseInstance, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get MariaDB/MySQL database instance: %w", err)
	}

	databaseInstance.SetMaxOpenConns(cfg.ConnectionDetails.MaxOpenConns)
	databaseInstance.SetMaxIdleConns(cfg.ConnectionDetails.MaxIdleConns)
	databaseInstance.SetConnMaxLifetime(cfg.ConnectionDetails.ConnMaxLifetime)

	if cfg.Logger != nil {
		cfg.Logger.Info("connected to MariaDB database", nil, map[string]interface{}{
			"host": cfg.Connection.Host,
			"db":   cfg.Connection.DbName,
		})
	}

	return database, nil
}

// RetryConnection continuously attempts to reconnect to the database when
// notified of a connection failure.
func (m *MariaDB) RetryConnection(ctx context.Context) {
outerLoop:
	for {
		select {
		case <-m.shutdownSignal:
			return
		case <-ctx.Done():
			return
		case <-m.retryChanSignal:
		innerLoop:
			for {
				select {
				case <-m.shutdownSignal:
					return
				case <-ctx.Done():
					return
				default:
					newConn, err := connectToMariaDB(m.cfg)
					if err != nil {
						if m.cfg.Logger != nil {
							m.cfg.Logger.Error("MariaDB reconnection failed", err)
						}
						time.Sleep(time.Second)
						continue innerLoop
					}
					m.mu.Lock()
					m.client = newConn
					m.mu.Unlock()
					if m.cfg.Logger != nil {
						m.cfg.Logger.Info("successfully reconnected to MariaDB database", nil)
					}
					continue outerLoop
				}
			}
		}
	}
}

// MonitorConnection periodically checks the health of the database connection
// and signals the RetryConnection goroutine when a failure is detected.
func (m *MariaDB) MonitorConnection(ctx context.Context) {
	defer m.closeRetryChanOnce.Do(func() {
		close(m.retryChanSignal)
	})

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-m.shutdownSignal:
			return
		case <-ticker.C:
			if err := m.ping(); err != nil {
				select {
				case m.retryChanSignal <- err:
				default:
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

func (m *MariaDB) ping() error {
	dbConn := m.DB()
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
func (m *MariaDB) HealthCheck(ctx context.Context) provider.HealthStatus {
	start := time.Now()
	status := provider.HealthStatus{CheckedAt: start}

	dbConn := m.DB()
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
func (m *MariaDB) Stats() provider.Stats {
	return provider.Stats{
		Searches: m.searches.Load(),
		Writes:   m.writes.Load(),
		Errors:   m.errs.Load(),
	}
}

// Close stops the monitoring goroutines and closes the database connection.
func (m *MariaDB) Close() error {
	m.closeShutdownOnce.Do(func() {
		close(m.shutdownSignal)
	})

	dbConn := m.DB()
	if dbConn == nil {
		return nil
	}
	sqlDB, err := dbConn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (m *MariaDB) tableName(index string) (string, error) {
	if index == "" {
		return "", provider.ErrIndexRequired
	}
	if !indexNamePattern.MatchString(index) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIndexName, index)
	}
	return m.cfg.TablePrefix + index, nil
}

func (m *MariaDB) observe(operation, resource string, duration time.Duration, err error, size int64) {
	if m.observer == nil {
		return
	}
	m.observer.ObserveOperation(observability.OperationContext{
		Component: "mariadb",
		Operation: operation,
		Resource:  resource,
		Duration:  duration,
		Error:     err,
		Size:      size,
	})
}

// compile-time interface checks
var (
	_ provider.SearchProvider = (*MariaDB)(nil)
	_ provider.Suggester      = (*MariaDB)(nil)
	_ provider.StatsReporter  = (*MariaDB)(nil)
)
