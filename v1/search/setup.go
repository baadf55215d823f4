package search

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/samas-io/smartsearch/v1/breaker"
	"github.com/samas-io/smartsearch/v1/events"
	"github.com/samas-io/smartsearch/v1/governance"
	"github.com/samas-io/smartsearch/v1/health"
	"github.com/samas-io/smartsearch/v1/observability"
	"github.com/samas-io/smartsearch/v1/provider"
)

// SmartSearch routes search requests between a database provider, optional
// secondary providers, and an optional cache, with per-backend circuit
// breakers and cache-aside population.
//
// Construct with New, then attach optional collaborators with the With*
// methods before serving requests:
//
//	core, err := search.New(search.Config{}, pg)
//	if err != nil { ... }
//	core.WithCache(rd).WithGovernance(engine)
type SmartSearch struct {
	cfg Config

	primary     provider.SearchProvider
	secondaries []provider.SearchProvider
	cache       provider.CacheProvider

	breakers  *breaker.Manager
	health    *health.Monitor
	engine    *governance.Engine
	publisher events.Publisher
	observer  observability.Observer
	monitor   SearchMonitor
	logger    Logger

	// flight collapses concurrent identical cache misses into one
	// database query.
	flight singleflight.Group

	searches    atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	errs        atomic.Int64
}

// New creates the search core around a primary database provider.
// Zero-valued config fields fall back to package defaults.
func New(cfg Config, primary provider.SearchProvider) (*SmartSearch, error) {
	if primary == nil {
		return nil, fmt.Errorf("search: primary provider is required")
	}
	cfg = cfg.withDefaults()
	return &SmartSearch{
		cfg:      cfg,
		primary:  primary,
		breakers: breaker.NewManager(breaker.Config{Logger: cfg.Logger}),
		observer: observability.NoopObserver{},
		monitor:  &noopMonitor{},
		logger:   cfg.Logger,
	}, nil
}

// WithCache attaches a cache provider. Without one, every request goes to
// the database.
func (s *SmartSearch) WithCache(cache provider.CacheProvider) *SmartSearch {
	s.cache = cache
	return s
}

// WithSecondaries attaches fallback database providers, tried in order when
// the primary fails, and queried concurrently under StrategyHybrid.
func (s *SmartSearch) WithSecondaries(providers ...provider.SearchProvider) *SmartSearch {
	s.secondaries = append(s.secondaries, providers...)
	return s
}

// WithBreakers replaces the default circuit breaker manager, e.g. to carry
// per-backend threshold overrides.
func (s *SmartSearch) WithBreakers(m *breaker.Manager) *SmartSearch {
	if m != nil {
		s.breakers = m
	}
	return s
}

// WithHealth attaches a health monitor consulted by StrategyAuto routing.
// The core registers its providers with the monitor; starting and stopping
// the monitor stays with the caller.
func (s *SmartSearch) WithHealth(m *health.Monitor) *SmartSearch {
	s.health = m
	if m == nil {
		return s
	}
	for _, p := range s.providers() {
		m.Register(p.Name(), p.HealthCheck)
	}
	if s.cache != nil {
		m.Register(s.cache.Name(), s.cache.HealthCheck)
	}
	return s
}

// WithGovernance attaches a policy engine applied to every database response
// before it is returned or cached. Cached entries are keyed by actor roles
// so one role's masked view is never served to another.
func (s *SmartSearch) WithGovernance(engine *governance.Engine) *SmartSearch {
	s.engine = engine
	return s
}

// WithPublisher attaches an event publisher notified after Index and Delete.
func (s *SmartSearch) WithPublisher(p events.Publisher) *SmartSearch {
	s.publisher = p
	return s
}

// WithObserver sets the observer used for operation observability.
func (s *SmartSearch) WithObserver(observer observability.Observer) *SmartSearch {
	if observer != nil {
		s.observer = observer
	}
	return s
}

// WithMonitor sets the per-stage search monitor.
func (s *SmartSearch) WithMonitor(m SearchMonitor) *SmartSearch {
	if m != nil {
		s.monitor = m
	}
	return s
}

// WithLogger sets the logger.
func (s *SmartSearch) WithLogger(logger Logger) *SmartSearch {
	s.logger = logger
	return s
}

// providers returns the primary followed by the secondaries.
func (s *SmartSearch) providers() []provider.SearchProvider {
	out := make([]provider.SearchProvider, 0, 1+len(s.secondaries))
	out = append(out, s.primary)
	out = append(out, s.secondaries...)
	return out
}

// cacheHealthy reports whether the cache exists and is not known to be down.
func (s *SmartSearch) cacheHealthy() bool {
	if s.cache == nil {
		return false
	}
	if s.health == nil {
		return true
	}
	return s.health.Healthy(s.cache.Name())
}

// Snapshot aggregates the core's counters with per-provider stats and
// circuit states.
type Snapshot struct {
	Searches    int64                     `json:"searches"`
	CacheHits   int64                     `json:"cache_hits"`
	CacheMisses int64                     `json:"cache_misses"`
	Errors      int64                     `json:"errors"`
	Providers   map[string]provider.Stats `json:"providers"`
	Breakers    map[string]string         `json:"breakers"`
}

// Stats returns a point-in-time snapshot of the core and its providers.
func (s *SmartSearch) Stats() Snapshot {
	snap := Snapshot{
		Searches:    s.searches.Load(),
		CacheHits:   s.cacheHits.Load(),
		CacheMisses: s.cacheMisses.Load(),
		Errors:      s.errs.Load(),
		Providers:   make(map[string]provider.Stats),
		Breakers:    make(map[string]string),
	}
	for _, p := range s.providers() {
		if r, ok := p.(provider.StatsReporter); ok {
			snap.Providers[p.Name()] = r.Stats()
		}
	}
	if s.cache != nil {
		if r, ok := s.cache.(provider.StatsReporter); ok {
			snap.Providers[s.cache.Name()] = r.Stats()
		}
	}
	for name, state := range s.breakers.Snapshot() {
		snap.Breakers[name] = state.String()
	}
	return snap
}

// HealthCheck probes every configured backend and reports a combined status.
// The core is healthy when at least one database provider is.
func (s *SmartSearch) HealthCheck(ctx context.Context) provider.HealthStatus {
	start := time.Now()
	details := make(map[string]interface{})

	anyDatabase := false
	for _, p := range s.providers() {
		st := p.HealthCheck(ctx)
		details[p.Name()] = st
		if st.Healthy {
			anyDatabase = true
		}
	}
	if s.cache != nil {
		details[s.cache.Name()] = s.cache.HealthCheck(ctx)
	}

	status := provider.HealthStatus{
		Healthy:   anyDatabase,
		Latency:   time.Since(start),
		CheckedAt: time.Now(),
		Details:   details,
	}
	if !anyDatabase {
		status.Error = "no healthy database provider"
	}
	return status
}

// Close releases every backend the core was given. Errors are collected;
// each backend gets its Close call regardless of earlier failures.
func (s *SmartSearch) Close() error {
	var errs []error
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("cache: %w", err))
		}
	}
	for _, p := range s.providers() {
		if err := p.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (s *SmartSearch) observe(op, resource, backend string, start time.Time, err error, size int64, metadata map[string]interface{}) {
	s.observer.ObserveOperation(observability.OperationContext{
		Component:   "search",
		Operation:   op,
		Resource:    resource,
		SubResource: backend,
		Duration:    time.Since(start),
		Error:       err,
		Size:        size,
		Metadata:    metadata,
	})
}

func (s *SmartSearch) logWarn(msg string, err error, fields ...map[string]interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, err, fields...)
	}
}

func (s *SmartSearch) logError(msg string, err error, fields ...map[string]interface{}) {
	if s.logger != nil {
		s.logger.Error(msg, err, fields...)
	}
}
