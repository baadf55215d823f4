package health

import (
	"context"
	"sync"
	"time"

	"github.com/samas-io/smartsearch/v1/provider"
)

// CheckFunc probes one provider. Implementations are the providers'
// HealthCheck methods; failures are carried in the returned status, never
// as a panic or error.
type CheckFunc func(ctx context.Context) provider.HealthStatus

// StatusChange is delivered to subscribers when a provider flips between
// healthy and unhealthy.
type StatusChange struct {
	Name    string
	Healthy bool
	Status  provider.HealthStatus
}

type target struct {
	name  string
	check CheckFunc

	consecutiveFailures int
	reportedHealthy     bool
	everChecked         bool
}

// Monitor periodically probes registered providers and keeps the latest
// status snapshot. Safe for concurrent use.
type Monitor struct {
	cfg Config

	mu       sync.RWMutex
	targets  map[string]*target
	statuses map[string]provider.HealthStatus
	subs     []chan StatusChange

	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}
}

// NewMonitor creates a health monitor with the provided configuration.
// Zero-valued config fields fall back to package defaults.
func NewMonitor(cfg Config) *Monitor {
	return &Monitor{
		cfg:      cfg.withDefaults(),
		targets:  make(map[string]*target),
		statuses: make(map[string]provider.HealthStatus),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Register adds a provider to the check rotation. Until the first probe
// completes the provider is reported healthy, so registration order does not
// cause a burst of spurious "unhealthy" routing at startup.
//
// Registering the same name twice replaces the check function.
func (m *Monitor) Register(name string, check CheckFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.targets[name] = &target{name: name, check: check, reportedHealthy: true}
}

// Start launches the periodic check loop. It probes every target once
// immediately, then on every tick. Start returns right away; probing happens
// on a background goroutine until Stop is called or ctx is canceled.
func (m *Monitor) Start(ctx context.Context) {
	go func() {
		defer close(m.done)

		m.checkAll(ctx)

		ticker := time.NewTicker(m.cfg.CheckInterval)
		defer ticker.Stop()

		for {
			select {
			case <-m.stopChan:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.checkAll(ctx)
			}
		}
	}()
}

// Stop terminates the check loop and waits for it to exit.
// Safe to call multiple times.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
	<-m.done
}

// Healthy reports the latest known status for the named provider.
// Unknown providers are reported healthy: the monitor only votes against a
// backend it has actually seen fail.
func (m *Monitor) Healthy(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.targets[name]
	if !ok {
		return true
	}
	return t.reportedHealthy
}

// Status returns the latest probe result for the named provider.
// The second return is false when the provider has never been probed.
func (m *Monitor) Status(name string) (provider.HealthStatus, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.statuses[name]
	return s, ok
}

// Snapshot returns the latest probe result for every registered provider.
func (m *Monitor) Snapshot() map[string]provider.HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]provider.HealthStatus, len(m.statuses))
	for name, s := range m.statuses {
		out[name] = s
	}
	return out
}

// Subscribe returns a channel receiving a StatusChange whenever a provider
// flips between healthy and unhealthy. The channel is buffered (capacity 16);
// if the consumer falls behind, flips are dropped rather than blocking the
// check loop.
func (m *Monitor) Subscribe() <-chan StatusChange {
	ch := make(chan StatusChange, 16)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}

// CheckNow probes every registered provider immediately, outside the ticker
// schedule, and returns the fresh snapshot.
func (m *Monitor) CheckNow(ctx context.Context) map[string]provider.HealthStatus {
	m.checkAll(ctx)
	return m.Snapshot()
}

func (m *Monitor) checkAll(ctx context.Context) {
	m.mu.RLock()
	targets := make([]*target, 0, len(m.targets))
	for _, t := range m.targets {
		targets = append(targets, t)
	}
	m.mu.RUnlock()

	for _, t := range targets {
		checkCtx, cancel := context.WithTimeout(ctx, m.cfg.CheckTimeout)
		status := t.check(checkCtx)
		cancel()

		m.record(t.name, status)
	}
}

func (m *Monitor) record(name string, status provider.HealthStatus) {
	m.mu.Lock()

	t, ok := m.targets[name]
	if !ok {
		m.mu.Unlock()
		return
	}

	m.statuses[name] = status
	t.everChecked = true

	if status.Healthy {
		t.consecutiveFailures = 0
	} else {
		t.consecutiveFailures++
	}

	healthy := status.Healthy || t.consecutiveFailures < m.cfg.FailureThreshold
	flipped := healthy != t.reportedHealthy
	t.reportedHealthy = healthy

	var subs []chan StatusChange
	if flipped {
		subs = append(subs, m.subs...)
	}
	log := m.cfg.Logger
	m.mu.Unlock()

	if !flipped {
		return
	}

	if log != nil {
		if healthy {
			log.Info("provider recovered", nil, map[string]interface{}{
				"provider": name, "latency_ms": status.Latency.Milliseconds(),
			})
		} else {
			log.Warn("provider unhealthy", nil, map[string]interface{}{
				"provider": name, "error": status.Error,
			})
		}
	}

	change := StatusChange{Name: name, Healthy: healthy, Status: status}
	for _, ch := range subs {
		select {
		case ch <- change:
		default:
			// Slow consumer; drop the flip rather than stall the loop.
		}
	}
}
