package breaker

import "sync"

// Manager keeps one circuit breaker per named backend.
//
// The search core uses a Manager so postgres, redis, and any secondary
// providers trip independently: a failing database must not block cache
// reads, and vice versa.
type Manager struct {
	defaults  Config
	overrides map[string]Config

	mu       sync.RWMutex
	breakers map[string]*Breaker
}

// NewManager creates a Manager. defaults applies to every breaker created
// by GetOrCreate unless an override was registered for that name.
func NewManager(defaults Config) *Manager {
	return &Manager{
		defaults:  defaults.withDefaults(),
		overrides: make(map[string]Config),
		breakers:  make(map[string]*Breaker),
	}
}

// Override registers a per-backend configuration used the next time
// GetOrCreate sees the name. It has no effect on an already created breaker.
func (m *Manager) Override(name string, cfg Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg.Name = name
	m.overrides[name] = cfg.withDefaults()
}

// GetOrCreate returns the breaker for the named backend, creating it on
// first use.
func (m *Manager) GetOrCreate(name string) *Breaker {
	m.mu.RLock()
	b, ok := m.breakers[name]
	m.mu.RUnlock()
	if ok {
		return b
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.breakers[name]; ok {
		return b
	}

	cfg, ok := m.overrides[name]
	if !ok {
		cfg = m.defaults
		cfg.Name = name
	}
	b = New(cfg)
	m.breakers[name] = b
	return b
}

// Get returns the breaker for the named backend, or nil when none exists.
func (m *Manager) Get(name string) *Breaker {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.breakers[name]
}

// Snapshot reports the current state of every breaker, keyed by name.
func (m *Manager) Snapshot() map[string]State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]State, len(m.breakers))
	for name, b := range m.breakers {
		out[name] = b.State()
	}
	return out
}
