package breaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State is the circuit breaker state.
type State int

const (
	// StateClosed is the normal state: calls pass through, consecutive
	// failures are counted.
	StateClosed State = iota

	// StateOpen means the backend is considered down: calls fail fast
	// until the recovery timeout elapses.
	StateOpen

	// StateHalfOpen admits a limited number of probe calls to test whether
	// the backend has recovered.
	StateHalfOpen
)

// String returns the lowercase state name used in logs and metrics.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Counts is a point-in-time view of a breaker's internal counters.
type Counts struct {
	State               State
	ConsecutiveFailures int
	ProbeSuccesses      int
	OpenedAt            time.Time
}

// Breaker is a circuit breaker protecting a single backend.
//
// Breaker is safe for concurrent use. The zero value is not usable;
// construct with New.
type Breaker struct {
	cfg Config

	mu         sync.Mutex
	state      State
	failures   int // consecutive failures while Closed
	successes  int // probe successes while HalfOpen
	probes     int // in-flight probes while HalfOpen
	openedAt   time.Time
	generation uint64

	// now is the clock; replaced in tests.
	now func() time.Time
}

// New creates a circuit breaker with the provided configuration.
// Zero-valued config fields fall back to package defaults.
//
// Example:
//
//	b := breaker.New(breaker.Config{
//	    Name:             "postgres",
//	    FailureThreshold: 5,
//	    RecoveryTimeout:  30 * time.Second,
//	})
func New(cfg Config) *Breaker {
	return &Breaker{
		cfg:   cfg.withDefaults(),
		state: StateClosed,
		now:   time.Now,
	}
}

// Name returns the configured backend name.
func (b *Breaker) Name() string {
	return b.cfg.Name
}

// State returns the current state, promoting Open to HalfOpen if the
// recovery timeout has elapsed.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentStateLocked()
}

// Counts returns the current counters. Intended for diagnostics and tests.
func (b *Breaker) Counts() Counts {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Counts{
		State:               b.currentStateLocked(),
		ConsecutiveFailures: b.failures,
		ProbeSuccesses:      b.successes,
		OpenedAt:            b.openedAt,
	}
}

// Allow reports whether a call may proceed right now.
// It returns nil when the call is admitted, ErrCircuitOpen while the circuit
// is open, and ErrTooManyProbes when the half-open probe budget is exhausted.
//
// Callers using Allow directly must pair every admitted call with exactly one
// RecordSuccess or RecordFailure. Prefer Execute, which does this bookkeeping.
func (b *Breaker) Allow() error {
	_, err := b.allow()
	return err
}

// allow admits a call and returns the generation token the eventual
// RecordSuccess/RecordFailure must carry.
func (b *Breaker) allow() (uint64, error) {
	b.mu.Lock()

	switch b.currentStateLocked() {
	case StateClosed:
		gen := b.generation
		b.mu.Unlock()
		return gen, nil
	case StateHalfOpen:
		if b.probes >= b.cfg.HalfOpenMaxProbes {
			b.mu.Unlock()
			return 0, ErrTooManyProbes
		}
		b.probes++
		gen := b.generation
		b.mu.Unlock()
		return gen, nil
	default: // StateOpen
		b.mu.Unlock()
		return 0, ErrCircuitOpen
	}
}

// RecordSuccess reports a successful call to the breaker.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	gen := b.generation
	b.mu.Unlock()
	b.recordSuccess(gen)
}

// RecordFailure reports a failed call to the breaker.
// context.Canceled is ignored: an abandoned call says nothing about the
// backend's health.
func (b *Breaker) RecordFailure(err error) {
	b.mu.Lock()
	gen := b.generation
	b.mu.Unlock()
	b.recordFailure(gen, err)
}

// Execute runs fn under the breaker: it admits or rejects the call, runs it,
// classifies the result, and updates the state machine.
//
// The error returned is either the admission error (ErrCircuitOpen,
// ErrTooManyProbes) or whatever fn returned.
func (b *Breaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	gen, err := b.allow()
	if err != nil {
		return err
	}

	err = fn(ctx)
	if err == nil {
		b.recordSuccess(gen)
	} else {
		b.recordFailure(gen, err)
	}
	return err
}

func (b *Breaker) recordSuccess(gen uint64) {
	b.mu.Lock()

	if gen != b.generation {
		// Result from before a transition: the transition already decided
		// the new state; ignore.
		b.mu.Unlock()
		return
	}

	var notify func()
	switch b.currentStateLocked() {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		if b.probes > 0 {
			b.probes--
		}
		b.successes++
		if b.successes >= b.cfg.SuccessThreshold {
			notify = b.transitionLocked(StateClosed)
		}
	}
	b.mu.Unlock()

	if notify != nil {
		notify()
	}
}

func (b *Breaker) recordFailure(gen uint64, err error) {
	if errors.Is(err, context.Canceled) {
		b.releaseProbe(gen)
		return
	}

	b.mu.Lock()

	if gen != b.generation {
		b.mu.Unlock()
		return
	}

	var notify func()
	switch b.currentStateLocked() {
	case StateClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			notify = b.transitionLocked(StateOpen)
		}
	case StateHalfOpen:
		// A single failed probe sends the breaker straight back to Open and
		// re-arms the cooldown.
		notify = b.transitionLocked(StateOpen)
	}
	b.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// releaseProbe frees a half-open probe slot without counting the call either
// way (used for canceled calls).
func (b *Breaker) releaseProbe(gen uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen == b.generation && b.state == StateHalfOpen && b.probes > 0 {
		b.probes--
	}
}

// currentStateLocked returns the effective state, performing the lazy
// Open -> HalfOpen transition when the recovery timeout has elapsed.
// Callers must hold b.mu.
func (b *Breaker) currentStateLocked() State {
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.cfg.RecoveryTimeout {
		// Lazy transition; notification fires from transitionLocked's
		// deferred closure on the next unlock path that requested it.
		notify := b.transitionLocked(StateHalfOpen)
		if notify != nil {
			// Safe to call inline: OnStateChange is documented as being
			// invoked without the lock for explicit transitions, but the
			// lazy path would deadlock if the callback re-entered the
			// breaker. Run it on its own goroutine instead.
			go notify()
		}
	}
	return b.state
}

// transitionLocked moves the breaker to the new state, resets counters, and
// returns a closure that fires logging/callback outside the lock (nil when
// the state did not change). Callers must hold b.mu.
func (b *Breaker) transitionLocked(to State) func() {
	from := b.state
	if from == to {
		return nil
	}

	b.state = to
	b.generation++
	b.failures = 0
	b.successes = 0
	b.probes = 0
	if to == StateOpen {
		b.openedAt = b.now()
	}

	name := b.cfg.Name
	cb := b.cfg.OnStateChange
	log := b.cfg.Logger
	return func() {
		if log != nil {
			switch to {
			case StateOpen:
				log.Warn("circuit opened", nil, map[string]interface{}{
					"breaker": name, "from": from.String(),
				})
			case StateClosed:
				log.Info("circuit closed", nil, map[string]interface{}{
					"breaker": name, "from": from.String(),
				})
			default:
				log.Info("circuit half-open", nil, map[string]interface{}{
					"breaker": name, "from": from.String(),
				})
			}
		}
		if cb != nil {
			cb(name, from, to)
		}
	}
}
