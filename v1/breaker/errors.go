package breaker

import "errors"

// Common breaker errors
var (
	// ErrCircuitOpen is returned when a call is rejected because the circuit
	// is open. The backend is presumed down; try a fallback.
	ErrCircuitOpen = errors.New("breaker: circuit open")

	// ErrTooManyProbes is returned in the half-open state when the probe
	// budget is already in flight.
	ErrTooManyProbes = errors.New("breaker: too many half-open probes")
)

// IsCircuitOpen checks if the error means the call was rejected by the
// breaker rather than failed by the backend. Both rejection errors qualify.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrTooManyProbes)
}
