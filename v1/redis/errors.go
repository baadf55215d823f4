package redis

import "errors"

// Common Redis cache provider errors
var (
	// ErrLockNotAcquired is returned when a distributed lock is already held.
	ErrLockNotAcquired = errors.New("redis: lock not acquired")

	// ErrLockNotHeld is returned when releasing a lock that expired or was
	// taken over by another holder.
	ErrLockNotHeld = errors.New("redis: lock not held")
)

// IsLockNotAcquired checks if the error means the lock was contended.
func IsLockNotAcquired(err error) bool {
	return errors.Is(err, ErrLockNotAcquired)
}
