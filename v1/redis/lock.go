package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock key only when it still holds our token,
// so an expired-and-reacquired lock is never released by the old holder.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// Lock is a distributed lock held in Redis.
// Obtain one with AcquireLock; release it with Release.
type Lock struct {
	client redis.UniversalClient
	key    string
	token  string
}

// AcquireLock attempts to take a distributed lock on the given key with the
// provided TTL. Returns ErrLockNotAcquired when another holder owns the lock.
//
// The search core uses locks around index rebuild operations so only one
// node rewrites an index at a time.
func (r *RedisClient) AcquireLock(ctx context.Context, key string, ttl time.Duration) (*Lock, error) {
	tokenBytes := make([]byte, 16)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, fmt.Errorf("redis lock %q: token: %w", key, err)
	}
	token := hex.EncodeToString(tokenBytes)

	r.mu.RLock()
	client := r.client
	r.mu.RUnlock()

	lockKey := r.key("lock:" + key)
	ok, err := client.SetNX(ctx, lockKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lock %q: %w", key, err)
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}

	return &Lock{client: client, key: lockKey, token: token}, nil
}

// Release releases the lock. Returns ErrLockNotHeld when the lock expired or
// was taken over by another holder.
func (l *Lock) Release(ctx context.Context) error {
	n, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Int64()
	if err != nil {
		return fmt.Errorf("redis unlock %q: %w", l.key, err)
	}
	if n == 0 {
		return ErrLockNotHeld
	}
	return nil
}
