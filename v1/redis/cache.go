package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/samas-io/smartsearch/v1/provider"
)

// key applies the configured prefix to a caller-visible key.
func (r *RedisClient) key(k string) string {
	return r.keyPrefix + k
}

// tagKey is the set holding all keys associated with a tag.
func (r *RedisClient) tagKey(tag string) string {
	return r.keyPrefix + "tag:" + tag
}

// GetJSON retrieves the value at key and unmarshals it into dest.
// Returns provider.ErrCacheMiss when the key does not exist.
func (r *RedisClient) GetJSON(ctx context.Context, key string, dest interface{}) error {
	start := time.Now()
	r.mu.RLock()
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	r.mu.RUnlock()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.misses.Add(1)
			r.observeOperation("get", key, "", time.Since(start), nil, 0, map[string]interface{}{"hit": false})
			return provider.ErrCacheMiss
		}
		r.errs.Add(1)
		r.observeOperation("get", key, "", time.Since(start), err, 0, nil)
		return fmt.Errorf("redis get %q: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		r.errs.Add(1)
		r.observeOperation("get", key, "", time.Since(start), err, int64(len(data)), nil)
		return fmt.Errorf("redis get %q: unmarshal: %w", key, err)
	}

	r.hits.Add(1)
	r.observeOperation("get", key, "", time.Since(start), nil, int64(len(data)), map[string]interface{}{"hit": true})
	return nil
}

// SetJSON marshals value and stores it at key. A zero ttl falls back to the
// configured DefaultTTL; if that is also zero the key does not expire.
func (r *RedisClient) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	start := time.Now()
	if ttl == 0 {
		ttl = r.defaultTTL
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis set %q: marshal: %w", key, err)
	}

	r.mu.RLock()
	err = r.client.Set(ctx, r.key(key), data, ttl).Err()
	r.mu.RUnlock()

	metadata := map[string]interface{}{}
	if ttl > 0 {
		metadata["ttl"] = ttl.String()
	}
	if err != nil {
		r.errs.Add(1)
	}
	r.observeOperation("set", key, "", time.Since(start), err, int64(len(data)), metadata)
	if err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Delete removes the given keys, returning how many existed.
func (r *RedisClient) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	start := time.Now()

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = r.key(k)
	}

	r.mu.RLock()
	deleted, err := r.client.Del(ctx, prefixed...).Result()
	r.mu.RUnlock()

	if err != nil {
		r.errs.Add(1)
	}
	r.observeOperation("delete", keys[0], "", time.Since(start), err, deleted, map[string]interface{}{
		"key_count": len(keys),
	})
	if err != nil {
		return 0, fmt.Errorf("redis delete: %w", err)
	}
	return deleted, nil
}

// DeleteByPattern removes all keys matching a glob pattern (e.g. "articles:*"),
// returning how many were removed. Uses SCAN, never KEYS, so it is safe on
// large keyspaces.
func (r *RedisClient) DeleteByPattern(ctx context.Context, pattern string) (int64, error) {
	start := time.Now()
	r.mu.RLock()
	client := r.client
	r.mu.RUnlock()

	var (
		cursor  uint64
		deleted int64
	)
	for {
		keys, next, err := client.Scan(ctx, cursor, r.key(pattern), DefaultScanBatch).Result()
		if err != nil {
			r.errs.Add(1)
			r.observeOperation("delete_pattern", pattern, "", time.Since(start), err, deleted, nil)
			return deleted, fmt.Errorf("redis scan %q: %w", pattern, err)
		}
		if len(keys) > 0 {
			n, err := client.Del(ctx, keys...).Result()
			deleted += n
			if err != nil {
				r.errs.Add(1)
				r.observeOperation("delete_pattern", pattern, "", time.Since(start), err, deleted, nil)
				return deleted, fmt.Errorf("redis delete batch: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	r.observeOperation("delete_pattern", pattern, "", time.Since(start), nil, deleted, nil)
	return deleted, nil
}

// Exists reports whether the key is present.
func (r *RedisClient) Exists(ctx context.Context, key string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, err := r.client.Exists(ctx, r.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists %q: %w", key, err)
	}
	return n > 0, nil
}

// TTL returns the remaining lifetime of the key. Keys without an expiration
// report zero. Returns provider.ErrCacheMiss when the key does not exist.
func (r *RedisClient) TTL(ctx context.Context, key string) (time.Duration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, err := r.client.TTL(ctx, r.key(key)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis ttl %q: %w", key, err)
	}
	switch {
	case d == time.Duration(-2): // key does not exist
		return 0, provider.ErrCacheMiss
	case d < 0: // exists, no expiration
		return 0, nil
	default:
		return d, nil
	}
}

// Tag associates keys with a tag for group invalidation. The tag set inherits
// no TTL; InvalidateTag cleans it up.
func (r *RedisClient) Tag(ctx context.Context, tag string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	start := time.Now()

	members := make([]interface{}, len(keys))
	for i, k := range keys {
		members[i] = r.key(k)
	}

	r.mu.RLock()
	err := r.client.SAdd(ctx, r.tagKey(tag), members...).Err()
	r.mu.RUnlock()

	r.observeOperation("tag", tag, "", time.Since(start), err, int64(len(keys)), nil)
	if err != nil {
		return fmt.Errorf("redis tag %q: %w", tag, err)
	}
	return nil
}

// InvalidateTag removes every key associated with the tag, plus the tag set
// itself, returning how many data keys were removed.
func (r *RedisClient) InvalidateTag(ctx context.Context, tag string) (int64, error) {
	start := time.Now()
	r.mu.RLock()
	client := r.client
	r.mu.RUnlock()

	members, err := client.SMembers(ctx, r.tagKey(tag)).Result()
	if err != nil {
		r.errs.Add(1)
		r.observeOperation("invalidate_tag", tag, "", time.Since(start), err, 0, nil)
		return 0, fmt.Errorf("redis invalidate tag %q: %w", tag, err)
	}

	var deleted int64
	if len(members) > 0 {
		deleted, err = client.Del(ctx, members...).Result()
		if err != nil {
			r.errs.Add(1)
			r.observeOperation("invalidate_tag", tag, "", time.Since(start), err, deleted, nil)
			return deleted, fmt.Errorf("redis invalidate tag %q: %w", tag, err)
		}
	}
	if err := client.Del(ctx, r.tagKey(tag)).Err(); err != nil {
		return deleted, fmt.Errorf("redis invalidate tag %q: drop tag set: %w", tag, err)
	}

	r.observeOperation("invalidate_tag", tag, "", time.Since(start), nil, deleted, map[string]interface{}{
		"member_count": len(members),
	})
	return deleted, nil
}

// Ping checks if the Redis server is reachable and responsive.
func (r *RedisClient) Ping(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.client.Ping(ctx).Err()
}

// PoolStats returns connection pool statistics.
func (r *RedisClient) PoolStats() *redis.PoolStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.client.PoolStats()
}

// HealthCheck probes the server with PING and reports status including pool
// diagnostics. It never returns an error; failures are carried in the status.
func (r *RedisClient) HealthCheck(ctx context.Context) provider.HealthStatus {
	start := time.Now()
	err := r.Ping(ctx)
	status := provider.HealthStatus{
		Healthy:   err == nil,
		Latency:   time.Since(start),
		CheckedAt: time.Now(),
	}
	if err != nil {
		status.Error = err.Error()
		return status
	}

	pool := r.PoolStats()
	status.Details = map[string]interface{}{
		"total_conns": pool.TotalConns,
		"idle_conns":  pool.IdleConns,
		"hits":        pool.Hits,
		"misses":      pool.Misses,
		"timeouts":    pool.Timeouts,
	}
	return status
}

// Stats returns the provider's operation counters.
func (r *RedisClient) Stats() provider.Stats {
	return provider.Stats{
		Hits:   r.hits.Load(),
		Misses: r.misses.Load(),
		Errors: r.errs.Load(),
	}
}
