package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samas-io/smartsearch/v1/provider"
)

func TestSetGetRoundTrip(t *testing.T) {
	cache := NewMemoryCache(Config{})
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := cache.SetJSON(ctx, "k1", payload{Name: "alpha", Count: 3}, 0); err != nil {
		t.Fatalf("SetJSON failed: %v", err)
	}

	var got payload
	if err := cache.GetJSON(ctx, "k1", &got); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if got.Name != "alpha" || got.Count != 3 {
		t.Fatalf("unexpected value: %+v", got)
	}
}

func TestGetMiss(t *testing.T) {
	cache := NewMemoryCache(Config{})

	var dest map[string]interface{}
	err := cache.GetJSON(context.Background(), "absent", &dest)
	if !errors.Is(err, provider.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestPerEntryTTLExpiry(t *testing.T) {
	cache := NewMemoryCache(Config{DefaultTTL: time.Hour})
	ctx := context.Background()

	now := time.Now()
	cache.now = func() time.Time { return now }

	if err := cache.SetJSON(ctx, "short", "v", time.Second); err != nil {
		t.Fatalf("SetJSON failed: %v", err)
	}

	var dest string
	if err := cache.GetJSON(ctx, "short", &dest); err != nil {
		t.Fatalf("expected hit before expiry, got %v", err)
	}

	now = now.Add(2 * time.Second)

	if err := cache.GetJSON(ctx, "short", &dest); !errors.Is(err, provider.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss after expiry, got %v", err)
	}
}

func TestLongTTLOutlivesDefault(t *testing.T) {
	cache := NewMemoryCache(Config{DefaultTTL: 5 * time.Minute})
	ctx := context.Background()

	now := time.Now()
	cache.now = func() time.Time { return now }

	// Stale copies are written with TTLs well beyond the default.
	if err := cache.SetJSON(ctx, "stale:k", "v", 30*time.Minute); err != nil {
		t.Fatalf("SetJSON failed: %v", err)
	}

	now = now.Add(10 * time.Minute)

	var dest string
	if err := cache.GetJSON(ctx, "stale:k", &dest); err != nil {
		t.Fatalf("long-lived entry expired early: %v", err)
	}

	d, err := cache.TTL(ctx, "stale:k")
	if err != nil {
		t.Fatalf("TTL failed: %v", err)
	}
	if d != 20*time.Minute {
		t.Fatalf("expected 20m remaining, got %v", d)
	}
}

func TestTTLReporting(t *testing.T) {
	cache := NewMemoryCache(Config{DefaultTTL: time.Hour})
	ctx := context.Background()

	now := time.Now()
	cache.now = func() time.Time { return now }

	if err := cache.SetJSON(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("SetJSON failed: %v", err)
	}

	d, err := cache.TTL(ctx, "k")
	if err != nil {
		t.Fatalf("TTL failed: %v", err)
	}
	if d != time.Minute {
		t.Fatalf("expected 1m remaining, got %v", d)
	}

	if _, err := cache.TTL(ctx, "absent"); !errors.Is(err, provider.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss for absent key, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	cache := NewMemoryCache(Config{})
	ctx := context.Background()

	_ = cache.SetJSON(ctx, "a", 1, 0)
	_ = cache.SetJSON(ctx, "b", 2, 0)

	deleted, err := cache.Delete(ctx, "a", "b", "c")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted, got %d", deleted)
	}

	exists, _ := cache.Exists(ctx, "a")
	if exists {
		t.Fatal("key a should be gone")
	}
}

func TestDeleteByPattern(t *testing.T) {
	cache := NewMemoryCache(Config{})
	ctx := context.Background()

	_ = cache.SetJSON(ctx, "articles:1", 1, 0)
	_ = cache.SetJSON(ctx, "articles:2", 2, 0)
	_ = cache.SetJSON(ctx, "users:1", 3, 0)

	deleted, err := cache.DeleteByPattern(ctx, "articles:*")
	if err != nil {
		t.Fatalf("DeleteByPattern failed: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted, got %d", deleted)
	}

	exists, _ := cache.Exists(ctx, "users:1")
	if !exists {
		t.Fatal("users:1 should survive")
	}
}

func TestTagInvalidation(t *testing.T) {
	cache := NewMemoryCache(Config{})
	ctx := context.Background()

	_ = cache.SetJSON(ctx, "k1", 1, 0)
	_ = cache.SetJSON(ctx, "k2", 2, 0)
	_ = cache.SetJSON(ctx, "k3", 3, 0)

	if err := cache.Tag(ctx, "idx:articles", "k1", "k2"); err != nil {
		t.Fatalf("Tag failed: %v", err)
	}

	deleted, err := cache.InvalidateTag(ctx, "idx:articles")
	if err != nil {
		t.Fatalf("InvalidateTag failed: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted, got %d", deleted)
	}

	exists, _ := cache.Exists(ctx, "k3")
	if !exists {
		t.Fatal("untagged key should survive")
	}

	// second invalidation is a no-op
	deleted, _ = cache.InvalidateTag(ctx, "idx:articles")
	if deleted != 0 {
		t.Fatalf("expected 0 on repeat invalidation, got %d", deleted)
	}
}

func TestEviction(t *testing.T) {
	cache := NewMemoryCache(Config{MaxEntries: 2})
	ctx := context.Background()

	_ = cache.SetJSON(ctx, "a", 1, 0)
	_ = cache.SetJSON(ctx, "b", 2, 0)
	_ = cache.SetJSON(ctx, "c", 3, 0)

	exists, _ := cache.Exists(ctx, "a")
	if exists {
		t.Fatal("oldest key should have been evicted")
	}
	exists, _ = cache.Exists(ctx, "c")
	if !exists {
		t.Fatal("newest key should be present")
	}
}

func TestStats(t *testing.T) {
	cache := NewMemoryCache(Config{})
	ctx := context.Background()

	_ = cache.SetJSON(ctx, "k", "v", 0)

	var dest string
	_ = cache.GetJSON(ctx, "k", &dest)
	_ = cache.GetJSON(ctx, "nope", &dest)

	stats := cache.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestHealthCheckAlwaysHealthy(t *testing.T) {
	cache := NewMemoryCache(Config{})

	status := cache.HealthCheck(context.Background())
	if !status.Healthy {
		t.Fatal("memory cache should always be healthy")
	}
}
