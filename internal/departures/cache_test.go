package departures

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"umrahcore/internal/shared/database/dbtest"
	"umrahcore/pkg/cache"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *memoryCache) Ping(ctx context.Context) error { return nil }

func TestAvailabilityCacheInvalidatedByReserve(t *testing.T) {
	dep := newDeparture(45, 10, StatusOpen)
	repo := newMemoryRepository(dep)
	svc := NewService(repo, dbtest.Passthrough{}, newMemoryCache(), time.Minute)
	ctx := context.Background()

	first, err := svc.GetAvailability(ctx, dep.ID)
	if err != nil || first.AvailableSeats != 35 {
		t.Fatalf("availability: %+v %v", first, err)
	}

	// A write behind the service's back is hidden by the cache.
	repo.rows[dep.ID].BookedCount = 11
	cached, _ := svc.GetAvailability(ctx, dep.ID)
	if cached.AvailableSeats != 35 {
		t.Fatalf("expected cached 35, got %d", cached.AvailableSeats)
	}

	if _, err := svc.Reserve(ctx, dep.ID, 2); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	fresh, _ := svc.GetAvailability(ctx, dep.ID)
	if fresh.AvailableSeats != 32 {
		t.Fatalf("reserve must invalidate the cache, got %d", fresh.AvailableSeats)
	}
}

func TestListCacheInvalidatedByStatusChange(t *testing.T) {
	dep := newDeparture(45, 0, StatusOpen)
	svc := NewService(newMemoryRepository(dep), dbtest.Passthrough{}, newMemoryCache(), time.Minute)
	ctx := context.Background()
	query := ListDeparturesQuery{Status: "open", Page: 1, Limit: 20}

	items, total, err := svc.ListDepartures(ctx, query)
	if err != nil || total != 1 || len(items) != 1 {
		t.Fatalf("list: %v %d %v", items, total, err)
	}
	if _, err := svc.Close(ctx, dep.ID); err != nil {
		t.Fatalf("close: %v", err)
	}
	_, total, _ = svc.ListDepartures(ctx, query)
	if total != 0 {
		t.Fatalf("closed departure still listed as open")
	}
}
