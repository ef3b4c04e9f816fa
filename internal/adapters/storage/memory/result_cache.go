package memory

import (
	"context"
	"sync"
	"time"

	"github.com/sanjux-xx/pricescout/internal/core/domain"
	"github.com/sanjux-xx/pricescout/internal/core/ports"
)

type cacheEntry struct {
	listings []domain.Listing
	storedAt time.Time
}

// ResultCache is a TTL cache keyed by normalized query text. Entries whose
// age reached the TTL are treated as absent on read and overwritten wholesale
// by the next Put; nothing mutates a stored entry in place.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

var _ ports.ResultCache = (*ResultCache)(nil)

func NewResultCache(ttl time.Duration) *ResultCache {
	return NewResultCacheWithClock(ttl, time.Now)
}

// NewResultCacheWithClock exists for tests that need deterministic time.
func NewResultCacheWithClock(ttl time.Duration, now func() time.Time) *ResultCache {
	return &ResultCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (c *ResultCache) Get(_ context.Context, normalizedQuery string) ([]domain.Listing, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[normalizedQuery]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		return nil, false, nil
	}

	// Hand out a copy so callers can filter and sort without touching the
	// stored entry.
	listings := make([]domain.Listing, len(entry.listings))
	copy(listings, entry.listings)
	return listings, true, nil
}

func (c *ResultCache) Put(_ context.Context, normalizedQuery string, listings []domain.Listing) error {
	stored := make([]domain.Listing, len(listings))
	copy(stored, listings)

	c.mu.Lock()
	c.entries[normalizedQuery] = cacheEntry{listings: stored, storedAt: c.now()}
	c.mu.Unlock()
	return nil
}

// Sweep removes expired entries. Get never returns them anyway; Sweep bounds
// the memory held by queries that are never asked again.
func (c *ResultCache) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.entries {
		if now.Sub(entry.storedAt) >= c.ttl {
			delete(c.entries, key)
		}
	}
}

// StartJanitor sweeps on the given interval until ctx is done.
func (c *ResultCache) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Sweep()
			}
		}
	}()
}
