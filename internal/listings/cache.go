package listings

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
)

const DefaultFreshness = 600 * time.Second

// Fetcher is the upstream call the cache memoizes.
type Fetcher interface {
	Latest(ctx context.Context, limit int) ([]json.RawMessage, error)
}

// Cache is a single-slot memo for the default "latest" query. Filtered
// queries bypass it entirely. The slot is overwritten wholesale on refresh;
// an upstream failure degrades to an empty page that is cached like any other
// result, masking an outage for up to one freshness window.
type Cache struct {
	mu        sync.Mutex
	fetcher   Fetcher
	freshness time.Duration
	now       func() time.Time

	fetchedAt time.Time
	results   []json.RawMessage
}

func NewCache(fetcher Fetcher, freshness time.Duration) *Cache {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	return &Cache{
		fetcher:   fetcher,
		freshness: freshness,
		now:       time.Now,
	}
}

// GetOrRefresh returns the cached page when it is younger than the freshness
// window, otherwise refreshes from upstream. The lock is held across the
// refresh so concurrent misses result in exactly one upstream call.
func (c *Cache) GetOrRefresh(ctx context.Context, limit int) []json.RawMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.results != nil && c.now().Sub(c.fetchedAt) < c.freshness {
		return c.results
	}

	results, err := c.fetcher.Latest(ctx, limit)
	if err != nil {
		log.Printf("listings refresh error: %v", err)
		results = []json.RawMessage{}
	}
	c.results = results
	c.fetchedAt = c.now()
	return c.results
}
