package tcgplayer

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/eshaffer321/tcg-inventory-backend/internal/adapters/providers"
)

const (
	searchCacheTTL     = 5 * time.Minute
	searchCacheMaxSize = 100
	// Entries evicted per cleanup once the cache is over size.
	searchCacheEvictBatch = 20
)

type cacheEntry struct {
	results  []providers.ProductResult
	storedAt time.Time
}

// SearchCache memoizes product search responses in front of a slower
// searcher (the browser-automation search runs seconds per query).
// Entries expire after five minutes; when the cache grows past its cap
// the oldest batch is dropped.
type SearchCache struct {
	mu      sync.Mutex
	inner   providers.ProductSearcher
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewSearchCache wraps a searcher with response caching.
func NewSearchCache(inner providers.ProductSearcher) *SearchCache {
	return &SearchCache{
		inner:   inner,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// SearchProducts implements providers.ProductSearcher.
func (c *SearchCache) SearchProducts(ctx context.Context, game, query string) ([]providers.ProductResult, error) {
	results, _, err := c.Search(ctx, game, query)
	return results, err
}

// Search returns results plus whether they were served from cache.
func (c *SearchCache) Search(ctx context.Context, game, query string) ([]providers.ProductResult, bool, error) {
	key := game + ":" + strings.ToLower(query)

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && c.now().Sub(entry.storedAt) < searchCacheTTL {
		results := entry.results
		c.mu.Unlock()
		return results, true, nil
	}
	c.mu.Unlock()

	results, err := c.inner.SearchProducts(ctx, game, query)
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{results: results, storedAt: c.now()}
	c.evictLocked()
	c.mu.Unlock()

	return results, false, nil
}

// evictLocked drops the oldest batch of entries once the cache is over
// its cap. Caller holds the lock.
func (c *SearchCache) evictLocked() {
	if len(c.entries) <= searchCacheMaxSize {
		return
	}

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return c.entries[keys[i]].storedAt.Before(c.entries[keys[j]].storedAt)
	})

	for _, k := range keys[:searchCacheEvictBatch] {
		delete(c.entries, k)
	}
}
