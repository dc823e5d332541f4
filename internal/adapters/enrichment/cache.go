// Package enrichment looks up card metadata (set, image, rarity) from
// the Pokémon TCG API, memoized through a persistent cache.
package enrichment

import (
	"encoding/json"
	"os"
	"sync"
)

// CardInfo is the metadata attached to a matched card.
type CardInfo struct {
	Name      string `json:"name"`
	SetName   string `json:"setName"`
	Rarity    string `json:"rarity"`
	Image     string `json:"image"`
	ProductID string `json:"productId"`
}

// Cache memoizes lookups. Implementations are safe for concurrent use.
type Cache interface {
	Get(key string) (CardInfo, bool)
	Put(key string, info CardInfo) error
}

// FileCache is a Cache backed by a JSON file. The whole map is
// rewritten on every Put; lookup volume is small enough that this
// stays cheap.
type FileCache struct {
	mu      sync.Mutex
	path    string
	entries map[string]CardInfo
}

// NewFileCache loads the cache file if it exists. A missing or
// unreadable file starts an empty cache rather than failing.
func NewFileCache(path string) *FileCache {
	c := &FileCache{path: path, entries: make(map[string]CardInfo)}

	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		c.entries = make(map[string]CardInfo)
	}
	return c
}

// Get returns the cached entry for key, if present.
func (c *FileCache) Get(key string) (CardInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, ok := c.entries[key]
	return info, ok
}

// Put stores an entry and persists the cache to disk.
func (c *FileCache) Put(key string, info CardInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = info

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o644)
}
