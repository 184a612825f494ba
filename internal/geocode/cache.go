package geocode

import "sync"

// Cache holds one geocoding Result per normalized city name for the life of
// the process. Entries are never evicted and never overwritten, so a city is
// looked up at most once. Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Result
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]Result)}
}

// Get returns the cached result for key.
func (c *Cache) Get(key string) (Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[key]
	return r, ok
}

// Add stores r under key unless an entry already exists. It reports whether r
// was stored.
func (c *Cache) Add(key string, r Result) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		return false
	}
	c.entries[key] = r
	return true
}

// Len returns the number of cached cities.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
