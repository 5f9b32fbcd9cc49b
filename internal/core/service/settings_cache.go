package service

import (
	"sync"

	"github.com/atelierhq/backoffice/internal/core/domain"
)

// settingsCache memoizes resolved setting values for one process.
//
// Lifecycle: unloaded at construction; loaded by the first fill; back to
// unloaded only via clear. A loaded cache may still miss individual keys —
// resetting a setting evicts just that entry — so callers must treat a miss
// as "fetch this one key", never as "reload everything".
type settingsCache struct {
	mu      sync.RWMutex
	entries map[string]domain.SettingValue
	loaded  bool
}

func newSettingsCache() *settingsCache {
	return &settingsCache{entries: make(map[string]domain.SettingValue)}
}

func (c *settingsCache) isLoaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *settingsCache) lookup(key string) (domain.SettingValue, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *settingsCache) store(key string, v domain.SettingValue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = v
}

// fill replaces the whole cache with values and marks it loaded.
func (c *settingsCache) fill(values map[string]domain.SettingValue) {
	entries := make(map[string]domain.SettingValue, len(values))
	for k, v := range values {
		entries[k] = v
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = entries
	c.loaded = true
}

// evict drops a single entry. The cache stays loaded.
func (c *settingsCache) evict(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// clear empties the cache and marks it unloaded. Idempotent.
func (c *settingsCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]domain.SettingValue)
	c.loaded = false
}
