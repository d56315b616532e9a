// SPDX-License-Identifier: MPL-2.0

package modcache

import (
	"sync"

	"github.com/invowk/modsurface/pkg/modinfo"
)

type (
	// PathCache maps module names to resolved module paths. Names are
	// compared case-insensitively.
	PathCache struct {
		mu      sync.RWMutex
		entries map[string]entry
	}

	entry struct {
		name string
		path string
	}
)

// New creates an empty PathCache.
func New() *PathCache {
	return &PathCache{entries: make(map[string]entry)}
}

// Lookup returns the cached path for name, or "" when there is none.
func (c *PathCache) Lookup(name string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[modinfo.FoldName(name)].path
}

// Add records path for name. Without force an existing entry is kept;
// with force it is overwritten. It reports whether the cache changed.
func (c *PathCache) Add(name, path string, force bool) bool {
	key := modinfo.FoldName(name)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok && !force {
		return false
	}
	c.entries[key] = entry{name: name, path: path}
	return true
}

// Remove deletes the entry for name and reports whether one existed.
func (c *PathCache) Remove(name string) bool {
	key := modinfo.FoldName(name)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	return true
}

// Clear empties the cache.
func (c *PathCache) Clear() {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *PathCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Snapshot returns a copy of the cache keyed by the name each entry was
// first added (or last forced) under.
func (c *PathCache) Snapshot() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.entries))
	for _, e := range c.entries {
		out[e.name] = e.path
	}
	return out
}
