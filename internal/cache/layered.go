package cache

import (
	"errors"
	"time"
)

// LayeredCache checks memory first and falls back to disk
type LayeredCache struct {
	memory *MemoryCache
	disk   *DiskCache
}

// NewLayeredCache creates a memory cache in front of a disk cache in dir.
// Both layers default to ttl.
func NewLayeredCache(dir string, ttl time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(ttl, 2*ttl),
		disk:   NewDiskCache(dir, ttl),
	}
}

// Get retrieves a value, promoting disk hits to memory for their remaining lifetime
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		return val, true
	}

	entry, found := c.disk.lookup(key)
	if !found {
		return nil, false
	}
	if remaining := entry.ExpiresAt.Sub(c.disk.now()); remaining > 0 {
		_ = c.memory.Set(key, entry.Data, remaining)
	}
	return entry.Data, true
}

// Set stores a value in both layers
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.memory.Set(key, value, ttl); err != nil {
		return err
	}
	return c.disk.Set(key, value, ttl)
}

// Delete removes a value from both layers
func (c *LayeredCache) Delete(key string) error {
	return errors.Join(c.memory.Delete(key), c.disk.Delete(key))
}

// Clear removes all values from both layers
func (c *LayeredCache) Clear() error {
	return errors.Join(c.memory.Clear(), c.disk.Clear())
}
