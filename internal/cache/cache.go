// Package cache stores generated scene illustrations.
package cache

import (
	"context"
	"sync"
	"time"

	"adventure-server/internal/generation"
)

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryImageCache is a process local image cache with per entry expiry.
type MemoryImageCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

var _ generation.ImageCache = (*MemoryImageCache)(nil)

// NewMemoryImageCache creates a cache whose entries live for ttl. A zero ttl never expires.
func NewMemoryImageCache(ttl time.Duration) *MemoryImageCache {
	return &MemoryImageCache{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

// Get implements generation.ImageCache.
func (c *MemoryImageCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return "", false, nil
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		delete(c.entries, key)
		return "", false, nil
	}
	return e.value, true, nil
}

// Set implements generation.ImageCache.
func (c *MemoryImageCache) Set(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := memoryEntry{value: value}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.entries[key] = e
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryImageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
