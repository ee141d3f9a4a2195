package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
	done chan struct{}
	once sync.Once
}

// NewMemoryCache returns a Cache backed by a process-local map.
// Intended for development and tests; entries are swept every minute.
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		data: make(map[string]memoryEntry),
		done: make(chan struct{}),
	}
	go c.sweepRoutine()
	return c
}

func (c *MemoryCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (c *MemoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[key]
	if !exists {
		return "", ErrKeyNotFound
	}
	if time.Now().After(entry.expiresAt) {
		return "", ErrKeyNotFound
	}
	return entry.value, nil
}

func (c *MemoryCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *MemoryCache) Close() {
	c.once.Do(func() {
		close(c.done)
	})
}

func (c *MemoryCache) sweepRoutine() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.done:
			return
		}
	}
}

func (c *MemoryCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, entry := range c.data {
		if now.After(entry.expiresAt) {
			delete(c.data, key)
		}
	}
}
