package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// CacheHandlerI is a keyed cache storing JSON encoded values with a per-entry TTL.
// Get reports false on a miss or an expired entry.
type CacheHandlerI interface {
	Get(ctx context.Context, key string, result interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// GetOrFetch returns the cached value under key, or calls fetch and caches its result for
// ttl. A failing fetch is not cached. Cache read and write errors are logged and otherwise
// treated as misses.
func GetOrFetch[T any](ctx context.Context, cache CacheHandlerI, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	logger := LoggerFromContext(ctx).WithField("cache_key", key)

	var cached T
	found, err := cache.Get(ctx, key, &cached)
	if err != nil {
		logger.WithError(err).Warn("cache read failed")
	} else if found {
		logger.Debug("cache hit")
		return cached, nil
	}
	logger.Debug("cache miss")

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := cache.Set(ctx, key, value, ttl); err != nil {
		logger.WithError(err).Warn("cache write failed")
	}
	return value, nil
}

type cacheEntry struct {
	data       []byte
	expiration time.Time
}

// MemoryCache is the in-process CacheHandlerI. Concurrent writers to the same key race
// and the last write wins.
type MemoryCache struct {
	entries map[string]cacheEntry
	mutex   sync.RWMutex
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: map[string]cacheEntry{},
		now:     time.Now,
	}
}

// WithClock replaces the time source, used to expire entries deterministically in tests.
func (c *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	c.now = now
	return c
}

func (c *MemoryCache) Get(_ context.Context, key string, result interface{}) (bool, error) {
	c.mutex.RLock()
	entry, ok := c.entries[key]
	c.mutex.RUnlock()

	if !ok || !c.now().Before(entry.expiration) {
		return false, nil
	}
	if err := json.Unmarshal(entry.data, result); err != nil {
		return false, fmt.Errorf("failed to deserialize value: %w", err)
	}
	return true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize value: %w", err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries[key] = cacheEntry{data: data, expiration: c.now().Add(ttl)}
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.entries, key)
	return nil
}

// Purge drops every expired entry.
func (c *MemoryCache) Purge() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	for key, entry := range c.entries {
		if !now.Before(entry.expiration) {
			delete(c.entries, key)
		}
	}
}

func (c *MemoryCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}
