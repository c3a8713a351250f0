// Package cache wraps ristretto for read-heavy report endpoints.
package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// Cache is a TTL-bounded in-process cache. Values are stored per user key
// and invalidated wholesale when that user's data changes.
type Cache struct {
	inner *ristretto.Cache
	ttl   time.Duration
}

// New creates a cache sized by max cost in bytes.
func New(numCounters, maxCostBytes int64, ttl time.Duration) (*Cache, error) {
	inner, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: numCounters, // number of keys to track frequency of
		MaxCost:     maxCostBytes,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	return &Cache{inner: inner, ttl: ttl}, nil
}

// Get returns the cached value for key, if present and fresh.
func (c *Cache) Get(key string) (any, bool) {
	return c.inner.Get(key)
}

// Set stores a value with the cache's TTL. Cost 1 per entry: the cache
// bounds entry count, not serialized size.
func (c *Cache) Set(key string, value any) {
	c.inner.SetWithTTL(key, value, 1, c.ttl)
}

// InvalidateUser drops a user's cached reports.
func (c *Cache) InvalidateUser(userID int64) {
	for _, kind := range []string{"summary", "expenses", "goals"} {
		c.inner.Del(UserKey(kind, userID))
	}
}

// Close releases the cache's internal goroutines.
func (c *Cache) Close() {
	c.inner.Close()
}

// UserKey builds the cache key for one kind of per-user report.
func UserKey(kind string, userID int64) string {
	return fmt.Sprintf("%s:%d", kind, userID)
}
