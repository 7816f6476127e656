// Package localcache is the in-process book cache used when Redis is not
// configured.
package localcache

import (
	"context"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/alem-hub/gradebook/internal/domain/book"
)

const (
	DefaultExpiration      = 5 * time.Minute
	DefaultCleanupInterval = 10 * time.Minute
)

// BookCache implements book.Cache in memory. Entries are cloned on the way
// in and out, so callers never share a *book.Book with the cache.
type BookCache struct {
	cache *gocache.Cache
}

// NewBookCache creates a cache. Zero durations fall back to the defaults.
func NewBookCache(defaultExpiration, cleanupInterval time.Duration) *BookCache {
	if defaultExpiration <= 0 {
		defaultExpiration = DefaultExpiration
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	return &BookCache{cache: gocache.New(defaultExpiration, cleanupInterval)}
}

// Get returns the cached book or book.ErrCacheMiss.
func (c *BookCache) Get(_ context.Context, id int64) (*book.Book, error) {
	value, found := c.cache.Get(key(id))
	if !found {
		return nil, book.ErrCacheMiss
	}

	b, ok := value.(*book.Book)
	if !ok {
		c.cache.Delete(key(id))
		return nil, book.ErrCacheMiss
	}

	return b.Clone(), nil
}

// Set caches a copy of b. A non-positive ttl uses the cache default.
func (c *BookCache) Set(_ context.Context, b *book.Book, ttl time.Duration) error {
	if b == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	c.cache.Set(key(b.ID), b.Clone(), ttl)
	return nil
}

// Invalidate drops a cached book.
func (c *BookCache) Invalidate(_ context.Context, id int64) error {
	c.cache.Delete(key(id))
	return nil
}

// Len returns the number of cached entries, expired ones included.
func (c *BookCache) Len() int {
	return c.cache.ItemCount()
}

// Flush drops everything.
func (c *BookCache) Flush() {
	c.cache.Flush()
}

func key(id int64) string {
	return strconv.FormatInt(id, 10)
}
