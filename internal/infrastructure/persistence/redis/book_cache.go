package redis

import (
	"context"
	"errors"
	"time"

	"github.com/alem-hub/gradebook/internal/domain/book"
	"github.com/alem-hub/gradebook/pkg/circuitbreaker"
)

// BookCache implements book.Cache on Redis.
type BookCache struct {
	cache   *Cache
	breaker *circuitbreaker.CircuitBreaker
}

// BookCacheOption configures a BookCache.
type BookCacheOption func(*BookCache)

// WithBreaker guards every Redis call. While the circuit is open calls fail
// with circuitbreaker.ErrCircuitOpen without touching the network.
func WithBreaker(cb *circuitbreaker.CircuitBreaker) BookCacheOption {
	return func(c *BookCache) {
		c.breaker = cb
	}
}

// NewBookCache creates a new BookCache.
func NewBookCache(cache *Cache, opts ...BookCacheOption) *BookCache {
	c := &BookCache{cache: cache}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsBreakerFailure classifies Redis errors for a breaker: misses and bad
// arguments are not outages.
func IsBreakerFailure(err error) bool {
	return !errors.Is(err, ErrCacheMiss) &&
		!errors.Is(err, book.ErrCacheMiss) &&
		!errors.Is(err, ErrCacheNilValue) &&
		!errors.Is(err, ErrCacheSerialization)
}

// Get returns the cached book or book.ErrCacheMiss.
func (c *BookCache) Get(ctx context.Context, id int64) (*book.Book, error) {
	var b book.Book
	err := c.guard(ctx, func(ctx context.Context) error {
		return c.cache.Get(ctx, BookKey(id), &b)
	})
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, book.ErrCacheMiss
		}
		return nil, err
	}
	return &b, nil
}

// Set caches a book. A non-positive ttl falls back to TTLBookCache.
func (c *BookCache) Set(ctx context.Context, b *book.Book, ttl time.Duration) error {
	if b == nil {
		return ErrCacheNilValue
	}
	if ttl <= 0 {
		ttl = TTLBookCache
	}
	return c.guard(ctx, func(ctx context.Context) error {
		return c.cache.Set(ctx, BookKey(b.ID), b, ttl)
	})
}

// Invalidate drops a cached book.
func (c *BookCache) Invalidate(ctx context.Context, id int64) error {
	return c.guard(ctx, func(ctx context.Context) error {
		return c.cache.Delete(ctx, BookKey(id))
	})
}

func (c *BookCache) guard(ctx context.Context, fn func(context.Context) error) error {
	if c.breaker == nil {
		return fn(ctx)
	}
	return c.breaker.Execute(ctx, fn)
}
