package localcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/gradebook/internal/domain/book"
)

func TestBookCache_GetSetInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewBookCache(0, 0)

	_, err := c.Get(ctx, 1)
	assert.ErrorIs(t, err, book.ErrCacheMiss)

	b := &book.Book{ID: 1, Title: "Dune", Author: "Frank Herbert", Year: book.IntPtr(1965)}
	require.NoError(t, c.Set(ctx, b, 0))
	assert.Equal(t, 1, c.Len())

	got, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)

	// The cache keeps its own copy.
	b.Title = "changed"
	*b.Year = 2000
	got.Title = "also changed"

	again, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Dune", again.Title)
	assert.Equal(t, 1965, *again.Year)

	require.NoError(t, c.Invalidate(ctx, 1))
	_, err = c.Get(ctx, 1)
	assert.ErrorIs(t, err, book.ErrCacheMiss)
}

func TestBookCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewBookCache(time.Hour, time.Hour)

	require.NoError(t, c.Set(ctx, &book.Book{ID: 2, Title: "t", Author: "a"}, 10*time.Millisecond))

	assert.Eventually(t, func() bool {
		_, err := c.Get(ctx, 2)
		return err != nil
	}, time.Second, 5*time.Millisecond)

	c.Flush()
	assert.Zero(t, c.Len())
}

func TestBookCache_SetNil(t *testing.T) {
	c := NewBookCache(0, 0)
	assert.NoError(t, c.Set(context.Background(), nil, 0))
	assert.Zero(t, c.Len())
}
