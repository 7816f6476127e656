package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/gradebook/internal/domain/book"
	"github.com/alem-hub/gradebook/internal/domain/shared"
	"github.com/alem-hub/gradebook/internal/infrastructure/persistence/memory"
)

type spyCache struct {
	invalidated []int64
}

func (c *spyCache) Get(context.Context, int64) (*book.Book, error)        { return nil, book.ErrCacheMiss }
func (c *spyCache) Set(context.Context, *book.Book, time.Duration) error { return nil }
func (c *spyCache) Invalidate(_ context.Context, id int64) error {
	c.invalidated = append(c.invalidated, id)
	return nil
}

func strPtr(s string) *string { return &s }

func TestBookCommands(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewBookRepository()
	cache := &spyCache{}
	pub := &recordingPublisher{}

	created, err := NewCreateBookHandler(repo, pub).Handle(ctx, CreateBookCommand{
		Params: book.NewBookParams{Title: "Dune", Author: "Frank Herbert", Year: book.IntPtr(1965)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	updated, err := NewUpdateBookHandler(repo, cache, pub).Handle(ctx, UpdateBookCommand{
		ID:    created.ID,
		Patch: book.Patch{Title: strPtr("Dune Messiah"), Year: book.ClearInt()},
	})
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Title)
	assert.Equal(t, "Frank Herbert", updated.Author)
	assert.Nil(t, updated.Year)

	require.NoError(t, NewDeleteBookHandler(repo, cache, pub).Handle(ctx, DeleteBookCommand{ID: created.ID}))
	assert.Equal(t, []int64{1, 1}, cache.invalidated)
	assert.Equal(t, 0, repo.Len())

	require.Len(t, pub.events, 3)
	assert.Equal(t, shared.EventBookDeleted, pub.events[2].EventType())
	assert.Equal(t, "1", pub.events[2].AggregateID())
}

func TestCreateBook_Invalid(t *testing.T) {
	repo := memory.NewBookRepository()
	_, err := NewCreateBookHandler(repo, nil).Handle(context.Background(), CreateBookCommand{
		Params: book.NewBookParams{Title: "", Author: "a"},
	})
	assert.ErrorIs(t, err, shared.ErrBookValidation)
	assert.Equal(t, 0, repo.Len())
}

func TestUpdateBook_Errors(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewBookRepository()
	h := NewUpdateBookHandler(repo, nil, nil)

	_, err := h.Handle(ctx, UpdateBookCommand{ID: 42, Patch: book.Patch{Title: strPtr("x")}})
	assert.ErrorIs(t, err, shared.ErrBookNotFound)

	_, err = h.Handle(ctx, UpdateBookCommand{ID: 42, Patch: book.Patch{Year: book.SetInt(-3)}})
	assert.ErrorIs(t, err, shared.ErrBookValidation)
}

func TestDeleteBook_NotFound(t *testing.T) {
	err := NewDeleteBookHandler(memory.NewBookRepository(), nil, nil).Handle(context.Background(), DeleteBookCommand{ID: 9})
	assert.ErrorIs(t, err, shared.ErrBookNotFound)
}
