package command

import (
	"context"

	"github.com/alem-hub/gradebook/internal/domain/book"
	"github.com/alem-hub/gradebook/internal/domain/shared"
)

// DeleteBookCommand identifies the book to remove.
type DeleteBookCommand struct {
	ID int64
}

// DeleteBookHandler handles the DeleteBookCommand.
type DeleteBookHandler struct {
	repo      book.Repository
	cache     book.Cache
	publisher shared.EventPublisher
}

// NewDeleteBookHandler creates a new DeleteBookHandler.
func NewDeleteBookHandler(repo book.Repository, cache book.Cache, publisher shared.EventPublisher) *DeleteBookHandler {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	return &DeleteBookHandler{repo: repo, cache: cache, publisher: publisher}
}

// Handle removes the book. Missing IDs yield shared.ErrBookNotFound.
func (h *DeleteBookHandler) Handle(ctx context.Context, cmd DeleteBookCommand) error {
	if err := h.repo.Delete(ctx, cmd.ID); err != nil {
		return err
	}

	if h.cache != nil {
		_ = h.cache.Invalidate(ctx, cmd.ID)
	}

	_ = h.publisher.Publish(shared.NewBookChangedEvent(shared.EventBookDeleted, bookID(cmd.ID), "", ""))

	return nil
}
