package command

import (
	"context"

	"github.com/alem-hub/gradebook/internal/domain/book"
	"github.com/alem-hub/gradebook/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE BOOK COMMAND
// Partial update: only fields present in the patch change.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateBookCommand contains the target ID and the patch.
type UpdateBookCommand struct {
	ID    int64
	Patch book.Patch
}

// UpdateBookHandler handles the UpdateBookCommand.
type UpdateBookHandler struct {
	repo      book.Repository
	cache     book.Cache // Optional, invalidated after a successful write
	publisher shared.EventPublisher
}

// NewUpdateBookHandler creates a new UpdateBookHandler.
func NewUpdateBookHandler(repo book.Repository, cache book.Cache, publisher shared.EventPublisher) *UpdateBookHandler {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	return &UpdateBookHandler{repo: repo, cache: cache, publisher: publisher}
}

// Handle loads the book, applies the patch and saves it.
func (h *UpdateBookHandler) Handle(ctx context.Context, cmd UpdateBookCommand) (*book.Book, error) {
	if err := cmd.Patch.Validate(); err != nil {
		return nil, err
	}

	b, err := h.repo.Get(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	if cmd.Patch.IsEmpty() {
		return b, nil
	}

	if err := b.Apply(cmd.Patch); err != nil {
		return nil, err
	}

	if err := h.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	if h.cache != nil {
		// A stale entry expires on its own TTL; a failed invalidation is not fatal.
		_ = h.cache.Invalidate(ctx, b.ID)
	}

	_ = h.publisher.Publish(shared.NewBookChangedEvent(shared.EventBookUpdated, bookID(b.ID), b.Title, b.Author))

	return b, nil
}
