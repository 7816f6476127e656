package command

import (
	"context"
	"strconv"

	"github.com/alem-hub/gradebook/internal/domain/book"
	"github.com/alem-hub/gradebook/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE BOOK COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// CreateBookCommand contains the fields of a new catalog record.
type CreateBookCommand struct {
	Params book.NewBookParams
}

// CreateBookHandler handles the CreateBookCommand.
type CreateBookHandler struct {
	repo      book.Repository
	publisher shared.EventPublisher
}

// NewCreateBookHandler creates a new CreateBookHandler.
func NewCreateBookHandler(repo book.Repository, publisher shared.EventPublisher) *CreateBookHandler {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	return &CreateBookHandler{repo: repo, publisher: publisher}
}

// Handle validates and stores the book, returning it with its assigned ID.
func (h *CreateBookHandler) Handle(ctx context.Context, cmd CreateBookCommand) (*book.Book, error) {
	b, err := book.NewBook(cmd.Params)
	if err != nil {
		return nil, err
	}

	if err := h.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	_ = h.publisher.Publish(shared.NewBookChangedEvent(shared.EventBookCreated, bookID(b.ID), b.Title, b.Author))

	return b, nil
}

func bookID(id int64) string {
	return strconv.FormatInt(id, 10)
}
