package book

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alem-hub/gradebook/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEARCH
// ══════════════════════════════════════════════════════════════════════════════

// SearchFilter selects books matching every provided criterion (AND).
// Title and Author are case-insensitive substrings; Year is exact.
// Empty strings and a nil Year count as not provided.
type SearchFilter struct {
	Title  string
	Author string
	Year   *int
}

// IsEmpty reports whether no criterion is set. An empty filter matches
// nothing.
func (f SearchFilter) IsEmpty() bool {
	return f.Title == "" && f.Author == "" && f.Year == nil
}

// Matches applies the filter to a single book.
func (f SearchFilter) Matches(b *Book) bool {
	if f.IsEmpty() {
		return false
	}
	if f.Title != "" && !containsFold(b.Title, f.Title) {
		return false
	}
	if f.Author != "" && !containsFold(b.Author, f.Author) {
		return false
	}
	if f.Year != nil && (b.Year == nil || *b.Year != *f.Year) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// NewPage validates 1-based paging parameters. Zero limit falls back to the
// default page size.
func NewPage(number, limit int) (shared.Pagination, error) {
	if limit == 0 {
		limit = shared.DefaultPageSize
	}
	if number == 0 {
		number = 1
	}
	p, err := shared.NewPagination(number, limit)
	if err != nil {
		return shared.Pagination{}, shared.WrapError("book", "Paginate", shared.ErrValueOutOfRange, err.Error(), shared.ErrInvalidPage)
	}
	return p, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CONTRACTS
// ══════════════════════════════════════════════════════════════════════════════

// Repository stores books. Implementations return shared.ErrBookNotFound for
// missing IDs and wrap backend failures in shared.ErrBookStore.
type Repository interface {
	// Create inserts b and assigns its ID.
	Create(ctx context.Context, b *Book) error

	// Get returns the book with the given ID.
	Get(ctx context.Context, id int64) (*Book, error)

	// Update overwrites title, author and year of an existing book.
	Update(ctx context.Context, b *Book) error

	// Delete removes the book with the given ID.
	Delete(ctx context.Context, id int64) error

	// List returns one page ordered by ID.
	List(ctx context.Context, page shared.Pagination) ([]*Book, error)

	// Search returns one page of books matching filter, ordered by ID.
	Search(ctx context.Context, filter SearchFilter, page shared.Pagination) ([]*Book, error)
}

// ErrCacheMiss is returned by Cache.Get when the book is not cached.
var ErrCacheMiss = errors.New("book cache: miss")

// Cache is a read-through cache in front of Repository.
type Cache interface {
	Get(ctx context.Context, id int64) (*Book, error)
	Set(ctx context.Context, b *Book, ttl time.Duration) error
	Invalidate(ctx context.Context, id int64) error
}
