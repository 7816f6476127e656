// Package memory provides an in-process book repository. It backs the default
// "memory" catalog driver and the handler tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/alem-hub/gradebook/internal/domain/book"
	"github.com/alem-hub/gradebook/internal/domain/shared"
)

// BookRepository implements book.Repository with a map guarded by a mutex.
type BookRepository struct {
	mu     sync.RWMutex
	books  map[int64]*book.Book
	nextID int64
}

// NewBookRepository creates an empty repository. IDs start at 1.
func NewBookRepository() *BookRepository {
	return &BookRepository{
		books:  make(map[int64]*book.Book),
		nextID: 1,
	}
}

// Create inserts b and assigns its ID.
func (r *BookRepository) Create(_ context.Context, b *book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b.ID = r.nextID
	r.nextID++
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	b.UpdatedAt = b.CreatedAt
	r.books[b.ID] = b.Clone()

	return nil
}

// Get returns a copy of the stored book.
func (r *BookRepository) Get(_ context.Context, id int64) (*book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.books[id]
	if !ok {
		return nil, shared.ErrBookNotFound
	}
	return b.Clone(), nil
}

// Update overwrites an existing book.
func (r *BookRepository) Update(_ context.Context, b *book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[b.ID]; !ok {
		return shared.ErrBookNotFound
	}
	r.books[b.ID] = b.Clone()
	return nil
}

// Delete removes a book.
func (r *BookRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[id]; !ok {
		return shared.ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}

// List returns one page ordered by ID.
func (r *BookRepository) List(_ context.Context, page shared.Pagination) ([]*book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return paginate(r.sorted(nil), page), nil
}

// Search returns one page of matches ordered by ID.
func (r *BookRepository) Search(_ context.Context, filter book.SearchFilter, page shared.Pagination) ([]*book.Book, error) {
	if filter.IsEmpty() {
		return []*book.Book{}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return paginate(r.sorted(filter.Matches), page), nil
}

// Len returns the number of stored books.
func (r *BookRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.books)
}

func (r *BookRepository) sorted(keep func(*book.Book) bool) []*book.Book {
	out := make([]*book.Book, 0, len(r.books))
	for _, b := range r.books {
		if keep == nil || keep(b) {
			out = append(out, b.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func paginate(books []*book.Book, page shared.Pagination) []*book.Book {
	offset := page.Offset()
	if offset < 0 || offset >= len(books) {
		return []*book.Book{}
	}
	end := offset + page.Limit()
	if end > len(books) || end < offset {
		end = len(books)
	}
	return books[offset:end]
}
