package query

import (
	"context"

	"github.com/alem-hub/gradebook/internal/domain/book"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST / SEARCH BOOKS QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// ListBooksQuery - постраничный список. Нулевые значения означают
// первую страницу и размер по умолчанию.
type ListBooksQuery struct {
	Page  int
	Limit int
}

// ListBooksHandler обрабатывает запрос списка книг.
type ListBooksHandler struct {
	repo book.Repository
}

// NewListBooksHandler создаёт новый обработчик.
func NewListBooksHandler(repo book.Repository) *ListBooksHandler {
	return &ListBooksHandler{repo: repo}
}

// Handle возвращает одну страницу, упорядоченную по ID.
func (h *ListBooksHandler) Handle(ctx context.Context, q ListBooksQuery) ([]*book.Book, error) {
	page, err := book.NewPage(q.Page, q.Limit)
	if err != nil {
		return nil, err
	}
	return h.repo.List(ctx, page)
}

// SearchBooksQuery - поиск по названию, автору и году (все условия через AND).
type SearchBooksQuery struct {
	Filter book.SearchFilter
	Page   int
	Limit  int
}

// SearchBooksHandler обрабатывает поиск книг.
type SearchBooksHandler struct {
	repo book.Repository
}

// NewSearchBooksHandler создаёт новый обработчик.
func NewSearchBooksHandler(repo book.Repository) *SearchBooksHandler {
	return &SearchBooksHandler{repo: repo}
}

// Handle возвращает совпадения. Без фильтров результат пустой,
// хранилище не вызывается.
func (h *SearchBooksHandler) Handle(ctx context.Context, q SearchBooksQuery) ([]*book.Book, error) {
	page, err := book.NewPage(q.Page, q.Limit)
	if err != nil {
		return nil, err
	}
	if q.Filter.IsEmpty() {
		return []*book.Book{}, nil
	}
	return h.repo.Search(ctx, q.Filter, page)
}
