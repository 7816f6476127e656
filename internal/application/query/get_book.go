package query

import (
	"context"
	"errors"
	"time"

	"github.com/alem-hub/gradebook/internal/domain/book"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET BOOK QUERY
// Книга по ID. Сначала кэш, затем хранилище (cache-aside).
// ══════════════════════════════════════════════════════════════════════════════

// GetBookQuery содержит ID книги.
type GetBookQuery struct {
	ID int64
}

// CacheObserver получает результат каждого обращения к кэшу. Опционально.
type CacheObserver interface {
	CacheLookup(hit bool)
}

// GetBookHandler обрабатывает запрос книги.
type GetBookHandler struct {
	repo     book.Repository
	cache    book.Cache
	ttl      time.Duration
	observer CacheObserver
}

// NewGetBookHandler создаёт обработчик. cache может быть nil.
func NewGetBookHandler(repo book.Repository, cache book.Cache, ttl time.Duration, observer CacheObserver) *GetBookHandler {
	return &GetBookHandler{repo: repo, cache: cache, ttl: ttl, observer: observer}
}

// Handle возвращает книгу или shared.ErrBookNotFound.
// Ошибки кэша не влияют на результат - просто идём в хранилище.
func (h *GetBookHandler) Handle(ctx context.Context, q GetBookQuery) (*book.Book, error) {
	if h.cache != nil {
		cached, err := h.cache.Get(ctx, q.ID)
		if err == nil && cached != nil {
			h.observe(true)
			return cached, nil
		}
		if err == nil || errors.Is(err, book.ErrCacheMiss) {
			h.observe(false)
		}
	}

	b, err := h.repo.Get(ctx, q.ID)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		_ = h.cache.Set(ctx, b, h.ttl)
	}

	return b, nil
}

func (h *GetBookHandler) observe(hit bool) {
	if h.observer != nil {
		h.observer.CacheLookup(hit)
	}
}
