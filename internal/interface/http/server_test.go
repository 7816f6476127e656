package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/alem-hub/gradebook/internal/application/command"
	"github.com/alem-hub/gradebook/internal/application/query"
	"github.com/alem-hub/gradebook/internal/domain/book"
	"github.com/alem-hub/gradebook/internal/domain/shared"
	"github.com/alem-hub/gradebook/internal/infrastructure/metrics"
	"github.com/alem-hub/gradebook/internal/infrastructure/persistence/localcache"
	"github.com/alem-hub/gradebook/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/gradebook/internal/interface/http/handlers"
)

type testEnv struct {
	server  *Server
	repo    *memory.BookRepository
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T, mutate func(*Config)) *testEnv {
	t.Helper()

	repo := memory.NewBookRepository()
	cache := localcache.NewBookCache(time.Minute, time.Minute)
	m := metrics.New()

	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	srv := NewServer(cfg, Dependencies{
		CreateBookHandler:  command.NewCreateBookHandler(repo, nil),
		UpdateBookHandler:  command.NewUpdateBookHandler(repo, cache, nil),
		DeleteBookHandler:  command.NewDeleteBookHandler(repo, cache, nil),
		GetBookHandler:     query.NewGetBookHandler(repo, cache, time.Minute, m),
		ListBooksHandler:   query.NewListBooksHandler(repo),
		SearchBooksHandler: query.NewSearchBooksHandler(repo),
		Metrics:            m,
	})

	return &testEnv{server: srv, repo: repo, metrics: m}
}

func (e *testEnv) do(t *testing.T, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBook(t *testing.T, rec *httptest.ResponseRecorder) book.Book {
	t.Helper()
	var b book.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	return b
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error APIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error.Code
}

func TestServer_RootAndHealthcheck(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<div align=center>")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = env.do(t, http.MethodGet, "/healthcheck", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Health(t *testing.T) {
	checker := handlers.NewCompositeHealthChecker("test")
	checker.AddCheck("store", func(context.Context) error { return nil })
	checker.AddCheck("cache", func(context.Context) error { return errors.New("down") })

	srv := NewServer(DefaultConfig(), Dependencies{HealthChecker: checker})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var status handlers.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.False(t, status.Healthy)
	assert.Equal(t, "Some checks failed: cache", status.Message)
	assert.True(t, status.Checks["store"].Healthy)
}

func TestServer_BookCRUD(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/books", `{"title":"Dune","author":"Frank Herbert","year":1965}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBook(t, rec)
	assert.Equal(t, int64(1), created.ID)
	require.NotNil(t, created.Year)
	assert.Equal(t, 1965, *created.Year)

	rec = env.do(t, http.MethodGet, "/books/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Dune", decodeBook(t, rec).Title)

	rec = env.do(t, http.MethodPut, "/books/1", `{"title":"Dune Messiah"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBook(t, rec)
	assert.Equal(t, "Dune Messiah", updated.Title)
	assert.Equal(t, "Frank Herbert", updated.Author)
	require.NotNil(t, updated.Year)

	// The cached copy was invalidated by the update.
	rec = env.do(t, http.MethodGet, "/books/1", "")
	assert.Equal(t, "Dune Messiah", decodeBook(t, rec).Title)

	rec = env.do(t, http.MethodPut, "/books/1", `{"year":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decodeBook(t, rec).Year)

	rec = env.do(t, http.MethodDelete, "/books/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Item 1 removed from database"}`, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/books/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec))

	rec = env.do(t, http.MethodDelete, "/books/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_BookErrors(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
		code   string
	}{
		{"malformed json", http.MethodPost, "/books", `{"title":`, http.StatusBadRequest, "invalid_json"},
		{"empty title", http.MethodPost, "/books", `{"title":"","author":"a"}`, http.StatusUnprocessableEntity, "validation_error"},
		{"negative year", http.MethodPost, "/books", `{"title":"t","author":"a","year":-1}`, http.StatusUnprocessableEntity, "validation_error"},
		{"wrong type", http.MethodPost, "/books", `{"title":"t","author":"a","year":"soon"}`, http.StatusUnprocessableEntity, "validation_error"},
		{"non numeric id", http.MethodGet, "/books/abc", "", http.StatusBadRequest, "invalid_id"},
		{"update missing", http.MethodPut, "/books/42", `{"title":"x"}`, http.StatusNotFound, "not_found"},
		{"null title", http.MethodPut, "/books/42", `{"title":null}`, http.StatusUnprocessableEntity, "validation_error"},
		{"bad page", http.MethodGet, "/books?page=-1", "", http.StatusBadRequest, "invalid_page"},
		{"limit too large", http.MethodGet, "/books?limit=1000", "", http.StatusBadRequest, "invalid_page"},
		{"page past last offset", http.MethodGet, "/books?limit=100&page=" + strconv.Itoa(shared.MaxPage+1), "", http.StatusBadRequest, "invalid_page"},
		{"page not a number", http.MethodGet, "/books?page=x", "", http.StatusBadRequest, "invalid_query"},
		{"year not a number", http.MethodGet, "/books/search?year=x", "", http.StatusBadRequest, "invalid_query"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}

	assert.Equal(t, 0, env.repo.Len())
}

func TestServer_ListAndSearch(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, body := range []string{
		`{"title":"Dune","author":"Frank Herbert","year":1965}`,
		`{"title":"Dune Messiah","author":"Frank Herbert","year":1969}`,
		`{"title":"The Hobbit","author":"J.R.R. Tolkien","year":1937}`,
	} {
		require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/books", body).Code)
	}

	list := func(target string) []book.Book {
		rec := env.do(t, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var books []book.Book
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &books))
		return books
	}

	assert.Len(t, list("/books"), 3)

	page := list("/books?page=2&limit=2")
	require.Len(t, page, 1)
	assert.Equal(t, "The Hobbit", page[0].Title)

	assert.Len(t, list("/books/search?title=dune"), 2)
	assert.Len(t, list("/books/search?title=dune&year=1969"), 1)
	assert.Empty(t, list("/books/search?title=dune&author=tolkien"))
	assert.Empty(t, list("/books/search"))

	last := strconv.Itoa(shared.MaxPage)
	assert.Empty(t, list("/books?limit=100&page="+last))
	assert.Empty(t, list("/books/search?title=dune&limit=100&page="+last))
}

func TestServer_APIKeyAuth(t *testing.T) {
	hash, err := handlers.HashAPIKey("s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	env := newTestEnv(t, func(c *Config) { c.APIKeyHash = hash })
	body := `{"title":"Dune","author":"Frank Herbert"}`

	rec := env.do(t, http.MethodPost, "/books", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "missing_api_key", errorCode(t, rec))

	rec = env.do(t, http.MethodPost, "/books", body, "X-API-Key", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_api_key", errorCode(t, rec))

	rec = env.do(t, http.MethodPost, "/books", body, "X-API-Key", "s3cret")
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodDelete, "/books/1", "", "Authorization", "Bearer s3cret")
	assert.Equal(t, http.StatusOK, rec.Code)

	// Reads stay open.
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/books", "").Code)
}

func TestServer_Metrics(t *testing.T) {
	env := newTestEnv(t, nil)

	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/books", `{"title":"Dune","author":"Herbert"}`).Code)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/books/1", "").Code)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/books/1", "").Code)

	rec := env.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `gradebook_http_requests_total{route="POST /books",status="201"} 1`)
	assert.Contains(t, body, `gradebook_http_requests_total{route="GET /books/{id}",status="200"} 2`)
	assert.Contains(t, body, `gradebook_book_cache_lookups_total{result="hit"} 1`)
	assert.Contains(t, body, `gradebook_book_cache_lookups_total{result="miss"} 1`)
}

func TestServer_RateLimit(t *testing.T) {
	env := newTestEnv(t, func(c *Config) { c.RateLimitPerMinute = 2 })
	defer env.server.rateLimiter.Stop()

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/healthcheck", "").Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/healthcheck", "").Code)

	rec := env.do(t, http.MethodGet, "/healthcheck", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestServer_RecoversFromPanic(t *testing.T) {
	srv := NewServer(DefaultConfig(), Dependencies{})
	h := srv.recoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPatchFromJSON(t *testing.T) {
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(`{"author":"Anon","year":2001}`), &raw))

	patch, err := patchFromJSON(raw)
	require.NoError(t, err)
	assert.Nil(t, patch.Title)
	assert.Equal(t, "Anon", *patch.Author)
	assert.Equal(t, book.SetInt(2001), patch.Year)

	patch, err = patchFromJSON(map[string]json.RawMessage{})
	require.NoError(t, err)
	assert.True(t, patch.IsEmpty())

	_, err = patchFromJSON(map[string]json.RawMessage{"year": json.RawMessage(`1.5`)})
	assert.Error(t, err)
}
