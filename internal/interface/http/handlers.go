package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/alem-hub/gradebook/internal/application/command"
	"github.com/alem-hub/gradebook/internal/application/query"
	"github.com/alem-hub/gradebook/internal/domain/book"
	"github.com/alem-hub/gradebook/internal/domain/shared"
	"github.com/alem-hub/gradebook/pkg/logger"
)

const rootGreeting = `<div align=center><h4>Hello from the gradebook book catalog!<br>` +
	`Browse the collection at <a href="/books">/books</a>.</h4></div>`

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(rootGreeting))
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.deps.HealthChecker.Check(r.Context())

	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

// ══════════════════════════════════════════════════════════════════════════════
// BOOK READ HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListBooks handles GET /books?page=&limit=
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := s.pageParams(w, r)
	if !ok {
		return
	}

	books, err := s.deps.ListBooksHandler.Handle(r.Context(), query.ListBooksQuery{
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		s.writeDomainError(w, r, "list books", err)
		return
	}

	writeJSON(w, http.StatusOK, books)
}

// handleSearchBooks handles GET /books/search?title=&author=&year=&page=&limit=
func (s *Server) handleSearchBooks(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := s.pageParams(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := book.SearchFilter{
		Title:  strings.TrimSpace(q.Get("title")),
		Author: strings.TrimSpace(q.Get("author")),
	}
	if raw := strings.TrimSpace(q.Get("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_query", `query parameter "year" must be an integer`)
			return
		}
		filter.Year = &year
	}

	books, err := s.deps.SearchBooksHandler.Handle(r.Context(), query.SearchBooksQuery{
		Filter: filter,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		s.writeDomainError(w, r, "search books", err)
		return
	}

	writeJSON(w, http.StatusOK, books)
}

// handleGetBook handles GET /books/{id}
func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	b, err := s.deps.GetBookHandler.Handle(r.Context(), query.GetBookQuery{ID: id})
	if err != nil {
		s.writeDomainError(w, r, "get book", err)
		return
	}

	writeJSON(w, http.StatusOK, b)
}

// ══════════════════════════════════════════════════════════════════════════════
// BOOK WRITE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleCreateBook handles POST /books
func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var params book.NewBookParams
	if !s.decodeBody(w, r, &params) {
		return
	}

	b, err := s.deps.CreateBookHandler.Handle(r.Context(), command.CreateBookCommand{Params: params})
	if err != nil {
		s.writeDomainError(w, r, "create book", err)
		return
	}

	logger.FromContext(r.Context()).Info("book created", logger.BookID(b.ID))
	writeJSON(w, http.StatusCreated, b)
}

// handleUpdateBook handles PUT /books/{id}. Absent fields are left alone,
// an explicit null year clears it.
func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var raw map[string]json.RawMessage
	if !s.decodeBody(w, r, &raw) {
		return
	}

	patch, err := patchFromJSON(raw)
	if err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	b, err := s.deps.UpdateBookHandler.Handle(r.Context(), command.UpdateBookCommand{ID: id, Patch: patch})
	if err != nil {
		s.writeDomainError(w, r, "update book", err)
		return
	}

	writeJSON(w, http.StatusOK, b)
}

// handleDeleteBook handles DELETE /books/{id}
func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.deps.DeleteBookHandler.Handle(r.Context(), command.DeleteBookCommand{ID: id}); err != nil {
		s.writeDomainError(w, r, "delete book", err)
		return
	}

	logger.FromContext(r.Context()).Info("book deleted", logger.BookID(id))
	writeJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Item %d removed from database", id),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST PARSING
// ══════════════════════════════════════════════════════════════════════════════

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "book id must be an integer")
		return 0, false
	}
	return id, true
}

func (s *Server) pageParams(w http.ResponseWriter, r *http.Request) (page, limit int, ok bool) {
	page, err := queryInt(r, "page")
	if err == nil {
		limit, err = queryInt(r, "limit")
	}
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return 0, 0, false
	}
	return page, limit, true
}

// decodeBody reports malformed JSON as 400 and wrongly typed fields as 422.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		writeJSONErrorWithDetails(w, http.StatusUnprocessableEntity, "validation_error",
			fmt.Sprintf("field %q has the wrong type", typeErr.Field), typeErr.Error())
		return false
	}

	writeJSONErrorWithDetails(w, http.StatusBadRequest, "invalid_json", "Request body is not valid JSON", err.Error())
	return false
}

// patchFromJSON builds a patch from the raw body so an explicit null year
// can be told apart from an absent one.
func patchFromJSON(raw map[string]json.RawMessage) (book.Patch, error) {
	var patch book.Patch

	for _, field := range []string{"title", "author"} {
		value, present := raw[field]
		if !present {
			continue
		}
		if isNull(value) {
			return book.Patch{}, fmt.Errorf("%s must not be null", field)
		}
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return book.Patch{}, fmt.Errorf("%s must be a string", field)
		}
		if field == "title" {
			patch.Title = &s
		} else {
			patch.Author = &s
		}
	}

	if value, present := raw["year"]; present {
		if isNull(value) {
			patch.Year = book.ClearInt()
		} else {
			var year int
			if err := json.Unmarshal(value, &year); err != nil {
				return book.Patch{}, errors.New("year must be an integer or null")
			}
			patch.Year = book.SetInt(year)
		}
	}

	return patch, nil
}

func isNull(value json.RawMessage) bool {
	return strings.TrimSpace(string(value)) == "null"
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeDomainError maps domain error kinds onto HTTP statuses.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var de *shared.DomainError
	message := err.Error()
	if errors.As(err, &de) {
		message = de.Message
	}

	switch {
	case errors.Is(err, shared.ErrInvalidPage):
		writeJSONError(w, http.StatusBadRequest, "invalid_page", message)
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", "Book not found")
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusUnprocessableEntity, "validation_error", message)
	default:
		logger.FromContext(r.Context()).Error("request failed",
			logger.Operation(op),
			logger.Err(err),
		)
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}
