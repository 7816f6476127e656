// Package book contains the book catalog domain: the record shape, its
// validation rules, partial updates, search filters and storage contracts.
package book

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/alem-hub/gradebook/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Book is a catalog record. Year is optional; when set it is never negative.
type Book struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Year      *int      `json:"year"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBookParams are the fields accepted when creating a book.
type NewBookParams struct {
	Title  string `json:"title" validate:"required,min=1"`
	Author string `json:"author" validate:"required,min=1"`
	Year   *int   `json:"year" validate:"omitnil,gte=0"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks params against the catalog rules.
func (p NewBookParams) Validate() error {
	if err := validatorInstance().Struct(p); err != nil {
		return validationError("NewBook", err)
	}
	return nil
}

// NewBook validates params and returns an unsaved book (ID is zero).
func NewBook(params NewBookParams) (*Book, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Book{
		Title:     params.Title,
		Author:    params.Author,
		Year:      copyInt(params.Year),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Clone returns a deep copy.
func (b *Book) Clone() *Book {
	if b == nil {
		return nil
	}
	c := *b
	c.Year = copyInt(b.Year)
	return &c
}

// String returns a short representation for logs.
func (b *Book) String() string {
	return fmt.Sprintf("Book{ID: %d, Title: %q, Author: %q}", b.ID, b.Title, b.Author)
}

// Apply merges a validated patch into the book.
func (b *Book) Apply(p Patch) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Year.Set {
		b.Year = copyInt(p.Year.Value)
	}
	b.UpdatedAt = time.Now().UTC()

	return nil
}

// validationError flattens validator output into one message under
// ErrBookValidation.
func validationError(op string, err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return shared.WrapError("book", op, shared.ErrValidation, "invalid book", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return shared.WrapError("book", op, shared.ErrValidation, strings.Join(msgs, "; "), shared.ErrBookValidation)
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required", "min":
		return field + " must not be empty"
	case "gte":
		return field + " must be greater than or equal to " + fe.Param()
	default:
		return field + " is invalid"
	}
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

// IntPtr is a convenience for building optional years.
func IntPtr(v int) *int {
	return &v
}
