package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alem-hub/gradebook/internal/domain/book"
	"github.com/alem-hub/gradebook/internal/domain/shared"
)

const bookColumns = `id, title, author, year, created_at, updated_at`

// BookRepository implements book.Repository on SQLite.
type BookRepository struct {
	db *DB
}

// NewBookRepository creates a new BookRepository.
func NewBookRepository(db *DB) *BookRepository {
	return &BookRepository{db: db}
}

// Create inserts a book and assigns its ID.
func (r *BookRepository) Create(ctx context.Context, b *book.Book) error {
	now := time.Now().UTC()

	res, err := r.db.SQL().ExecContext(ctx,
		`INSERT INTO books (title, author, year, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		b.Title, b.Author, nullableYear(b.Year), formatTime(now), formatTime(now),
	)
	if err != nil {
		return storeError("Create", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return storeError("Create", err)
	}

	b.ID = id
	b.CreatedAt = now
	b.UpdatedAt = now
	return nil
}

// Get returns a book by ID.
func (r *BookRepository) Get(ctx context.Context, id int64) (*book.Book, error) {
	row := r.db.SQL().QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	b, err := scanBook(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrBookNotFound
		}
		return nil, storeError("Get", err)
	}
	return b, nil
}

// Update overwrites title, author and year.
func (r *BookRepository) Update(ctx context.Context, b *book.Book) error {
	now := time.Now().UTC()

	res, err := r.db.SQL().ExecContext(ctx,
		`UPDATE books SET title = ?, author = ?, year = ?, updated_at = ? WHERE id = ?`,
		b.Title, b.Author, nullableYear(b.Year), formatTime(now), b.ID,
	)
	if err != nil {
		return storeError("Update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return shared.ErrBookNotFound
	}

	b.UpdatedAt = now
	return nil
}

// Delete removes a book.
func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.SQL().ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return storeError("Delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return shared.ErrBookNotFound
	}
	return nil
}

// List returns one page ordered by ID.
func (r *BookRepository) List(ctx context.Context, page shared.Pagination) ([]*book.Book, error) {
	rows, err := r.db.SQL().QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY id LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset(),
	)
	if err != nil {
		return nil, storeError("List", err)
	}
	return collectBooks(rows)
}

// Search returns one page of books matching every filter criterion.
func (r *BookRepository) Search(ctx context.Context, filter book.SearchFilter, page shared.Pagination) ([]*book.Book, error) {
	if filter.IsEmpty() {
		return []*book.Book{}, nil
	}

	var (
		conds []string
		args  []any
	)
	if filter.Title != "" {
		conds = append(conds, `lower(title) LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(filter.Title))
	}
	if filter.Author != "" {
		conds = append(conds, `lower(author) LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(filter.Author))
	}
	if filter.Year != nil {
		conds = append(conds, `year = ?`)
		args = append(args, *filter.Year)
	}
	args = append(args, page.Limit(), page.Offset())

	query := `SELECT ` + bookColumns + ` FROM books WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY id LIMIT ? OFFSET ?`

	rows, err := r.db.SQL().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError("Search", err)
	}
	return collectBooks(rows)
}

func likePattern(s string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(s))
	return "%" + escaped + "%"
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(row scanner) (*book.Book, error) {
	var (
		b                book.Book
		year             sql.NullInt64
		created, updated string
	)
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &year, &created, &updated); err != nil {
		return nil, err
	}
	if year.Valid {
		b.Year = book.IntPtr(int(year.Int64))
	}
	b.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	b.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return &b, nil
}

func collectBooks(rows *sql.Rows) ([]*book.Book, error) {
	defer rows.Close()

	books := make([]*book.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, storeError("Scan", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("Scan", err)
	}
	return books, nil
}

func nullableYear(y *int) any {
	if y == nil {
		return nil
	}
	return *y
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func storeError(op string, err error) error {
	if strings.Contains(err.Error(), "constraint failed") {
		return shared.WrapError("book", op, shared.ErrValidation, "constraint violation", err)
	}
	return shared.WrapError("book", op, shared.ErrStore, "sqlite", fmt.Errorf("%w: %v", shared.ErrBookStore, err))
}
