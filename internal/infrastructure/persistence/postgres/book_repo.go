package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/alem-hub/gradebook/internal/domain/book"
	"github.com/alem-hub/gradebook/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// BOOK REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const bookColumns = `id, title, author, year, created_at, updated_at`

// BookRepository implements book.Repository for PostgreSQL.
type BookRepository struct {
	conn *Connection
}

// NewBookRepository creates a new BookRepository.
func NewBookRepository(conn *Connection) *BookRepository {
	return &BookRepository{conn: conn}
}

func (r *BookRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d := r.conn.Config().QueryTimeout; d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return ctx, func() {}
}

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create inserts a book and fills in its ID and timestamps.
func (r *BookRepository) Create(ctx context.Context, b *book.Book) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO books (title, author, year)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.conn.QueryRow(ctx, query, b.Title, b.Author, b.Year).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return storeError("Create", err)
	}

	return nil
}

// Get returns a book by ID.
func (r *BookRepository) Get(ctx context.Context, id int64) (*book.Book, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	b, err := scanBook(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrBookNotFound
		}
		return nil, storeError("Get", err)
	}

	return b, nil
}

// Update overwrites title, author and year.
func (r *BookRepository) Update(ctx context.Context, b *book.Book) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE books
		SET title = $2, author = $3, year = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.conn.QueryRow(ctx, query, b.ID, b.Title, b.Author, b.Year).Scan(&b.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return shared.ErrBookNotFound
		}
		return storeError("Update", err)
	}

	return nil
}

// Delete removes a book.
func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.conn.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return storeError("Delete", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrBookNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Queries
// ─────────────────────────────────────────────────────────────────────────────

// List returns one page ordered by ID.
func (r *BookRepository) List(ctx context.Context, page shared.Pagination) ([]*book.Book, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + bookColumns + ` FROM books ORDER BY id LIMIT $1 OFFSET $2`

	rows, err := r.conn.Query(ctx, query, page.Limit(), page.Offset())
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

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	where, args := searchClause(filter)
	args = append(args, page.Limit(), page.Offset())

	query := fmt.Sprintf(
		`SELECT %s FROM books WHERE %s ORDER BY id LIMIT $%d OFFSET $%d`,
		bookColumns, where, len(args)-1, len(args),
	)

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, storeError("Search", err)
	}

	return collectBooks(rows)
}

// searchClause builds an AND-joined WHERE clause with positional parameters.
func searchClause(filter book.SearchFilter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)

	if filter.Title != "" {
		args = append(args, "%"+escapeLike(filter.Title)+"%")
		conds = append(conds, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if filter.Author != "" {
		args = append(args, "%"+escapeLike(filter.Author)+"%")
		conds = append(conds, fmt.Sprintf("author ILIKE $%d", len(args)))
	}
	if filter.Year != nil {
		args = append(args, *filter.Year)
		conds = append(conds, fmt.Sprintf("year = $%d", len(args)))
	}

	return strings.Join(conds, " AND "), args
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning
// ─────────────────────────────────────────────────────────────────────────────

func scanBook(row pgx.Row) (*book.Book, error) {
	var (
		b    book.Book
		year *int32
	)
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &year, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if year != nil {
		b.Year = book.IntPtr(int(*year))
	}
	return &b, nil
}

func collectBooks(rows pgx.Rows) ([]*book.Book, error) {
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

func storeError(op string, err error) error {
	if IsCheckViolation(err) || IsNotNullViolation(err) {
		return shared.WrapError("book", op, shared.ErrValidation, "constraint violation", err)
	}
	return shared.WrapError("book", op, shared.ErrStore, "postgres", fmt.Errorf("%w: %v", shared.ErrBookStore, err))
}
