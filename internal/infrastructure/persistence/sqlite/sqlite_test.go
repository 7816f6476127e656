package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/gradebook/internal/domain/book"
	"github.com/alem-hub/gradebook/internal/domain/gradebook"
	"github.com/alem-hub/gradebook/internal/domain/shared"
	"github.com/alem-hub/gradebook/internal/domain/student"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	ctx := context.Background()
	db, err := Open(ctx, MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate(ctx))
	return db
}

func newBook(t *testing.T, title, author string, year *int) *book.Book {
	t.Helper()
	b, err := book.NewBook(book.NewBookParams{Title: title, Author: author, Year: year})
	require.NoError(t, err)
	return b
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dsn(MemoryPath))
	assert.Equal(t, "file:school.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dsn("school.db"))
	assert.Equal(t, "file:x.db?mode=ro&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dsn("file:x.db?mode=ro"))
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Migrate(ctx))

	tables, err := db.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"books", "grades", "students"}, tables)

	require.NoError(t, db.Drop(ctx))
	tables, err = db.Tables(ctx)
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestBookRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(openTestDB(t))

	b := newBook(t, "Dune", "Frank Herbert", book.IntPtr(1965))
	require.NoError(t, repo.Create(ctx, b))
	assert.EqualValues(t, 1, b.ID)

	got, err := repo.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	require.NotNil(t, got.Year)
	assert.Equal(t, 1965, *got.Year)
	assert.False(t, got.CreatedAt.IsZero())

	got.Year = nil
	got.Title = "Dune Messiah"
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", got.Title)
	assert.Nil(t, got.Year)

	require.NoError(t, repo.Delete(ctx, b.ID))

	_, err = repo.Get(ctx, b.ID)
	assert.ErrorIs(t, err, shared.ErrBookNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, b.ID), shared.ErrBookNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &book.Book{ID: 42, Title: "x", Author: "y"}), shared.ErrBookNotFound)
}

func TestBookRepository_ConstraintViolation(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(openTestDB(t))

	err := repo.Create(ctx, &book.Book{Title: "", Author: "Someone"})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}

func TestBookRepository_ListAndSearch(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(openTestDB(t))

	for _, b := range []*book.Book{
		newBook(t, "Dune", "Frank Herbert", book.IntPtr(1965)),
		newBook(t, "Dune Messiah", "Frank Herbert", book.IntPtr(1969)),
		newBook(t, "Neuromancer", "William Gibson", book.IntPtr(1984)),
		newBook(t, "100% Coverage", "Anon", nil),
	} {
		require.NoError(t, repo.Create(ctx, b))
	}

	page, err := repo.List(ctx, shared.Pagination{Page: 2, PageSize: 3})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "100% Coverage", page[0].Title)

	all := shared.Pagination{Page: 1, PageSize: 10}

	found, err := repo.Search(ctx, book.SearchFilter{Title: "DUNE"}, all)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = repo.Search(ctx, book.SearchFilter{Title: "dune", Year: book.IntPtr(1969)}, all)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Dune Messiah", found[0].Title)

	found, err = repo.Search(ctx, book.SearchFilter{Title: "%"}, all)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "100% Coverage", found[0].Title)

	found, err = repo.Search(ctx, book.SearchFilter{}, all)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestBookRepository_SearchFoldsNonASCII(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(openTestDB(t))

	require.NoError(t, repo.Create(ctx, newBook(t, "Émile", "Jean-Jacques Rousseau", book.IntPtr(1762))))
	require.NoError(t, repo.Create(ctx, newBook(t, "Преступление и наказание", "Фёдор Достоевский", nil)))

	all := shared.Pagination{Page: 1, PageSize: 10}

	for _, filter := range []book.SearchFilter{
		{Title: "émile"},
		{Title: "ÉMILE"},
		{Title: "преступление"},
		{Author: "ДОСТОЕВСКИЙ"},
	} {
		found, err := repo.Search(ctx, filter, all)
		require.NoError(t, err)
		assert.Len(t, found, 1, "%+v", filter)
	}
}

func TestSchoolRepository_SeedAndLoad(t *testing.T) {
	ctx := context.Background()
	repo := NewSchoolRepository(openTestDB(t))

	inserted, err := repo.Seed(ctx)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Seed(ctx)
	require.NoError(t, err)
	assert.False(t, inserted)

	roster, err := repo.LoadRoster(ctx)
	require.NoError(t, err)
	require.Len(t, roster, 9)
	assert.Equal(t, "Alice Johnson", roster[0].FullName)
	assert.Equal(t, []student.Grade{88, 92, 85}, roster[0].Grades)

	reg := gradebook.NewRegistry()
	res := reg.Import(roster)
	assert.Equal(t, 9, res.Registered)
	assert.Equal(t, 27, res.Grades)

	best, err := reg.FindBest()
	require.NoError(t, err)
	assert.Equal(t, "Isabella Martinez", best.Name)
}
