package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/gradebook/internal/domain/shared"
)

func strPtr(s string) *string { return &s }

func TestNewBook(t *testing.T) {
	b, err := NewBook(NewBookParams{Title: "Dune", Author: "Frank Herbert", Year: IntPtr(1965)})
	require.NoError(t, err)
	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, 1965, *b.Year)
	assert.Zero(t, b.ID)

	b, err = NewBook(NewBookParams{Title: "Untitled", Author: "Anon"})
	require.NoError(t, err)
	assert.Nil(t, b.Year)
}

func TestNewBook_Validation(t *testing.T) {
	tests := []struct {
		name   string
		params NewBookParams
	}{
		{"empty title", NewBookParams{Author: "a"}},
		{"empty author", NewBookParams{Title: "t"}},
		{"negative year", NewBookParams{Title: "t", Author: "a", Year: IntPtr(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBook(tt.params)
			require.Error(t, err)
			assert.ErrorIs(t, err, shared.ErrBookValidation)
			assert.True(t, shared.IsValidation(err))
		})
	}
}

func TestNewBook_ZeroYearAllowed(t *testing.T) {
	b, err := NewBook(NewBookParams{Title: "t", Author: "a", Year: IntPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, 0, *b.Year)
}

func TestBook_ApplyPatch(t *testing.T) {
	b, err := NewBook(NewBookParams{Title: "Dune", Author: "Herbert", Year: IntPtr(1965)})
	require.NoError(t, err)

	require.NoError(t, b.Apply(Patch{Title: strPtr("Dune Messiah")}))
	assert.Equal(t, "Dune Messiah", b.Title)
	assert.Equal(t, "Herbert", b.Author)
	assert.Equal(t, 1965, *b.Year)

	require.NoError(t, b.Apply(Patch{Year: ClearInt()}))
	assert.Nil(t, b.Year)

	require.NoError(t, b.Apply(Patch{Year: SetInt(1969)}))
	assert.Equal(t, 1969, *b.Year)
}

func TestBook_ApplyInvalidPatchLeavesBookUnchanged(t *testing.T) {
	b, err := NewBook(NewBookParams{Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)

	err = b.Apply(Patch{Title: strPtr(""), Author: strPtr("Someone")})
	assert.ErrorIs(t, err, shared.ErrBookValidation)
	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, "Herbert", b.Author)

	err = b.Apply(Patch{Year: SetInt(-5)})
	assert.ErrorIs(t, err, shared.ErrBookValidation)
}

func TestPatch_IsEmpty(t *testing.T) {
	assert.True(t, Patch{}.IsEmpty())
	assert.False(t, Patch{Year: ClearInt()}.IsEmpty())
}

func TestBook_CloneIsDeep(t *testing.T) {
	b := &Book{ID: 1, Title: "t", Author: "a", Year: IntPtr(2000)}
	c := b.Clone()
	*c.Year = 1999
	assert.Equal(t, 2000, *b.Year)
}

func TestSearchFilter_Matches(t *testing.T) {
	dune := &Book{Title: "Dune", Author: "Frank Herbert", Year: IntPtr(1965)}
	noYear := &Book{Title: "Dune Notes", Author: "Anon"}

	assert.False(t, SearchFilter{}.Matches(dune))
	assert.True(t, SearchFilter{Title: "dun"}.Matches(dune))
	assert.True(t, SearchFilter{Author: "HERBERT"}.Matches(dune))
	assert.True(t, SearchFilter{Title: "dune", Year: IntPtr(1965)}.Matches(dune))
	assert.False(t, SearchFilter{Title: "dune", Author: "tolkien"}.Matches(dune))
	assert.False(t, SearchFilter{Year: IntPtr(1965)}.Matches(noYear))
}

func TestNewPage(t *testing.T) {
	p, err := NewPage(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, shared.DefaultPageSize, p.Limit())

	p, err = NewPage(3, 20)
	require.NoError(t, err)
	assert.Equal(t, 40, p.Offset())

	_, err = NewPage(-1, 10)
	assert.ErrorIs(t, err, shared.ErrInvalidPage)
	assert.True(t, shared.IsValidation(err))

	_, err = NewPage(1, 101)
	assert.ErrorIs(t, err, shared.ErrInvalidPage)

	_, err = NewPage(shared.MaxPage+1, 100)
	assert.ErrorIs(t, err, shared.ErrInvalidPage)

	p, err = NewPage(shared.MaxPage, shared.MaxPageSize)
	require.NoError(t, err)
	assert.Positive(t, p.Offset())
}
