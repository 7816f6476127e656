package student

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/alem-hub/gradebook/internal/domain/shared"
)

func TestParseName_Normalizes(t *testing.T) {
	cases := map[string]string{
		"jane doe":          "Jane Doe",
		"  jane   DOE  ":    "Jane Doe",
		"mary-jane":         "Mary-jane",
		"o'brien":           "O'brien",
		"ALICE":             "Alice",
		"\tbob\t smith\n":   "Bob Smith",
		"élodie durand":     "Élodie Durand",
		"jean-luc  picard ": "Jean-luc Picard",
	}

	for raw, want := range cases {
		name, err := ParseName(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, name.String(), raw)
	}
}

func TestParseName_Rejects(t *testing.T) {
	tests := []struct {
		raw  string
		want error
	}{
		{"", shared.ErrEmptyName},
		{"   ", shared.ErrEmptyName},
		{"R2D2", shared.ErrNameHasDigits},
		{"John 3rd", shared.ErrNameHasDigits},
		{"jane_doe", shared.ErrNameInvalidChars},
		{"jane.doe", shared.ErrNameInvalidChars},
		{"jane@doe", shared.ErrNameInvalidChars},
		{"jane\tdoe", shared.ErrNameInvalidChars},
		{"jane\u00a0doe", shared.ErrNameInvalidChars},
	}

	for _, tt := range tests {
		_, err := ParseName(tt.raw)
		assert.ErrorIs(t, err, tt.want, tt.raw)
	}
}

func TestParseName_ErrorKinds(t *testing.T) {
	_, err := ParseName("")
	assert.True(t, shared.IsValidation(err))

	_, err = ParseName("R2D2")
	assert.ErrorIs(t, err, shared.ErrInvalidCharacter)
}

func TestName_Key(t *testing.T) {
	name := MustParseName("  JANE   doe")
	assert.Equal(t, "jane doe", name.Key())
	assert.Equal(t, name.Key(), NormalizeKey("Jane Doe"))
	assert.Equal(t, name.Key(), NormalizeKey("  jane\tDOE "))
}

func TestName_IsZero(t *testing.T) {
	assert.True(t, Name{}.IsZero())
	assert.False(t, MustParseName("a").IsZero())
}

func TestParseName_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.StringMatching(`[ a-zA-Z'\-]{0,24}`).Draw(t, "raw")

		first, err := ParseName(raw)
		if err != nil {
			return
		}

		second, err := ParseName(first.String())
		if err != nil {
			t.Fatalf("re-parse of %q failed: %v", first.String(), err)
		}
		if second != first {
			t.Fatalf("normalization not idempotent: %q -> %q", first, second)
		}
	})
}

func TestParseName_KeyIgnoresCaseAndSpacing(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		words := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,8}`), 1, 4).Draw(t, "words")
		upper := rapid.Bool().Draw(t, "upper")

		var raw string
		for i, w := range words {
			if upper {
				w = toUpperASCII(w)
			}
			if i > 0 {
				raw += "   "
			}
			raw += w
		}

		name, err := ParseName(" " + raw + " ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if name.Key() != NormalizeKey(raw) {
			t.Fatalf("key %q != %q", name.Key(), NormalizeKey(raw))
		}
	})
}

func toUpperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}
