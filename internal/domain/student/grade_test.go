package student

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/alem-hub/gradebook/internal/domain/shared"
)

func TestParseGrade_Accepts(t *testing.T) {
	cases := map[string]Grade{
		"0":     0,
		"100":   100,
		"95":    95,
		"87.5":  87.5,
		" 60 ":  60,
		"100.0": 100,
	}

	for token, want := range cases {
		g, err := ParseGrade(token)
		require.NoError(t, err, token)
		assert.Equal(t, want, g, token)
	}
}

func TestParseGrade_Rejects(t *testing.T) {
	tests := []struct {
		token string
		want  error
	}{
		{"abc", shared.ErrNotANumber},
		{"", shared.ErrNotANumber},
		{"NaN", shared.ErrNotANumber},
		{"inf", shared.ErrNotANumber},
		{"12abc", shared.ErrNotANumber},
		{"150", shared.ErrOutOfRange},
		{"-1", shared.ErrOutOfRange},
		{"100.01", shared.ErrOutOfRange},
	}

	for _, tt := range tests {
		_, err := ParseGrade(tt.token)
		assert.ErrorIs(t, err, tt.want, tt.token)
	}
}

func TestParseGrade_RangeProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Float64Range(-1000, 1000).Draw(t, "v")
		g, err := ParseGrade(Grade(v).String())

		if v >= 0 && v <= 100 {
			if err != nil {
				t.Fatalf("grade %v rejected: %v", v, err)
			}
			if g.Float64() != v {
				t.Fatalf("grade %v parsed as %v", v, g)
			}
			return
		}
		if err == nil {
			t.Fatalf("grade %v accepted", v)
		}
	})
}

func TestIsSentinel(t *testing.T) {
	assert.True(t, IsSentinel("done"))
	assert.True(t, IsSentinel("DONE"))
	assert.True(t, IsSentinel("  Done "))
	assert.False(t, IsSentinel("don"))
	assert.False(t, IsSentinel("50"))
}

func TestGrade_String(t *testing.T) {
	assert.Equal(t, "95", Grade(95).String())
	assert.Equal(t, "87.5", Grade(87.5).String())
	assert.Equal(t, "0", Grade(0).String())
}

func TestMean(t *testing.T) {
	_, ok := Mean(nil)
	assert.False(t, ok)

	avg, ok := Mean([]Grade{95, 60})
	assert.True(t, ok)
	assert.InDelta(t, 77.5, avg, 1e-9)
}

func TestStudent_AddGradeAndAverage(t *testing.T) {
	s, err := NewStudent(NewStudentParams{ID: "id-1", Name: MustParseName("jane doe")})
	require.NoError(t, err)

	_, ok := s.Average()
	assert.False(t, ok)
	assert.False(t, s.HasGrades())

	s.AddGrade(95)
	s.AddGrade(60)

	avg, ok := s.Average()
	assert.True(t, ok)
	assert.InDelta(t, 77.5, avg, 1e-9)
	assert.Equal(t, []Grade{95, 60}, s.Grades)
	assert.Equal(t, "jane doe", s.Key())
}

func TestNewStudent_Validation(t *testing.T) {
	_, err := NewStudent(NewStudentParams{Name: MustParseName("a")})
	assert.Error(t, err)

	_, err = NewStudent(NewStudentParams{ID: "x"})
	assert.Error(t, err)
}

func TestStudent_CloneIsDeep(t *testing.T) {
	s, err := NewStudent(NewStudentParams{ID: "id-1", Name: MustParseName("a")})
	require.NoError(t, err)
	s.AddGrade(10)

	c := s.Clone()
	c.AddGrade(20)

	assert.Len(t, s.Grades, 1)
	assert.Len(t, c.Grades, 2)
}
