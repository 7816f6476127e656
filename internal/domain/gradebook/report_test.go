package gradebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/gradebook/internal/domain/shared"
	"github.com/alem-hub/gradebook/internal/domain/student"
)

func seed(t *testing.T, grades map[string][]student.Grade, order ...string) *Registry {
	t.Helper()

	r := NewRegistry()
	for _, name := range order {
		_, err := r.Register(name)
		require.NoError(t, err)
		for _, g := range grades[name] {
			require.NoError(t, r.RecordGrade(name, g))
		}
	}
	return r
}

func TestSummarize_EmptyRoster(t *testing.T) {
	rep := NewRegistry().Summarize()

	assert.Equal(t, OutcomeEmptyRoster, rep.Outcome)
	assert.Empty(t, rep.Rows)
	assert.ErrorIs(t, rep.Err(), shared.ErrEmptyRoster)
	assert.True(t, shared.IsInformational(rep.Err()))
}

func TestSummarize_NoGrades(t *testing.T) {
	r := seed(t, nil, "a", "b")

	rep := r.Summarize()
	assert.Equal(t, OutcomeNoGrades, rep.Outcome)
	require.Len(t, rep.Rows, 2)
	assert.False(t, rep.Rows[0].HasGrades)
	assert.ErrorIs(t, rep.Err(), shared.ErrNoGradesRecorded)
	assert.Zero(t, rep.Stats)
}

func TestSummarize_OverallUsesFlatCollection(t *testing.T) {
	r := seed(t, map[string][]student.Grade{
		"a": {100},
		"b": {0, 0},
	}, "a", "b")

	rep := r.Summarize()
	require.Equal(t, OutcomeComplete, rep.Outcome)
	assert.NoError(t, rep.Err())

	assert.InDelta(t, 100.0/3.0, rep.Stats.Overall, 1e-9)
	assert.Equal(t, 100.0, rep.Stats.Max)
	assert.Equal(t, 0.0, rep.Stats.Min)
	assert.Equal(t, 3, rep.Stats.Count)

	assert.Equal(t, []Row{
		{Name: "A", Average: 100, Count: 1, HasGrades: true},
		{Name: "B", Average: 0, Count: 2, HasGrades: true},
	}, rep.Rows)
}

func TestSummarize_StudentWithoutGradesIsNA(t *testing.T) {
	r := seed(t, map[string][]student.Grade{
		"jane doe": {95, 60},
	}, "jane doe", "john smith")

	rep := r.Summarize()
	require.Equal(t, OutcomeComplete, rep.Outcome)
	require.Len(t, rep.Rows, 2)

	assert.InDelta(t, 77.5, rep.Rows[0].Average, 1e-9)
	assert.Equal(t, "John Smith", rep.Rows[1].Name)
	assert.False(t, rep.Rows[1].HasGrades)
	assert.InDelta(t, 77.5, rep.Stats.Overall, 1e-9)
}

func TestFindBest_Empty(t *testing.T) {
	_, err := NewRegistry().FindBest()
	assert.ErrorIs(t, err, shared.ErrNoStudents)
}

func TestFindBest_NoGrades(t *testing.T) {
	_, err := seed(t, nil, "a").FindBest()
	assert.ErrorIs(t, err, shared.ErrNoGradesRecorded)
}

func TestFindBest_TieGoesToFirstRegistered(t *testing.T) {
	r := seed(t, map[string][]student.Grade{
		"a": {80},
		"b": {80},
	}, "a", "b")

	best, err := r.FindBest()
	require.NoError(t, err)
	assert.Equal(t, "A", best.Name)
	assert.Equal(t, 80.0, best.Average)
}

func TestFindBest_UsesPerStudentMean(t *testing.T) {
	r := seed(t, map[string][]student.Grade{
		"a": {100, 0, 0, 0},
		"b": {50},
		"c": {},
	}, "c", "a", "b")

	best, err := r.FindBest()
	require.NoError(t, err)
	assert.Equal(t, "B", best.Name)
	assert.Equal(t, 50.0, best.Average)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "empty_roster", OutcomeEmptyRoster.String())
	assert.Equal(t, "no_grades", OutcomeNoGrades.String())
	assert.Equal(t, "complete", OutcomeComplete.String())
}
