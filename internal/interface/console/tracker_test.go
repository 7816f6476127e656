package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/gradebook/internal/domain/gradebook"
	"github.com/alem-hub/gradebook/internal/domain/shared"
	"github.com/alem-hub/gradebook/internal/domain/student"
	"github.com/alem-hub/gradebook/internal/infrastructure/messaging"
)

func lines(in ...string) string {
	return strings.Join(in, "\n") + "\n"
}

func newTestTracker(input string) (*Tracker, *bytes.Buffer) {
	var out bytes.Buffer
	tr := NewTracker(Config{}, Dependencies{
		Registry: gradebook.NewRegistry(),
		Input:    strings.NewReader(input),
		Output:   &out,
	})
	return tr, &out
}

func TestTracker_EndToEnd(t *testing.T) {
	tr, out := newTestTracker(lines(
		"1", "jane doe",
		"2", "JANE   DOE", "95", "abc", "150", "60", "done",
		"3",
		"4",
		"5",
	))

	require.NoError(t, tr.Run(context.Background()))
	assert.Equal(t, StateExited, tr.State())

	got := out.String()
	assert.Contains(t, got, "---Student Grade Analyzer---")
	assert.Contains(t, got, "Student Jane Doe added!")
	assert.Contains(t, got, "Grade 95 added for Jane Doe")
	assert.Contains(t, got, "Invalid input. Please enter a number.")
	assert.Contains(t, got, "The grade must be between 0 and 100!")
	assert.Contains(t, got, "Grade 60 added for Jane Doe")
	assert.Contains(t, got, "The input of ratings is completed")
	assert.Contains(t, got, "Jane Doe's average grade is 77.5.")
	assert.Contains(t, got, "Max grade: 95.0")
	assert.Contains(t, got, "Min grade: 60.0")
	assert.Contains(t, got, "Overall average: 77.5")
	assert.Contains(t, got, "The student with the highest average is Jane Doe with a grade of 77.5.")
	assert.True(t, strings.HasSuffix(got, "Exiting program.\n"))

	s, err := tr.Registry().Lookup("jane doe")
	require.NoError(t, err)
	assert.Equal(t, []student.Grade{95, 60}, s.Grades)
	assert.Equal(t, []student.Grade{95, 60}, tr.Registry().FlatGrades())
}

func TestTracker_RegisterErrors(t *testing.T) {
	tr, out := newTestTracker(lines(
		"1", "   ",
		"1", "R2D2",
		"1", "Jane_Doe",
		"1", "jane doe",
		"1", "  JANE doe ",
		"5",
	))

	require.NoError(t, tr.Run(context.Background()))

	got := out.String()
	assert.Contains(t, got, "The name can't be empty!")
	assert.Contains(t, got, "The name must not contain numbers!")
	assert.Contains(t, got, "The name contains invalid characters!")
	assert.Contains(t, got, "Student Jane Doe added!")
	assert.Contains(t, got, "Student Jane Doe already exist!")
	assert.Equal(t, 1, tr.Registry().Len())
}

func TestTracker_UnknownStudentDoesNotReadGrades(t *testing.T) {
	tr, out := newTestTracker(lines("2", "ghost", "5"))

	require.NoError(t, tr.Run(context.Background()))

	got := out.String()
	assert.Contains(t, got, "Student ghost not exist!")
	assert.NotContains(t, got, gradePrompt)
	assert.Equal(t, StateExited, tr.State())
}

func TestTracker_ReportsOnEmptyRegistry(t *testing.T) {
	tr, out := newTestTracker(lines("3", "4", "1", "Ann", "3", "4", "5"))

	require.NoError(t, tr.Run(context.Background()))

	got := choiceOutputs(out.String())
	require.Len(t, got, 6)
	assert.Equal(t, "There is no list of students\n", got[0])
	assert.Equal(t, "There are no students yet!\n", got[1])
	assert.Equal(t, "Ann's average grade is: N/A.\nNo grades to analyze!\n", got[3])
	assert.Equal(t, "There are no grades in the list of students!\n", got[4])
	assert.Equal(t, "Exiting program.\n", got[5])
}

// choiceOutputs splits plain tracker output into what each menu choice
// printed: the text between the choice divider and the next menu.
func choiceOutputs(out string) []string {
	divider := strings.Repeat("- ", 11) + "\n"
	menuStart := strings.Repeat("-", separatorWidth) + "\n"

	parts := strings.Split(out, divider)
	for i, part := range parts[1:] {
		if end := strings.Index(part, menuStart); end >= 0 {
			part = part[:end]
		}
		parts[i+1] = part
	}
	return parts[1:]
}

func TestTracker_OverallUsesFlatCollection(t *testing.T) {
	tr, out := newTestTracker(lines(
		"1", "A",
		"1", "B",
		"2", "a", "100", "done",
		"2", "b", "0", "0", "done",
		"3",
		"5",
	))

	require.NoError(t, tr.Run(context.Background()))
	assert.Contains(t, out.String(), "Overall average: 33.3")
}

func TestTracker_InvalidOptionAndEOF(t *testing.T) {
	tr, out := newTestTracker("9\nfoo")

	require.NoError(t, tr.Run(context.Background()))

	assert.Equal(t, 2, strings.Count(out.String(), "Invalid option!"))
	assert.Equal(t, StateMainMenu, tr.State())
}

func TestTracker_EOFDuringGradeEntry(t *testing.T) {
	tr, out := newTestTracker(lines("1", "Jane Doe", "2", "jane doe", "88"))

	require.NoError(t, tr.Run(context.Background()))

	assert.Contains(t, out.String(), "Grade 88 added for Jane Doe")
	assert.Equal(t, []student.Grade{88}, tr.Registry().FlatGrades())
}

func TestTracker_Step(t *testing.T) {
	tr, out := newTestTracker("")
	ctx := context.Background()

	state, err := tr.Step(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, StateMainMenu, state)

	state, err = tr.Step(ctx, " 5 ")
	require.NoError(t, err)
	assert.Equal(t, StateExited, state)

	// Exited is terminal.
	state, err = tr.Step(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, StateExited, state)
	assert.Equal(t, "Invalid option!\nExiting program.\n", out.String())
}

func TestTracker_PublishesEvents(t *testing.T) {
	bus := messaging.NewInMemoryEventBus(messaging.InMemoryEventBusConfig{})
	defer bus.Close()

	var seen []shared.EventType
	require.NoError(t, bus.SubscribeAll(func(e shared.Event) error {
		seen = append(seen, e.EventType())
		return nil
	}))

	var out bytes.Buffer
	tr := NewTracker(Config{}, Dependencies{
		Registry:  gradebook.NewRegistry(),
		Publisher: bus,
		Input:     strings.NewReader(lines("1", "Jane", "2", "jane", "90", "x", "done", "5")),
		Output:    &out,
	})
	require.NoError(t, tr.Run(context.Background()))

	assert.Equal(t, []shared.EventType{
		shared.EventStudentRegistered,
		shared.EventGradeRecorded,
		shared.EventGradeRejected,
	}, seen)
}

type staticRoster []gradebook.RosterEntry

func (s staticRoster) LoadRoster(context.Context) ([]gradebook.RosterEntry, error) {
	return s, nil
}

func TestTracker_Import(t *testing.T) {
	tr, out := newTestTracker(lines("4", "5"))

	res, err := tr.Import(context.Background(), staticRoster{
		{FullName: "alice johnson", Grades: []student.Grade{88, 92}},
		{FullName: "Bob 2", Grades: []student.Grade{100}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Registered)
	assert.Equal(t, []string{"Bob 2"}, res.Skipped)

	require.NoError(t, tr.Run(context.Background()))
	assert.Contains(t, out.String(), "Imported 1 students with 2 grades.")
	assert.Contains(t, out.String(), "The student with the highest average is Alice Johnson with a grade of 90.0.")
}

func TestPresenter_ColorDisabledIsPlain(t *testing.T) {
	var out bytes.Buffer
	p := NewPresenter(&out, false)

	p.Success("Student %s added!", "Jane Doe")
	p.Menu()

	assert.NotContains(t, out.String(), "\x1b[")
	assert.True(t, strings.HasPrefix(out.String(), "Student Jane Doe added!\n"))
}

// lineFeeder hands bufio one line per Read and reports each line as it goes.
type lineFeeder struct {
	lines  []string
	onLine func(string)
}

func (f *lineFeeder) Read(p []byte) (int, error) {
	if len(f.lines) == 0 {
		return 0, io.EOF
	}
	line := f.lines[0]
	f.lines = f.lines[1:]
	if f.onLine != nil {
		f.onLine(line)
	}
	return copy(p, line+"\n"), nil
}

func TestTracker_IgnoresContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out bytes.Buffer
	tr := NewTracker(Config{}, Dependencies{
		Registry: gradebook.NewRegistry(),
		Input: &lineFeeder{
			lines: []string{"1", "ann", "2", "ann", "90", "80", "done", "3", "5"},
			onLine: func(line string) {
				if line == "80" {
					cancel()
				}
			},
		},
		Output: &out,
	})

	require.NoError(t, tr.Run(ctx))
	assert.Equal(t, StateExited, tr.State())
	assert.Equal(t, []student.Grade{90, 80}, tr.Registry().FlatGrades())

	got := out.String()
	assert.Contains(t, got, "The input of ratings is completed")
	assert.Contains(t, got, "Ann's average grade is 85.0.")
	assert.True(t, strings.HasSuffix(got, "Exiting program.\n"))
}

func TestTracker_RunsWithCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr, out := newTestTracker(lines("1", "Bo", "2", "bo", "70", "done", "5"))

	require.NoError(t, tr.Run(ctx))
	assert.Equal(t, StateExited, tr.State())
	assert.Contains(t, out.String(), "Grade 70 added for Bo")
}
