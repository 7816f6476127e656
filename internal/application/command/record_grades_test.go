package command

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/gradebook/internal/domain/gradebook"
	"github.com/alem-hub/gradebook/internal/domain/shared"
	"github.com/alem-hub/gradebook/internal/domain/student"
)

// tokens returns a source that yields the given tokens and then io.EOF.
func tokens(list ...string) (TokenSource, *int) {
	reads := 0
	return TokenSourceFunc(func(context.Context) (string, error) {
		if reads >= len(list) {
			return "", io.EOF
		}
		reads++
		return list[reads-1], nil
	}), &reads
}

type recordingPublisher struct {
	events []shared.Event
}

func (p *recordingPublisher) Publish(e shared.Event) error {
	p.events = append(p.events, e)
	return nil
}

func TestRecordGrades_EndToEnd(t *testing.T) {
	ctx := context.Background()
	registry := gradebook.NewRegistry()
	pub := &recordingPublisher{}

	reg, err := NewRegisterStudentHandler(registry, pub).Handle(ctx, RegisterStudentCommand{Name: "jane doe"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", reg.Name)

	var entries []GradeEntry
	src, _ := tokens("95", "abc", "150", "60", "done", "70")

	res, err := NewRecordGradesHandler(registry, pub).Handle(ctx, RecordGradesCommand{
		StudentKey: "Jane Doe",
		Source:     src,
		OnEntry:    func(e GradeEntry) { entries = append(entries, e) },
	})
	require.NoError(t, err)

	assert.Equal(t, []student.Grade{95, 60}, res.Accepted)
	assert.Equal(t, 2, res.Rejected)
	assert.Equal(t, []student.Grade{95, 60}, registry.FlatGrades())

	require.Len(t, entries, 4)
	assert.True(t, entries[0].Accepted())
	assert.ErrorIs(t, entries[1].Err, shared.ErrNotANumber)
	assert.ErrorIs(t, entries[2].Err, shared.ErrOutOfRange)
	assert.True(t, entries[3].Accepted())

	rep := registry.Summarize()
	require.Equal(t, gradebook.OutcomeComplete, rep.Outcome)
	assert.InDelta(t, 77.5, rep.Rows[0].Average, 1e-9)

	var types []shared.EventType
	for _, e := range pub.events {
		types = append(types, e.EventType())
	}
	assert.Equal(t, []shared.EventType{
		shared.EventStudentRegistered,
		shared.EventGradeRecorded,
		shared.EventGradeRejected,
		shared.EventGradeRejected,
		shared.EventGradeRecorded,
	}, types)
}

func TestRecordGrades_UnknownStudentReadsNothing(t *testing.T) {
	src, reads := tokens("95")

	_, err := NewRecordGradesHandler(gradebook.NewRegistry(), nil).Handle(context.Background(), RecordGradesCommand{
		StudentKey: "ghost",
		Source:     src,
	})
	assert.ErrorIs(t, err, shared.ErrStudentNotFound)
	assert.Zero(t, *reads)
}

func TestRecordGrades_EOFEndsLoop(t *testing.T) {
	registry := gradebook.NewRegistry()
	_, err := registry.Register("a")
	require.NoError(t, err)

	src, _ := tokens("10", "20")
	res, err := NewRecordGradesHandler(registry, nil).Handle(context.Background(), RecordGradesCommand{StudentKey: "a", Source: src})
	require.NoError(t, err)
	assert.Equal(t, []student.Grade{10, 20}, res.Accepted)
}

func TestRecordGrades_SentinelIsCaseInsensitive(t *testing.T) {
	registry := gradebook.NewRegistry()
	_, err := registry.Register("a")
	require.NoError(t, err)

	src, reads := tokens("DONE", "10")
	res, err := NewRecordGradesHandler(registry, nil).Handle(context.Background(), RecordGradesCommand{StudentKey: "a", Source: src})
	require.NoError(t, err)
	assert.Empty(t, res.Accepted)
	assert.Equal(t, 1, *reads)
}

func TestRecordGrades_ReadErrorStops(t *testing.T) {
	registry := gradebook.NewRegistry()
	_, err := registry.Register("a")
	require.NoError(t, err)

	boom := errors.New("broken pipe")
	calls := 0
	src := TokenSourceFunc(func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "50", nil
		}
		return "", boom
	})

	res, err := NewRecordGradesHandler(registry, nil).Handle(context.Background(), RecordGradesCommand{StudentKey: "a", Source: src})
	assert.ErrorIs(t, err, boom)
	require.NotNil(t, res)
	assert.Equal(t, []student.Grade{50}, res.Accepted)
}

func TestRecordGrades_RequiresSource(t *testing.T) {
	_, err := NewRecordGradesHandler(gradebook.NewRegistry(), nil).Handle(context.Background(), RecordGradesCommand{StudentKey: "a"})
	assert.Error(t, err)
}

func TestRegisterStudent_Errors(t *testing.T) {
	ctx := context.Background()
	h := NewRegisterStudentHandler(gradebook.NewRegistry(), nil)

	_, err := h.Handle(ctx, RegisterStudentCommand{Name: "jane doe"})
	require.NoError(t, err)

	_, err = h.Handle(ctx, RegisterStudentCommand{Name: "JANE  DOE"})
	assert.ErrorIs(t, err, shared.ErrDuplicateStudent)

	_, err = h.Handle(ctx, RegisterStudentCommand{Name: "  "})
	assert.ErrorIs(t, err, shared.ErrEmptyName)
}

func TestRejectReason(t *testing.T) {
	assert.Equal(t, "not_a_number", RejectReason(shared.ErrNotANumber))
	assert.Equal(t, "out_of_range", RejectReason(shared.ErrOutOfRange))
	assert.Equal(t, "unknown", RejectReason(errors.New("x")))
}
