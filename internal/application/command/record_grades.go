package command

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alem-hub/gradebook/internal/domain/gradebook"
	"github.com/alem-hub/gradebook/internal/domain/shared"
	"github.com/alem-hub/gradebook/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD GRADES COMMAND
// Reads grade tokens for one student until "done" or end of input.
// Bad tokens are reported and skipped; they never end the loop.
// ══════════════════════════════════════════════════════════════════════════════

// TokenSource yields the next raw grade token. io.EOF ends ingestion.
type TokenSource interface {
	Next(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, error)

// Next implements TokenSource.
func (f TokenSourceFunc) Next(ctx context.Context) (string, error) {
	return f(ctx)
}

// GradeEntry describes what happened to one token.
type GradeEntry struct {
	Token string

	// StudentName is the display name of the target student.
	StudentName string

	// Grade is set when Err is nil.
	Grade student.Grade

	// Err is shared.ErrNotANumber or shared.ErrOutOfRange for a rejected token.
	Err error
}

// Accepted reports whether the token was stored.
func (e GradeEntry) Accepted() bool {
	return e.Err == nil
}

// RecordGradesCommand contains the target student and the token stream.
type RecordGradesCommand struct {
	// StudentKey is matched against identity keys after normalization.
	StudentKey string

	// Source yields tokens.
	Source TokenSource

	// OnEntry is called once per non-sentinel token, in order. Optional.
	OnEntry func(GradeEntry)

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c RecordGradesCommand) Validate() error {
	if c.Source == nil {
		return errors.New("record_grades: source is required")
	}
	return nil
}

// RecordGradesResult summarizes an ingestion session.
type RecordGradesResult struct {
	StudentID string
	Name      string
	Accepted  []student.Grade
	Rejected  int
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RecordGradesHandler handles the RecordGradesCommand.
type RecordGradesHandler struct {
	registry  *gradebook.Registry
	publisher shared.EventPublisher
}

// NewRecordGradesHandler creates a new RecordGradesHandler.
func NewRecordGradesHandler(registry *gradebook.Registry, publisher shared.EventPublisher) *RecordGradesHandler {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	return &RecordGradesHandler{
		registry:  registry,
		publisher: publisher,
	}
}

// Handle checks that the student exists before reading any token, then ingests
// until the sentinel or io.EOF. A non-EOF read error stops ingestion and is
// returned along with what was recorded so far.
func (h *RecordGradesHandler) Handle(ctx context.Context, cmd RecordGradesCommand) (*RecordGradesResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	s, err := h.registry.Lookup(cmd.StudentKey)
	if err != nil {
		return nil, err
	}

	result := &RecordGradesResult{
		StudentID: s.ID,
		Name:      s.Name.String(),
		Accepted:  make([]student.Grade, 0),
	}

	for {
		token, err := cmd.Source.Next(ctx)
		if errors.Is(err, io.EOF) {
			return result, nil
		}
		if err != nil {
			return result, fmt.Errorf("record_grades: read token: %w", err)
		}

		if student.IsSentinel(token) {
			return result, nil
		}

		entry := GradeEntry{Token: token, StudentName: result.Name}
		entry.Grade, entry.Err = student.ParseGrade(token)
		if entry.Err == nil {
			entry.Err = h.registry.RecordGrade(s.Key(), entry.Grade)
		}

		if entry.Err != nil {
			result.Rejected++
			h.publish(cmd, shared.NewGradeRejectedEvent(s.ID, token, RejectReason(entry.Err)))
		} else {
			result.Accepted = append(result.Accepted, entry.Grade)
			h.publish(cmd, shared.NewGradeRecordedEvent(s.ID, s.Name.String(), entry.Grade.Float64(), len(s.Grades)))
		}

		if cmd.OnEntry != nil {
			cmd.OnEntry(entry)
		}
	}
}

func (h *RecordGradesHandler) publish(cmd RecordGradesCommand, event shared.Event) {
	if cmd.CorrelationID != "" {
		switch e := event.(type) {
		case shared.GradeRecordedEvent:
			e.BaseEvent = e.WithCorrelationID(cmd.CorrelationID)
			event = e
		case shared.GradeRejectedEvent:
			e.BaseEvent = e.WithCorrelationID(cmd.CorrelationID)
			event = e
		}
	}
	_ = h.publisher.Publish(event)
}

// RejectReason maps a grade error onto a short label for events and metrics.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, shared.ErrNotANumber):
		return "not_a_number"
	case errors.Is(err, shared.ErrOutOfRange):
		return "out_of_range"
	default:
		return "unknown"
	}
}
