// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"

	"github.com/alem-hub/gradebook/internal/domain/gradebook"
	"github.com/alem-hub/gradebook/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER STUDENT COMMAND
// Adds a student to the roster under a normalized name.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterStudentCommand contains the raw name typed by the user.
type RegisterStudentCommand struct {
	// Name is the unnormalized input.
	Name string

	// CorrelationID for tracing.
	CorrelationID string
}

// RegisterStudentResult contains the registered student.
type RegisterStudentResult struct {
	StudentID string
	Name      string
	Key       string
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RegisterStudentHandler handles the RegisterStudentCommand.
type RegisterStudentHandler struct {
	registry  *gradebook.Registry
	publisher shared.EventPublisher
}

// NewRegisterStudentHandler creates a new RegisterStudentHandler.
func NewRegisterStudentHandler(registry *gradebook.Registry, publisher shared.EventPublisher) *RegisterStudentHandler {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	return &RegisterStudentHandler{
		registry:  registry,
		publisher: publisher,
	}
}

// Handle executes the register student command. Validation and duplicate
// errors come back unwrapped so callers can match them with errors.Is.
func (h *RegisterStudentHandler) Handle(_ context.Context, cmd RegisterStudentCommand) (*RegisterStudentResult, error) {
	s, err := h.registry.Register(cmd.Name)
	if err != nil {
		return nil, err
	}

	event := shared.NewStudentRegisteredEvent(s.ID, s.Name.String(), s.Key())
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.WithCorrelationID(cmd.CorrelationID)
	}
	_ = h.publisher.Publish(event)

	return &RegisterStudentResult{
		StudentID: s.ID,
		Name:      s.Name.String(),
		Key:       s.Key(),
	}, nil
}
