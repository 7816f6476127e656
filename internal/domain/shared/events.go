// Package shared contains common domain types, errors and events that are used
// across all domain packages.
package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types.
const (
	// Gradebook events
	EventStudentRegistered EventType = "student.registered"
	EventGradeRecorded     EventType = "grade.recorded"
	EventGradeRejected     EventType = "grade.rejected"

	// Catalog events
	EventBookCreated EventType = "book.created"
	EventBookUpdated EventType = "book.updated"
	EventBookDeleted EventType = "book.deleted"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Gradebook Events
// ═══════════════════════════════════════════════════════════════════════════

// StudentRegisteredEvent is emitted when a student joins the roster.
type StudentRegisteredEvent struct {
	BaseEvent
	Name string `json:"name"`
	Key  string `json:"key"`
}

// Payload implements Event interface.
func (e StudentRegisteredEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"name": e.Name,
		"key":  e.Key,
	}
}

// NewStudentRegisteredEvent creates a new StudentRegisteredEvent.
func NewStudentRegisteredEvent(studentID, name, key string) StudentRegisteredEvent {
	return StudentRegisteredEvent{
		BaseEvent: NewBaseEvent(EventStudentRegistered, studentID),
		Name:      name,
		Key:       key,
	}
}

// GradeRecordedEvent is emitted for every grade appended to a student.
type GradeRecordedEvent struct {
	BaseEvent
	Name  string  `json:"name"`
	Grade float64 `json:"grade"`
	Count int     `json:"count"`
}

// Payload implements Event interface.
func (e GradeRecordedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"name":  e.Name,
		"grade": e.Grade,
		"count": e.Count,
	}
}

// NewGradeRecordedEvent creates a new GradeRecordedEvent.
func NewGradeRecordedEvent(studentID, name string, grade float64, count int) GradeRecordedEvent {
	return GradeRecordedEvent{
		BaseEvent: NewBaseEvent(EventGradeRecorded, studentID),
		Name:      name,
		Grade:     grade,
		Count:     count,
	}
}

// GradeRejectedEvent is emitted when a grade token is discarded.
type GradeRejectedEvent struct {
	BaseEvent
	Token  string `json:"token"`
	Reason string `json:"reason"`
}

// Payload implements Event interface.
func (e GradeRejectedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"token":  e.Token,
		"reason": e.Reason,
	}
}

// NewGradeRejectedEvent creates a new GradeRejectedEvent.
func NewGradeRejectedEvent(studentID, token, reason string) GradeRejectedEvent {
	return GradeRejectedEvent{
		BaseEvent: NewBaseEvent(EventGradeRejected, studentID),
		Token:     token,
		Reason:    reason,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Catalog Events
// ═══════════════════════════════════════════════════════════════════════════

// BookChangedEvent is emitted on every catalog mutation.
type BookChangedEvent struct {
	BaseEvent
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
}

// Payload implements Event interface.
func (e BookChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"title":  e.Title,
		"author": e.Author,
	}
}

// NewBookChangedEvent creates a new BookChangedEvent of the given type.
func NewBookChangedEvent(eventType EventType, bookID, title, author string) BookChangedEvent {
	return BookChangedEvent{
		BaseEvent: NewBaseEvent(eventType, bookID),
		Title:     title,
		Author:    author,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Envelope (for serialization and transport)
// ═══════════════════════════════════════════════════════════════════════════

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}

// NopPublisher discards every event.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(Event) error { return nil }
