package metrics

import (
	"fmt"

	"github.com/alem-hub/gradebook/internal/domain/shared"
)

// HandleEvent maps domain events onto counters. Unknown events are ignored.
func (m *Metrics) HandleEvent(event shared.Event) error {
	if m == nil || event == nil {
		return nil
	}

	switch event.EventType() {
	case shared.EventStudentRegistered:
		m.StudentRegistered()
	case shared.EventGradeRecorded:
		m.GradeRecorded()
	case shared.EventGradeRejected:
		reason, _ := event.Payload()["reason"].(string)
		if reason == "" {
			reason = "unknown"
		}
		m.GradeRejected(reason)
	case shared.EventBookCreated, shared.EventBookUpdated, shared.EventBookDeleted:
		m.bookChanges.WithLabelValues(string(event.EventType())).Inc()
	}
	return nil
}

// Attach subscribes the collectors to every event on bus.
func (m *Metrics) Attach(bus shared.EventSubscriber) error {
	if m == nil {
		return nil
	}
	if err := bus.SubscribeAll(m.HandleEvent); err != nil {
		return fmt.Errorf("metrics: subscribe: %w", err)
	}
	return nil
}
