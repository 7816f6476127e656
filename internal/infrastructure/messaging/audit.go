package messaging

import (
	"github.com/alem-hub/gradebook/internal/domain/shared"
	"github.com/alem-hub/gradebook/pkg/logger"
)

// AuditLogger writes every domain event to the structured log.
type AuditLogger struct {
	logger *logger.Logger
}

// NewAuditLogger creates an AuditLogger.
func NewAuditLogger(log *logger.Logger) *AuditLogger {
	if log == nil {
		log = logger.Nop()
	}
	return &AuditLogger{logger: log.With(logger.Component("audit"))}
}

// Handle implements shared.EventHandler.
func (a *AuditLogger) Handle(event shared.Event) error {
	fields := []logger.Field{
		logger.EventType(string(event.EventType())),
		logger.String("aggregate_id", event.AggregateID()),
		logger.Time("occurred_at", event.OccurredAt()),
	}
	for k, v := range event.Payload() {
		fields = append(fields, logger.Any(k, v))
	}

	a.logger.Info("domain event", fields...)
	return nil
}

// Attach subscribes the audit logger to every event on bus.
func (a *AuditLogger) Attach(bus shared.EventSubscriber) error {
	return bus.SubscribeAll(a.Handle)
}
