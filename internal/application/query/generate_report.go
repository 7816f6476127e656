// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"

	"github.com/alem-hub/gradebook/internal/domain/gradebook"
)

// ══════════════════════════════════════════════════════════════════════════════
// GENERATE REPORT QUERY
// Средние по каждому студенту и общая статистика по всем оценкам журнала.
// ══════════════════════════════════════════════════════════════════════════════

// GenerateReportQuery не имеет параметров: отчёт всегда по всему журналу.
type GenerateReportQuery struct{}

// GenerateReportHandler обрабатывает запрос отчёта.
type GenerateReportHandler struct {
	registry *gradebook.Registry
}

// NewGenerateReportHandler создаёт новый обработчик.
func NewGenerateReportHandler(registry *gradebook.Registry) *GenerateReportHandler {
	return &GenerateReportHandler{registry: registry}
}

// Handle строит отчёт. Пустой журнал и отсутствие оценок - это не ошибки,
// а исходы отчёта (Report.Outcome).
func (h *GenerateReportHandler) Handle(_ context.Context, _ GenerateReportQuery) gradebook.Report {
	return h.registry.Summarize()
}
