package query

import (
	"context"

	"github.com/alem-hub/gradebook/internal/domain/gradebook"
)

// ══════════════════════════════════════════════════════════════════════════════
// FIND BEST STUDENT QUERY
// Студент с наибольшей средней оценкой. При равенстве побеждает тот,
// кто был зарегистрирован раньше.
// ══════════════════════════════════════════════════════════════════════════════

// FindBestStudentQuery не имеет параметров.
type FindBestStudentQuery struct{}

// FindBestStudentHandler обрабатывает запрос лучшего студента.
type FindBestStudentHandler struct {
	registry *gradebook.Registry
}

// NewFindBestStudentHandler создаёт новый обработчик.
func NewFindBestStudentHandler(registry *gradebook.Registry) *FindBestStudentHandler {
	return &FindBestStudentHandler{registry: registry}
}

// Handle возвращает лучшего студента или shared.ErrNoStudents /
// shared.ErrNoGradesRecorded.
func (h *FindBestStudentHandler) Handle(_ context.Context, _ FindBestStudentQuery) (gradebook.Best, error) {
	return h.registry.FindBest()
}
