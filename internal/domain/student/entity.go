package student

import (
	"errors"
	"fmt"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student - запись в журнале: имя и последовательность оценок в порядке ввода.
// Студент никогда не удаляется; единственная мутация - добавление оценки.
type Student struct {
	// ID - внутренний уникальный идентификатор (UUID в строковом формате).
	ID string

	// Name - нормализованное имя.
	Name Name

	// Grades - оценки в порядке поступления.
	Grades []Grade

	// CreatedAt - время регистрации.
	CreatedAt time.Time

	// UpdatedAt - время последней добавленной оценки.
	UpdatedAt time.Time
}

// NewStudentParams содержит параметры для создания нового студента.
type NewStudentParams struct {
	ID   string
	Name Name
}

// NewStudent создаёт студента с пустым списком оценок.
func NewStudent(params NewStudentParams) (*Student, error) {
	if params.ID == "" {
		return nil, errors.New("student id is required")
	}

	if params.Name.IsZero() {
		return nil, errors.New("student name is required")
	}

	now := time.Now().UTC()

	return &Student{
		ID:        params.ID,
		Name:      params.Name,
		Grades:    make([]Grade, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Key возвращает ключ идентичности студента.
func (s *Student) Key() string {
	return s.Name.Key()
}

// AddGrade добавляет проверенную оценку в конец последовательности.
func (s *Student) AddGrade(g Grade) {
	s.Grades = append(s.Grades, g)
	s.UpdatedAt = time.Now().UTC()
}

// HasGrades возвращает true, если у студента есть хотя бы одна оценка.
func (s *Student) HasGrades() bool {
	return len(s.Grades) > 0
}

// Average - средняя оценка студента. ok=false, если оценок нет (N/A).
func (s *Student) Average() (avg float64, ok bool) {
	return Mean(s.Grades)
}

// String возвращает строковое представление студента для логирования.
func (s *Student) String() string {
	return fmt.Sprintf("Student{ID: %s, Name: %s, Grades: %d}", s.ID, s.Name, len(s.Grades))
}

// Clone создаёт глубокую копию студента.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}

	clone := *s
	clone.Grades = append(make([]Grade, 0, len(s.Grades)), s.Grades...)
	return &clone
}
