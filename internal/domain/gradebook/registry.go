// Package gradebook holds the in-memory roster of students and the registry-wide
// flat grade collection. A Registry is owned by exactly one command loop and is
// not safe for concurrent use.
package gradebook

import (
	"github.com/google/uuid"

	"github.com/alem-hub/gradebook/internal/domain/shared"
	"github.com/alem-hub/gradebook/internal/domain/student"
)

// Registry is the ordered roster plus the flat collection of every grade ever
// recorded. Every grade in a student's sequence also appears in the flat
// collection, in the same relative order.
type Registry struct {
	roster []*student.Student
	byKey  map[string]int
	flat   []student.Grade
	newID  func() string
}

// Option configures a Registry.
type Option func(*Registry)

// WithIDGenerator overrides how student IDs are produced.
func WithIDGenerator(fn func() string) Option {
	return func(r *Registry) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		roster: make([]*student.Student, 0),
		byKey:  make(map[string]int),
		flat:   make([]student.Grade, 0),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register validates and normalizes raw, then appends a new student with an
// empty grade sequence. Nothing is mutated on failure.
func (r *Registry) Register(raw string) (*student.Student, error) {
	name, err := student.ParseName(raw)
	if err != nil {
		return nil, err
	}

	if _, exists := r.byKey[name.Key()]; exists {
		return nil, shared.ErrDuplicateStudent
	}

	s, err := student.NewStudent(student.NewStudentParams{
		ID:   r.newID(),
		Name: name,
	})
	if err != nil {
		return nil, shared.WrapError("gradebook", "Register", shared.ErrInvalidInput, "failed to create student", err)
	}

	r.byKey[name.Key()] = len(r.roster)
	r.roster = append(r.roster, s)

	return s, nil
}

// Lookup finds a student by identity key. The key is normalized first, so any
// case or spacing variant of the name matches.
func (r *Registry) Lookup(key string) (*student.Student, error) {
	idx, ok := r.byKey[student.NormalizeKey(key)]
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	return r.roster[idx], nil
}

// RecordGrade appends g to the student's sequence and then to the flat
// collection. Out-of-range grades are refused without touching either.
func (r *Registry) RecordGrade(key string, g student.Grade) error {
	if !g.IsValid() {
		return shared.ErrOutOfRange
	}

	s, err := r.Lookup(key)
	if err != nil {
		return err
	}

	s.AddGrade(g)
	r.flat = append(r.flat, g)

	return nil
}

// Len returns the number of registered students.
func (r *Registry) Len() int {
	return len(r.roster)
}

// Students returns copies of all students in insertion order.
func (r *Registry) Students() []*student.Student {
	out := make([]*student.Student, len(r.roster))
	for i, s := range r.roster {
		out[i] = s.Clone()
	}
	return out
}

// FlatGrades returns a copy of the flat grade collection.
func (r *Registry) FlatGrades() []student.Grade {
	return append(make([]student.Grade, 0, len(r.flat)), r.flat...)
}
