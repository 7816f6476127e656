package gradebook

import (
	"context"

	"github.com/alem-hub/gradebook/internal/domain/shared"
	"github.com/alem-hub/gradebook/internal/domain/student"
)

// RosterEntry is one student loaded from an external school database.
type RosterEntry struct {
	FullName string
	Grades   []student.Grade
}

// RosterSource loads a roster in a stable order.
type RosterSource interface {
	LoadRoster(ctx context.Context) ([]RosterEntry, error)
}

// ImportResult counts what Import did.
type ImportResult struct {
	Registered int
	Grades     int
	Skipped    []string
}

// Import registers every entry and records its grades. Entries whose name is
// invalid or already registered are skipped whole; out-of-range grades are
// dropped individually.
func (r *Registry) Import(entries []RosterEntry) ImportResult {
	var res ImportResult

	for _, e := range entries {
		s, err := r.Register(e.FullName)
		if err != nil {
			res.Skipped = append(res.Skipped, e.FullName)
			continue
		}
		res.Registered++

		for _, g := range e.Grades {
			if err := r.RecordGrade(s.Key(), g); err != nil {
				if shared.IsValidation(err) {
					continue
				}
				break
			}
			res.Grades++
		}
	}

	return res
}
