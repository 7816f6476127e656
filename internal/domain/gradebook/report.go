package gradebook

import (
	"github.com/alem-hub/gradebook/internal/domain/shared"
	"github.com/alem-hub/gradebook/internal/domain/student"
)

// ═══════════════════════════════════════════════════════════════════════════
// Summary report
// ═══════════════════════════════════════════════════════════════════════════

// Outcome classifies what a summary could report.
type Outcome int

const (
	// OutcomeEmptyRoster means nobody is registered; the report has no rows.
	OutcomeEmptyRoster Outcome = iota

	// OutcomeNoGrades means rows exist but no student has a grade.
	OutcomeNoGrades

	// OutcomeComplete means rows and registry-wide stats are available.
	OutcomeComplete
)

// String returns a lowercase label for logging.
func (o Outcome) String() string {
	switch o {
	case OutcomeEmptyRoster:
		return "empty_roster"
	case OutcomeNoGrades:
		return "no_grades"
	case OutcomeComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Row is one student's line in the summary.
type Row struct {
	Name      string
	Average   float64
	Count     int
	HasGrades bool
}

// Stats are computed over the flat grade collection, not over per-student
// averages.
type Stats struct {
	Max     float64
	Min     float64
	Overall float64
	Count   int
}

// Report is the result of Summarize.
type Report struct {
	Outcome Outcome
	Rows    []Row
	Stats   Stats
}

// Err maps informational outcomes onto their domain errors. It returns nil for
// a complete report.
func (r Report) Err() error {
	switch r.Outcome {
	case OutcomeEmptyRoster:
		return shared.ErrEmptyRoster
	case OutcomeNoGrades:
		return shared.ErrNoGradesRecorded
	default:
		return nil
	}
}

// Summarize builds per-student averages in roster order and, when at least one
// grade exists, max/min/overall across every individual grade.
func (r *Registry) Summarize() Report {
	if len(r.roster) == 0 {
		return Report{Outcome: OutcomeEmptyRoster}
	}

	rows := make([]Row, 0, len(r.roster))
	for _, s := range r.roster {
		avg, ok := s.Average()
		rows = append(rows, Row{
			Name:      s.Name.String(),
			Average:   avg,
			Count:     len(s.Grades),
			HasGrades: ok,
		})
	}

	if len(r.flat) == 0 {
		return Report{Outcome: OutcomeNoGrades, Rows: rows}
	}

	return Report{
		Outcome: OutcomeComplete,
		Rows:    rows,
		Stats:   flatStats(r.flat),
	}
}

func flatStats(grades []student.Grade) Stats {
	overall, _ := student.Mean(grades)
	st := Stats{
		Max:     grades[0].Float64(),
		Min:     grades[0].Float64(),
		Overall: overall,
		Count:   len(grades),
	}
	for _, g := range grades[1:] {
		v := g.Float64()
		if v > st.Max {
			st.Max = v
		}
		if v < st.Min {
			st.Min = v
		}
	}
	return st
}

// ═══════════════════════════════════════════════════════════════════════════
// Best student
// ═══════════════════════════════════════════════════════════════════════════

// Best identifies the student with the highest per-student mean.
type Best struct {
	StudentID string
	Name      string
	Average   float64
}

// FindBest returns the student with the strictly greatest mean. On ties the
// student registered first wins.
func (r *Registry) FindBest() (Best, error) {
	if len(r.roster) == 0 {
		return Best{}, shared.ErrNoStudents
	}

	var (
		best  Best
		found bool
	)
	for _, s := range r.roster {
		avg, ok := s.Average()
		if !ok {
			continue
		}
		if !found || avg > best.Average {
			best = Best{StudentID: s.ID, Name: s.Name.String(), Average: avg}
			found = true
		}
	}

	if !found {
		return Best{}, shared.ErrNoGradesRecorded
	}
	return best, nil
}
