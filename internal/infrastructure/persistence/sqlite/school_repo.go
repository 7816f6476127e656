package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alem-hub/gradebook/internal/domain/gradebook"
	"github.com/alem-hub/gradebook/internal/domain/student"
	"github.com/alem-hub/gradebook/internal/infrastructure/persistence/seed"
)

// SchoolRepository reads and seeds the students / grades tables.
// It implements gradebook.RosterSource.
type SchoolRepository struct {
	db *DB
}

// NewSchoolRepository creates a new SchoolRepository.
func NewSchoolRepository(db *DB) *SchoolRepository {
	return &SchoolRepository{db: db}
}

// Seed inserts the sample roster unless students already exist. It reports
// whether anything was inserted.
func (r *SchoolRepository) Seed(ctx context.Context) (bool, error) {
	var count int
	if err := r.db.SQL().QueryRowContext(ctx, `SELECT count(*) FROM students`).Scan(&count); err != nil {
		return false, fmt.Errorf("sqlite: count students: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, s := range seed.School() {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO students (full_name, birth_year) VALUES (?, ?)`, s.FullName, s.BirthYear)
			if err != nil {
				return fmt.Errorf("insert student %q: %w", s.FullName, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}

			for _, g := range s.Grades {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO grades (student_id, subject, grade) VALUES (?, ?, ?)`, id, g.Subject, g.Grade); err != nil {
					return fmt.Errorf("insert grade for %q: %w", s.FullName, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

// LoadRoster returns every student with grades in ID order.
func (r *SchoolRepository) LoadRoster(ctx context.Context) ([]gradebook.RosterEntry, error) {
	rows, err := r.db.SQL().QueryContext(ctx, `
		SELECT s.id, s.full_name, g.grade
		FROM students s
		LEFT JOIN grades g ON g.student_id = s.id
		ORDER BY s.id, g.id
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load roster: %w", err)
	}
	defer rows.Close()

	var (
		entries []gradebook.RosterEntry
		lastID  int64 = -1
	)
	for rows.Next() {
		var (
			id    int64
			name  string
			grade sql.NullInt64
		)
		if err := rows.Scan(&id, &name, &grade); err != nil {
			return nil, fmt.Errorf("sqlite: scan roster: %w", err)
		}
		if id != lastID {
			entries = append(entries, gradebook.RosterEntry{FullName: name})
			lastID = id
		}
		if grade.Valid {
			last := &entries[len(entries)-1]
			last.Grades = append(last.Grades, student.Grade(grade.Int64))
		}
	}

	return entries, rows.Err()
}
