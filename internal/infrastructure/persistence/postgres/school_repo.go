package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/alem-hub/gradebook/internal/domain/gradebook"
	"github.com/alem-hub/gradebook/internal/domain/student"
	"github.com/alem-hub/gradebook/internal/infrastructure/persistence/seed"
)

// SchoolRepository reads and seeds the school_students / school_grades tables.
// It implements gradebook.RosterSource.
type SchoolRepository struct {
	conn *Connection
}

// NewSchoolRepository creates a new SchoolRepository.
func NewSchoolRepository(conn *Connection) *SchoolRepository {
	return &SchoolRepository{conn: conn}
}

// Seed inserts the sample roster unless students already exist. It reports
// whether anything was inserted.
func (r *SchoolRepository) Seed(ctx context.Context) (bool, error) {
	var count int
	if err := r.conn.QueryRow(ctx, `SELECT count(*) FROM school_students`).Scan(&count); err != nil {
		return false, fmt.Errorf("postgres: count students: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	err := r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		for _, s := range seed.School() {
			var id int64
			err := tx.QueryRow(ctx,
				`INSERT INTO school_students (full_name, birth_year) VALUES ($1, $2) RETURNING id`,
				s.FullName, s.BirthYear,
			).Scan(&id)
			if err != nil {
				return fmt.Errorf("insert student %q: %w", s.FullName, err)
			}

			batch := &pgx.Batch{}
			for _, g := range s.Grades {
				batch.Queue(`INSERT INTO school_grades (student_id, subject, grade) VALUES ($1, $2, $3)`, id, g.Subject, g.Grade)
			}
			if err := tx.SendBatch(ctx, batch).Close(); err != nil {
				return fmt.Errorf("insert grades for %q: %w", s.FullName, err)
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
	rows, err := r.conn.Query(ctx, `
		SELECT s.id, s.full_name, g.grade
		FROM school_students s
		LEFT JOIN school_grades g ON g.student_id = s.id
		ORDER BY s.id, g.id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: load roster: %w", err)
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
			grade *int32
		)
		if err := rows.Scan(&id, &name, &grade); err != nil {
			return nil, fmt.Errorf("postgres: scan roster: %w", err)
		}
		if id != lastID {
			entries = append(entries, gradebook.RosterEntry{FullName: name})
			lastID = id
		}
		if grade != nil {
			last := &entries[len(entries)-1]
			last.Grades = append(last.Grades, student.Grade(*grade))
		}
	}

	return entries, rows.Err()
}
