package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE BOOKS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
CREATE TABLE IF NOT EXISTS books (
    id BIGSERIAL PRIMARY KEY,
    title VARCHAR(255) NOT NULL,
    author VARCHAR(255) NOT NULL,
    year INTEGER,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_title CHECK (char_length(title) >= 1),
    CONSTRAINT valid_author CHECK (char_length(author) >= 1),
    CONSTRAINT valid_year CHECK (year IS NULL OR year >= 0)
);

CREATE INDEX IF NOT EXISTS idx_books_year ON books(year);
CREATE INDEX IF NOT EXISTS idx_books_title_lower ON books(lower(title));
CREATE INDEX IF NOT EXISTS idx_books_author_lower ON books(lower(author));
`

const migration001Down = `
DROP TABLE IF EXISTS books;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE SCHOOL (students + subject grades)
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
CREATE TABLE IF NOT EXISTS school_students (
    id SERIAL PRIMARY KEY,
    full_name TEXT NOT NULL,
    birth_year INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS school_grades (
    id SERIAL PRIMARY KEY,
    student_id INTEGER NOT NULL REFERENCES school_students(id)
        ON DELETE CASCADE
        ON UPDATE CASCADE,
    subject TEXT NOT NULL,
    grade INTEGER NOT NULL,

    CONSTRAINT valid_grade CHECK (grade BETWEEN 1 AND 100)
);

CREATE INDEX IF NOT EXISTS idx_school_grades_student ON school_grades(student_id);
`

const migration002Down = `
DROP TABLE IF EXISTS school_grades;
DROP TABLE IF EXISTS school_students;
`

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_books",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_school",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
	}
}
