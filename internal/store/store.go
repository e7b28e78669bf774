package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS patients (
	patient_id INTEGER PRIMARY KEY,
	test_date TEXT,
	age INTEGER,
	language TEXT
);

CREATE TABLE IF NOT EXISTS npq_scores (
	patient_id INTEGER,
	domain TEXT,
	score INTEGER,
	severity TEXT,
	description TEXT,
	FOREIGN KEY(patient_id) REFERENCES patients(patient_id)
);

CREATE TABLE IF NOT EXISTS npq_questions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	patient_id INTEGER,
	domain TEXT,
	question_number INTEGER,
	question_text TEXT,
	score INTEGER,
	severity TEXT,
	FOREIGN KEY(patient_id) REFERENCES patients(patient_id)
);

CREATE TABLE IF NOT EXISTS test_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	patient_id INTEGER,
	section TEXT,
	status TEXT,
	FOREIGN KEY(patient_id) REFERENCES patients(patient_id)
);
`

// Store persists extraction results in a SQLite database. All write paths go
// through transactions; reads use the shared connection pool.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the SQLite database at path and ensures the
// schema exists. A nil logger disables logging.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Debug("opening database", "path", path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Debug("database ready", "path", path)
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	s.logger.Debug("closing database")
	return s.db.Close()
}
