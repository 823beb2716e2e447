package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/amishk599/gradboard/internal/model"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps a history of per-source pipeline runs in SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// source_runs table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS source_runs (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		source      TEXT    NOT NULL,
		ran_at      INTEGER NOT NULL,
		ok          INTEGER NOT NULL,
		row_count   INTEGER NOT NULL DEFAULT 0,
		accepted    INTEGER NOT NULL DEFAULT 0,
		error       TEXT    NOT NULL DEFAULT '',
		duration_ms INTEGER NOT NULL DEFAULT 0
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating source_runs table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// RecordRun appends one run record.
func (s *SQLiteStore) RecordRun(run model.SourceRun) error {
	_, err := s.db.Exec(
		`INSERT INTO source_runs (source, ran_at, ok, row_count, accepted, error, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.Source, run.RanAt.UnixMilli(), boolToInt(run.OK), run.Rows, run.Accepted,
		run.Error, run.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("recording run for %s: %w", run.Source, err)
	}
	return nil
}

// LatestRuns returns the most recent run of every source, ordered by source.
func (s *SQLiteStore) LatestRuns() ([]model.SourceRun, error) {
	rows, err := s.db.Query(
		`SELECT source, ran_at, ok, row_count, accepted, error, duration_ms
		 FROM source_runs
		 WHERE id IN (SELECT MAX(id) FROM source_runs GROUP BY source)
		 ORDER BY source`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying latest runs: %w", err)
	}
	defer rows.Close()

	var runs []model.SourceRun
	for rows.Next() {
		var (
			run        model.SourceRun
			ranAt      int64
			ok         int
			durationMS int64
		)
		if err := rows.Scan(&run.Source, &ranAt, &ok, &run.Rows, &run.Accepted, &run.Error, &durationMS); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.RanAt = time.UnixMilli(ranAt).UTC()
		run.OK = ok != 0
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Cleanup deletes run records older than the given duration.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan).UnixMilli()
	_, err := s.db.Exec("DELETE FROM source_runs WHERE ran_at < ?", cutoff)
	if err != nil {
		return fmt.Errorf("cleaning up runs older than %v: %w", olderThan, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
