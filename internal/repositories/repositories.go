// Package repositories implements SQLite persistence for the opt-in run
// history.
//
// Saved runs are an audit record of past conversions (what was searched,
// what matched, what was created remotely). They are never read back by
// the pipeline itself; a run always starts from scratch.
package repositories

import (
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	sequence INTEGER NOT NULL,
	source_url TEXT NOT NULL,
	playlist_id TEXT,
	playlist_url TEXT,
	total_queries INTEGER NOT NULL,
	matched INTEGER NOT NULL,
	no_match INTEGER NOT NULL,
	failed INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS run_matches (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL REFERENCES runs(id),
	position INTEGER NOT NULL,
	query TEXT NOT NULL,
	outcome TEXT NOT NULL,
	video_id TEXT,
	link TEXT,
	confidence REAL,
	low_confidence INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_run_matches_run_id ON run_matches(run_id);

CREATE TABLE IF NOT EXISTS runs_sequence (id INTEGER PRIMARY KEY, value INTEGER NOT NULL);
INSERT INTO runs_sequence (id, value) SELECT 1, 0 WHERE NOT EXISTS (SELECT 1 FROM runs_sequence WHERE id = 1);
`

// InitSchema creates the run history tables if they do not exist.
func InitSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// NextSequence atomically increments and returns the next sequence number
// for the given table.
//
// Sequence numbers provide human-readable ordering (run #42) independent of
// UUIDs and timestamps.
func NextSequence(db *sql.DB, table string) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequenceTable := table + "_sequence"

	_, err = tx.Exec(fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", sequenceTable))
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	err = tx.QueryRow(fmt.Sprintf("SELECT value FROM %s WHERE id = 1", sequenceTable)).Scan(&sequence)
	if err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}
