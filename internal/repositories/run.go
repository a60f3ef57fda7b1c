package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tunebridge/internal/shared"
	"tunebridge/internal/tasks"
)

// ConversionRun is one saved conversion, without its per-query records.
type ConversionRun struct {
	ID           string
	Sequence     int
	SourceURL    string
	PlaylistID   string
	PlaylistURL  string
	TotalQueries int
	Matched      int
	NoMatch      int
	Failed       int
	CreatedAt    time.Time
}

// MatchRecord is one per-query outcome within a saved run.
type MatchRecord struct {
	Position      int
	Query         string
	Outcome       string
	VideoID       string
	Link          string
	Confidence    float64
	LowConfidence bool
}

// RunRepository persists conversion runs and their per-query outcomes.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a RunRepository with the given database connection.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Save stores a completed conversion result and its per-query outcomes in
// one transaction. The publish result may be nil for link-only runs.
func (r *RunRepository) Save(result *tasks.ConvertResult, pub *tasks.PublishResult) (*ConversionRun, error) {
	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return nil, fmt.Errorf("failed to generate sequence: %w", err)
	}

	run := &ConversionRun{
		ID:           shared.GenerateID(),
		Sequence:     sequence,
		SourceURL:    result.SourceURL,
		TotalQueries: result.TotalQueries,
		Matched:      result.MatchedCount,
		NoMatch:      result.NoMatchCount,
		Failed:       result.FailedCount,
		CreatedAt:    time.Now().UTC(),
	}
	if pub != nil {
		run.PlaylistID = pub.PlaylistID
		run.PlaylistURL = pub.PlaylistURL
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, sequence, source_url, playlist_id, playlist_url, total_queries, matched, no_match, failed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Sequence, run.SourceURL, run.PlaylistID, run.PlaylistURL,
		run.TotalQueries, run.Matched, run.NoMatch, run.Failed, run.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}

	for i, qr := range result.Results {
		_, err = tx.Exec(`
			INSERT INTO run_matches (id, run_id, position, query, outcome, video_id, link, confidence, low_confidence)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			shared.GenerateID(), run.ID, i, qr.Query, qr.Outcome.String(),
			qr.VideoID, qr.Link, qr.Confidence, qr.LowConfidence,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert match record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit run: %w", err)
	}

	return run, nil
}

// List returns saved runs, newest first.
func (r *RunRepository) List(limit int) ([]ConversionRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(`
		SELECT id, sequence, source_url, playlist_id, playlist_url, total_queries, matched, no_match, failed, created_at
		FROM runs ORDER BY sequence DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []ConversionRun
	for rows.Next() {
		var run ConversionRun
		if err := rows.Scan(&run.ID, &run.Sequence, &run.SourceURL, &run.PlaylistID, &run.PlaylistURL,
			&run.TotalQueries, &run.Matched, &run.NoMatch, &run.Failed, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// Get retrieves one run and its per-query records by ID.
func (r *RunRepository) Get(id string) (*ConversionRun, []MatchRecord, error) {
	var run ConversionRun
	err := r.db.QueryRow(`
		SELECT id, sequence, source_url, playlist_id, playlist_url, total_queries, matched, no_match, failed, created_at
		FROM runs WHERE id = ?`, id).Scan(
		&run.ID, &run.Sequence, &run.SourceURL, &run.PlaylistID, &run.PlaylistURL,
		&run.TotalQueries, &run.Matched, &run.NoMatch, &run.Failed, &run.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query run: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT position, query, outcome, video_id, link, confidence, low_confidence
		FROM run_matches WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query match records: %w", err)
	}
	defer rows.Close()

	var records []MatchRecord
	for rows.Next() {
		var rec MatchRecord
		if err := rows.Scan(&rec.Position, &rec.Query, &rec.Outcome, &rec.VideoID,
			&rec.Link, &rec.Confidence, &rec.LowConfidence); err != nil {
			return nil, nil, fmt.Errorf("failed to scan match record: %w", err)
		}
		records = append(records, rec)
	}

	return &run, records, rows.Err()
}
