package feedback

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matchwarden/matchwarden/internal/guardrail"
	"github.com/matchwarden/matchwarden/internal/model"
)

// SQLiteStore keeps rejection feedback in a SQLite database. One record per
// job: recording feedback for a job that already has some replaces it.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the feedback_log table exists.
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

	createTable := `CREATE TABLE IF NOT EXISTS feedback_log (
		job_id     TEXT PRIMARY KEY,
		reason     TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating feedback_log table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Record stores a rejection reason for a job. Feedback is latest-wins per
// job: a second rejection of the same job replaces the first.
func (s *SQLiteStore) Record(ctx context.Context, jobID, reason string) error {
	if jobID == "" || reason == "" {
		return fmt.Errorf("recording feedback: job id and reason are required")
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO feedback_log (job_id, reason, created_at) VALUES (?, ?, ?)",
		jobID, reason, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording feedback for %s: %w", jobID, err)
	}
	return nil
}

// Entries returns all feedback ordered oldest first.
func (s *SQLiteStore) Entries(ctx context.Context) ([]model.FeedbackEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT reason, created_at FROM feedback_log ORDER BY created_at, rowid")
	if err != nil {
		return nil, fmt.Errorf("reading feedback log: %w", err)
	}
	defer rows.Close()

	var entries []model.FeedbackEntry
	for rows.Next() {
		var reason, createdAt string
		if err := rows.Scan(&reason, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning feedback entry: %w", err)
		}
		entries = append(entries, model.FeedbackEntry{
			Reason:    reason,
			Timestamp: parseTimestamp(createdAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feedback log: %w", err)
	}
	return entries, nil
}

// Patterns aggregates the stored feedback into rejection-pattern counts.
func (s *SQLiteStore) Patterns(ctx context.Context) (map[guardrail.Pattern]int, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}
	return guardrail.CountPatterns(entries), nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
