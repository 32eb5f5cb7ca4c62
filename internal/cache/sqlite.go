package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/matchwarden/matchwarden/internal/model"
)

// SQLiteStore persists analyses in a SQLite database. Write-once is enforced
// by INSERT OR IGNORE on the primary key, which holds under concurrent
// writers and across restarts.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the match_analyses table exists.
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

	createTable := `CREATE TABLE IF NOT EXISTS match_analyses (
		cache_key  TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating match_analyses table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get returns the stored analysis for key, or nil on a miss.
func (s *SQLiteStore) Get(ctx context.Context, key string) (*model.MatchAnalysis, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, "SELECT payload FROM match_analyses WHERE cache_key = ?", key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading analysis for %s: %w", key, err)
	}

	var analysis model.MatchAnalysis
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		return nil, fmt.Errorf("decoding analysis for %s: %w", key, err)
	}
	return &analysis, nil
}

// Set stores the analysis under key. If the key already holds an entry the
// call is a no-op.
func (s *SQLiteStore) Set(ctx context.Context, key string, analysis model.MatchAnalysis) error {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("encoding analysis for %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO match_analyses (cache_key, payload) VALUES (?, ?)", key, string(payload))
	if err != nil {
		return fmt.Errorf("storing analysis for %s: %w", key, err)
	}
	return nil
}

// Count returns the number of cached analyses.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM match_analyses").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting analyses: %w", err)
	}
	return count, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
