package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matchwarden/matchwarden/internal/model"
)

// PostgresStore persists analyses in Postgres for deployments where many
// workers share one cache. Write-once is enforced by ON CONFLICT DO NOTHING
// on the primary key.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to the database at dsn and ensures the
// match_analyses table exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS match_analyses (
		cache_key  TEXT PRIMARY KEY,
		payload    JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := pool.Exec(ctx, createTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating match_analyses table: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Get returns the stored analysis for key, or nil on a miss.
func (s *PostgresStore) Get(ctx context.Context, key string) (*model.MatchAnalysis, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, "SELECT payload FROM match_analyses WHERE cache_key = $1", key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading analysis for %s: %w", key, err)
	}

	var analysis model.MatchAnalysis
	if err := json.Unmarshal(payload, &analysis); err != nil {
		return nil, fmt.Errorf("decoding analysis for %s: %w", key, err)
	}
	return &analysis, nil
}

// Set stores the analysis under key if, and only if, the key is absent.
func (s *PostgresStore) Set(ctx context.Context, key string, analysis model.MatchAnalysis) error {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("encoding analysis for %s: %w", key, err)
	}
	_, err = s.pool.Exec(ctx,
		"INSERT INTO match_analyses (cache_key, payload) VALUES ($1, $2) ON CONFLICT (cache_key) DO NOTHING",
		key, payload)
	if err != nil {
		return fmt.Errorf("storing analysis for %s: %w", key, err)
	}
	return nil
}

// Count returns the number of cached analyses.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM match_analyses").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting analyses: %w", err)
	}
	return count, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
