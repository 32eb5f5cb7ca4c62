package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/matchwarden/matchwarden/internal/model"
)

// FileStore keeps all analyses in a single JSON document. Writes go to a
// temp file followed by an atomic rename, so a crash mid-write never leaves
// a partial or corrupt cache. Suited to single-process runs; use the SQLite,
// Redis, or Postgres backends when workers share a cache across processes.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by the JSON document at path. The file
// is created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Get returns the stored analysis for key, or nil on a miss.
func (s *FileStore) Get(ctx context.Context, key string) (*model.MatchAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	analysis, ok := entries[key]
	if !ok {
		return nil, nil
	}
	return &analysis, nil
}

// Set stores the analysis under key. If the key already holds an entry the
// call is a no-op.
func (s *FileStore) Set(ctx context.Context, key string, analysis model.MatchAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	if _, exists := entries[key]; exists {
		return nil
	}
	entries[key] = analysis
	return s.write(entries)
}

// Count returns the number of cached analyses.
func (s *FileStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (s *FileStore) load() (map[string]model.MatchAnalysis, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]model.MatchAnalysis{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache file: %w", err)
	}

	entries := map[string]model.MatchAnalysis{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding cache file %s: %w", s.path, err)
	}
	return entries, nil
}

func (s *FileStore) write(entries map[string]model.MatchAnalysis) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing cache temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing cache file: %w", err)
	}
	return nil
}
