package cache

import (
	"context"
	"sync"

	"github.com/matchwarden/matchwarden/internal/model"
)

// MemoryStore is an in-process store for tests and ephemeral runs. It honors
// the same conditional-on-absence write contract as the durable backends.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]model.MatchAnalysis
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]model.MatchAnalysis{}}
}

// Get returns the stored analysis for key, or nil on a miss.
func (s *MemoryStore) Get(ctx context.Context, key string) (*model.MatchAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	analysis, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	return &analysis, nil
}

// Set stores the analysis under key if, and only if, the key is absent.
func (s *MemoryStore) Set(ctx context.Context, key string, analysis model.MatchAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; exists {
		return nil
	}
	s.entries[key] = analysis
	return nil
}

// Count returns the number of cached analyses.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}
