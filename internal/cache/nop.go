package cache

import (
	"context"

	"github.com/matchwarden/matchwarden/internal/model"
)

// NopStore caches nothing. Used in dry-run mode so every job is evaluated
// fresh and nothing is persisted.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Get(ctx context.Context, key string) (*model.MatchAnalysis, error) {
	return nil, nil
}

func (s *NopStore) Set(ctx context.Context, key string, analysis model.MatchAnalysis) error {
	return nil
}
