package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/matchwarden/matchwarden/internal/model"
)

// RedisStore persists analyses in Redis. Write-once is enforced by SetNX:
// the first writer wins, concurrent or later writers are no-ops. Entries
// carry no TTL; invalidation is a new persona-version epoch, never expiry.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the stored analysis for key, or nil on a miss.
func (s *RedisStore) Get(ctx context.Context, key string) (*model.MatchAnalysis, error) {
	if key == "" {
		return nil, errors.New("key cannot be empty")
	}

	payload, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var analysis model.MatchAnalysis
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		return nil, fmt.Errorf("decoding analysis for %s: %w", key, err)
	}
	return &analysis, nil
}

// Set stores the analysis under key if, and only if, the key is absent.
func (s *RedisStore) Set(ctx context.Context, key string, analysis model.MatchAnalysis) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("encoding analysis for %s: %w", key, err)
	}
	if err := s.client.SetNX(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis setnx: %w", err)
	}
	return nil
}
