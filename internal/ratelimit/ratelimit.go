package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Limiter enforces a minimum delay between consecutive calls under the same
// key. The engine keys oracle traffic by provider name, so every worker in
// the batch pool shares one pacing clock per provider.
type Limiter struct {
	mu       sync.Mutex
	lastCall map[string]time.Time
	minDelay time.Duration
}

// NewLimiter creates a limiter that enforces minDelay between consecutive
// calls under the same key.
func NewLimiter(minDelay time.Duration) *Limiter {
	return &Limiter{
		lastCall: make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// Wait blocks until enough time has passed since the last call under key.
// Returns an error if the context is cancelled while waiting.
func (r *Limiter) Wait(ctx context.Context, key string) error {
	r.mu.Lock()
	last, ok := r.lastCall[key]
	now := time.Now()

	if !ok {
		// First call under this key — no wait needed.
		r.lastCall[key] = now
		r.mu.Unlock()
		return nil
	}

	elapsed := now.Sub(last)
	if elapsed >= r.minDelay {
		r.lastCall[key] = now
		r.mu.Unlock()
		return nil
	}

	// Need to wait for the remainder. The lock is released first: other
	// keys must not queue behind this one.
	remaining := r.minDelay - elapsed
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", key, ctx.Err())
	case <-time.After(remaining):
	}

	r.mu.Lock()
	r.lastCall[key] = time.Now()
	r.mu.Unlock()

	return nil
}

// Completer is the slice of the oracle provider surface the limiter wraps.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// LimitedCompleter paces calls to the wrapped provider. All completers
// sharing a provider name should share the same limiter instance.
type LimitedCompleter struct {
	inner   Completer
	limiter *Limiter
	key     string
}

// NewLimitedCompleter wraps a provider with min-delay pacing under key.
func NewLimitedCompleter(inner Completer, limiter *Limiter, key string) *LimitedCompleter {
	return &LimitedCompleter{
		inner:   inner,
		limiter: limiter,
		key:     key,
	}
}

// Complete waits for the limiter to allow a call, then delegates.
func (c *LimitedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx, c.key); err != nil {
		return "", err
	}
	return c.inner.Complete(ctx, prompt)
}
