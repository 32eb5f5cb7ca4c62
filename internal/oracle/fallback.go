package oracle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/matchwarden/matchwarden/internal/model"
)

// Fallback tries a fixed ordered list of providers until one returns a
// usable completion. Each entry is typically already wrapped with retry
// and rate limiting, so a single Complete here may span several attempts
// against several backends.
type Fallback struct {
	entries []fallbackEntry
	logger  *slog.Logger
}

type fallbackEntry struct {
	name     string
	provider Provider
}

// NewFallback creates an empty provider chain.
func NewFallback(logger *slog.Logger) *Fallback {
	return &Fallback{logger: logger}
}

// Add appends a named provider to the end of the chain.
func (f *Fallback) Add(name string, provider Provider) {
	f.entries = append(f.entries, fallbackEntry{name: name, provider: provider})
}

// Len returns the number of providers in the chain.
func (f *Fallback) Len() int {
	return len(f.entries)
}

// Complete tries each provider in order. On total exhaustion the returned
// error wraps model.ErrOracleUnavailable so callers can switch to the
// degraded-analysis path.
func (f *Fallback) Complete(ctx context.Context, prompt string) (string, error) {
	if len(f.entries) == 0 {
		return "", fmt.Errorf("no providers configured: %w", model.ErrOracleUnavailable)
	}

	var lastErr error
	for _, e := range f.entries {
		out, err := e.provider.Complete(ctx, prompt)
		if err == nil {
			return out, nil
		}
		lastErr = err

		// Cancellation stops the chain; trying the next backend with a
		// dead context just burns time.
		if ctx.Err() != nil {
			return "", fmt.Errorf("oracle chain cancelled at %s: %w", e.name, err)
		}

		f.logger.Warn("provider failed, trying next in chain",
			"provider", e.name,
			"error", err,
		)
	}

	return "", fmt.Errorf("all %d providers failed: %w (last: %w)", len(f.entries), model.ErrOracleUnavailable, lastErr)
}
