package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestWait_SameKey_EnforcesMinDelay(t *testing.T) {
	limiter := NewLimiter(100 * time.Millisecond)
	ctx := context.Background()

	// First call should return immediately.
	if err := limiter.Wait(ctx, "openai"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, "openai"); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	elapsed := time.Since(start)

	// Should have waited at least ~100ms (allow 80ms for timer jitter).
	if elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait, got %v", elapsed)
	}
}

func TestWait_DifferentKeys_NoCrossBlocking(t *testing.T) {
	limiter := NewLimiter(200 * time.Millisecond)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "openai"); err != nil {
		t.Fatalf("openai wait: %v", err)
	}

	// Immediately call for gemini — should NOT block.
	start := time.Now()
	if err := limiter.Wait(ctx, "gemini"); err != nil {
		t.Fatalf("gemini wait: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed > 50*time.Millisecond {
		t.Errorf("expected gemini wait to be near-instant, got %v", elapsed)
	}
}

func TestWait_ContextCancellation(t *testing.T) {
	limiter := NewLimiter(5 * time.Second) // long delay
	ctx := context.Background()

	// First call to seed the last-call time.
	if err := limiter.Wait(ctx, "openai"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	if err := limiter.Wait(ctx, "openai"); err == nil {
		t.Fatal("expected error from cancelled context, got nil")
	}
}

// --- Mock for LimitedCompleter test ---

type recordingCompleter struct {
	called bool
}

func (c *recordingCompleter) Complete(_ context.Context, _ string) (string, error) {
	c.called = true
	return "ok", nil
}

func TestLimitedCompleter_WaitsBeforeDelegating(t *testing.T) {
	limiter := NewLimiter(100 * time.Millisecond)
	inner := &recordingCompleter{}
	completer := NewLimitedCompleter(inner, limiter, "openai")
	ctx := context.Background()

	// First call — seeds limiter, then delegates.
	if _, err := completer.Complete(ctx, "p"); err != nil {
		t.Fatalf("first complete: %v", err)
	}
	if !inner.called {
		t.Fatal("inner completer was not called on first attempt")
	}

	inner.called = false

	start := time.Now()
	if _, err := completer.Complete(ctx, "p"); err != nil {
		t.Fatalf("second complete: %v", err)
	}
	elapsed := time.Since(start)

	if !inner.called {
		t.Fatal("inner completer was not called on second attempt")
	}
	if elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait on second attempt, got %v", elapsed)
	}
}
