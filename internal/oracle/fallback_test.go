package oracle

import (
	"context"
	"errors"
	"testing"

	"github.com/matchwarden/matchwarden/internal/model"
)

// stubProvider returns a fixed response or error, counting calls.
type stubProvider struct {
	calls int
	out   string
	err   error
}

func (s *stubProvider) Complete(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.out, s.err
}

func TestFallback_FirstProviderWins(t *testing.T) {
	primary := &stubProvider{out: "primary response"}
	secondary := &stubProvider{out: "secondary response"}

	chain := NewFallback(discardLogger())
	chain.Add("primary", primary)
	chain.Add("secondary", secondary)

	got, err := chain.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "primary response" {
		t.Errorf("got %q, want primary response", got)
	}
	if secondary.calls != 0 {
		t.Errorf("secondary should not be called, got %d calls", secondary.calls)
	}
}

func TestFallback_AdvancesOnFailure(t *testing.T) {
	primary := &stubProvider{err: errors.New("quota exceeded")}
	secondary := &stubProvider{out: "secondary response"}

	chain := NewFallback(discardLogger())
	chain.Add("primary", primary)
	chain.Add("secondary", secondary)

	got, err := chain.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "secondary response" {
		t.Errorf("got %q, want secondary response", got)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", primary.calls, secondary.calls)
	}
}

func TestFallback_ExhaustionWrapsOracleUnavailable(t *testing.T) {
	chain := NewFallback(discardLogger())
	chain.Add("a", &stubProvider{err: errors.New("down")})
	chain.Add("b", &stubProvider{err: errors.New("also down")})

	_, err := chain.Complete(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error when all providers fail")
	}
	if !errors.Is(err, model.ErrOracleUnavailable) {
		t.Errorf("expected ErrOracleUnavailable in chain, got %v", err)
	}
}

func TestFallback_EmptyChain(t *testing.T) {
	chain := NewFallback(discardLogger())

	_, err := chain.Complete(context.Background(), "prompt")
	if !errors.Is(err, model.ErrOracleUnavailable) {
		t.Errorf("expected ErrOracleUnavailable for empty chain, got %v", err)
	}
}

func TestFallback_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	primary := &stubProvider{err: errors.New("interrupted")}
	secondary := &stubProvider{out: "should not run"}

	chain := NewFallback(discardLogger())
	chain.Add("primary", &cancellingProvider{inner: primary, cancel: cancel})
	chain.Add("secondary", secondary)

	_, err := chain.Complete(ctx, "prompt")
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	if secondary.calls != 0 {
		t.Errorf("secondary should not run after cancellation, got %d calls", secondary.calls)
	}
}

// cancellingProvider cancels the context while handling the call,
// simulating a shutdown arriving mid-request.
type cancellingProvider struct {
	inner  *stubProvider
	cancel context.CancelFunc
}

func (c *cancellingProvider) Complete(ctx context.Context, prompt string) (string, error) {
	c.cancel()
	return c.inner.Complete(ctx, prompt)
}
