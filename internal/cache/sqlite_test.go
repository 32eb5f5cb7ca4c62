package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/matchwarden/matchwarden/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func analysisWithScore(url string, score int) model.MatchAnalysis {
	return model.MatchAnalysis{
		JobURL:     url,
		Score:      score,
		BaseScore:  score,
		Reasoning:  "test reasoning",
		Gaps:       []string{"kubernetes"},
		AnalyzedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSQLiteStore_SetThenGet(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	want := analysisWithScore("https://jobs.example/1", 72)
	if err := s.Set(ctx, "k1", want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := s.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("expected a cached analysis")
	}
	if got.Score != 72 || got.JobURL != want.JobURL {
		t.Errorf("got score=%d url=%q, want score=72 url=%q", got.Score, got.JobURL, want.JobURL)
	}
	if len(got.Gaps) != 1 || got.Gaps[0] != "kubernetes" {
		t.Errorf("Gaps = %v, want [kubernetes]", got.Gaps)
	}
}

func TestSQLiteStore_GetUnknownReturnsNil(t *testing.T) {
	s := newTestSQLiteStore(t)

	got, err := s.Get(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Error("expected nil for unknown key")
	}
}

func TestSQLiteStore_WriteOnce(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	first := analysisWithScore("https://jobs.example/1", 80)
	second := analysisWithScore("https://jobs.example/1", 5)

	if err := s.Set(ctx, "k1", first); err != nil {
		t.Fatalf("first Set: %v", err)
	}
	if err := s.Set(ctx, "k1", second); err != nil {
		t.Fatalf("second Set: %v", err)
	}

	got, err := s.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Score != 80 {
		t.Errorf("score = %d, want the first write (80) to survive", got.Score)
	}
}

func TestSQLiteStore_Count(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	for i, key := range []string{"a", "b", "b"} {
		if err := s.Set(ctx, key, analysisWithScore("u", i)); err != nil {
			t.Fatalf("Set %q: %v", key, err)
		}
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Errorf("Count = %d, want 2 (duplicate key ignored)", count)
	}
}
