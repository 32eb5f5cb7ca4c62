package cache

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "analyses.json"))

	got, err := s.Get(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Error("expected miss on a store whose file does not exist yet")
	}
}

func TestFileStore_SetThenGetSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analyses.json")
	ctx := context.Background()

	s := NewFileStore(path)
	if err := s.Set(ctx, "k1", analysisWithScore("https://jobs.example/1", 64)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// A fresh store over the same path sees the entry (durability).
	reopened := NewFileStore(path)
	got, err := reopened.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if got == nil || got.Score != 64 {
		t.Fatalf("got %+v, want cached analysis with score 64", got)
	}
}

func TestFileStore_WriteOnce(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "analyses.json"))
	ctx := context.Background()

	if err := s.Set(ctx, "k1", analysisWithScore("u", 90)); err != nil {
		t.Fatalf("first Set: %v", err)
	}
	if err := s.Set(ctx, "k1", analysisWithScore("u", 1)); err != nil {
		t.Fatalf("second Set: %v", err)
	}

	got, err := s.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Score != 90 {
		t.Errorf("score = %d, want first write (90) to survive", got.Score)
	}
}

func TestFileStore_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "analyses.json")
	s := NewFileStore(path)

	if err := s.Set(context.Background(), "k1", analysisWithScore("u", 50)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("expected temp file to be renamed away after write")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected cache file to exist: %v", err)
	}
}

func TestMemoryStore_WriteOnceUnderConcurrency(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			s.Set(ctx, "k1", analysisWithScore("u", score))
		}(i)
	}
	wg.Wait()

	first, err := s.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if first == nil {
		t.Fatal("expected an entry after concurrent writes")
	}

	// Whatever won the race must now be permanent.
	if err := s.Set(ctx, "k1", analysisWithScore("u", 999)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	again, _ := s.Get(ctx, "k1")
	if again.Score != first.Score {
		t.Errorf("entry changed after the first write: %d -> %d", first.Score, again.Score)
	}
}

func TestKey_PersonaVersionEpochs(t *testing.T) {
	if got := Key(" https://jobs.example/1 ", ""); got != "https://jobs.example/1" {
		t.Errorf("Key with empty version = %q, want bare trimmed URL", got)
	}
	if got := Key("https://jobs.example/1", "v2"); got != "v2::https://jobs.example/1" {
		t.Errorf("Key = %q, want version-prefixed key", got)
	}
	if Key("u", "v1") == Key("u", "v2") {
		t.Error("different persona versions must map to different keys")
	}
}
