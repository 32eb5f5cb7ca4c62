package feedback

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matchwarden/matchwarden/internal/guardrail"
)

func newStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "feedback.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_RecordAndEntries(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	if err := store.Record(ctx, "job-1", "Wrong Role"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Record(ctx, "job-2", "Salary too low"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := store.Entries(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Reason != "Wrong Role" {
		t.Errorf("first reason = %q, want %q", entries[0].Reason, "Wrong Role")
	}
	if entries[0].Timestamp.IsZero() {
		t.Error("timestamp not persisted")
	}
}

func TestSQLiteStore_LatestFeedbackWinsPerJob(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	if err := store.Record(ctx, "job-1", "Wrong Role"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Record(ctx, "job-1", "Location"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := store.Entries(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1 (one record per job)", len(entries))
	}
	if entries[0].Reason != "Location" {
		t.Errorf("reason = %q, want the replacement %q", entries[0].Reason, "Location")
	}
}

func TestSQLiteStore_RecordRejectsEmptyInput(t *testing.T) {
	store := newStore(t)

	if err := store.Record(context.Background(), "", "Wrong Role"); err == nil {
		t.Error("expected error for empty job id")
	}
	if err := store.Record(context.Background(), "job-1", ""); err == nil {
		t.Error("expected error for empty reason")
	}
}

func TestSQLiteStore_Patterns(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	for i, reason := range []string{"Wrong Role", "wrong role again", "Company reputation"} {
		if err := store.Record(ctx, "job-"+string(rune('a'+i)), reason); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	counts, err := store.Patterns(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counts[guardrail.PatternWrongRole] != 2 {
		t.Errorf("wrong_role count = %d, want 2", counts[guardrail.PatternWrongRole])
	}
	if counts[guardrail.PatternCompanyReputation] != 1 {
		t.Errorf("company_reputation count = %d, want 1", counts[guardrail.PatternCompanyReputation])
	}
}

func TestLoadLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback_log.json")
	payload := `[
		{"timestamp": "2025-11-03T10:15:00Z", "job_id": "a", "reason": "Wrong Role"},
		{"timestamp": "2025-11-04T09:30:00.123456", "job_id": "b", "reason": "Salary too low"},
		{"timestamp": "", "job_id": "c", "reason": ""}
	]`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := LoadLog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The reason-less entry is dropped.
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Timestamp != time.Date(2025, 11, 3, 10, 15, 0, 0, time.UTC) {
		t.Errorf("timestamp = %v, want the RFC3339 value parsed", entries[0].Timestamp)
	}
	if entries[1].Timestamp.IsZero() {
		t.Error("zone-less ISO timestamp should still parse")
	}
}

func TestLoadLog_MissingFileIsEmptyLog(t *testing.T) {
	entries, err := LoadLog(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}

func TestLoadLog_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback_log.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := LoadLog(path); err == nil {
		t.Error("expected error for malformed log")
	}
}
