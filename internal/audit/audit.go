// Package audit records every pipeline decision as one JSON line in an
// append-only trail file, so a scoring run can be reviewed after the fact.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Event is one pipeline decision for one (run, job) pair.
type Event struct {
	Time   time.Time `json:"time"`
	RunID  string    `json:"run_id"`
	JobURL string    `json:"job_url"`
	State  string    `json:"state"`
	Reason string    `json:"reason,omitempty"`
	Score  int       `json:"score"`
}

// Recorder consumes pipeline decisions. Recording must never block scoring:
// callers log failures and move on.
type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

// Trail appends events to a JSONL file. Safe for concurrent workers.
type Trail struct {
	mu   sync.Mutex
	file *os.File
}

// NewTrail opens (or creates) the trail file at path in append mode.
func NewTrail(path string) (*Trail, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening audit trail %s: %w", path, err)
	}
	return &Trail{file: f}, nil
}

// Record appends one event. A zero Time is stamped with the current time.
func (t *Trail) Record(_ context.Context, ev Event) error {
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}
	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding audit event: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("appending audit event: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (t *Trail) Close() error {
	return t.file.Close()
}

// Nop discards every event.
type Nop struct{}

func (Nop) Record(context.Context, Event) error { return nil }
