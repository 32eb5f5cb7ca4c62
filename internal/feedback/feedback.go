// Package feedback persists rejection feedback and replays it as the
// penalty-weighting signal for scoring. Feedback never adds constraints of
// its own; it only weights penalties on patterns the candidate has already
// rejected.
package feedback

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/matchwarden/matchwarden/internal/model"
)

// LogEntry is the on-disk JSON shape of one feedback record.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	JobID     string `json:"job_id"`
	Reason    string `json:"reason"`
}

// LoadLog reads a feedback log file (a JSON array of entries). A missing
// file is an empty log, not an error.
func LoadLog(path string) ([]model.FeedbackEntry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading feedback log %s: %w", path, err)
	}

	var raw []LogEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding feedback log %s: %w", path, err)
	}

	entries := make([]model.FeedbackEntry, 0, len(raw))
	for _, e := range raw {
		if e.Reason == "" {
			continue
		}
		entries = append(entries, model.FeedbackEntry{
			Reason:    e.Reason,
			Timestamp: parseTimestamp(e.Timestamp),
		})
	}
	return entries, nil
}

// parseTimestamp accepts RFC3339 and zone-less ISO timestamps. Unparseable
// values become the zero time; the timestamp is informational only.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
