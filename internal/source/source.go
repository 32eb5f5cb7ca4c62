// Package source consumes the external job collector's output: batches of
// postings read from JSON/JSONL files or fetched over HTTP, normalized
// before they enter the scoring pipeline.
package source

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/matchwarden/matchwarden/internal/model"
)

// decodeArray reads a JSON array of postings.
func decodeArray(r io.Reader) ([]model.JobPosting, error) {
	var postings []model.JobPosting
	if err := json.NewDecoder(r).Decode(&postings); err != nil {
		return nil, fmt.Errorf("decoding postings array: %w", err)
	}
	return postings, nil
}

// decodeLines reads JSONL postings, one object per line. Blank lines are
// skipped.
func decodeLines(r io.Reader) ([]model.JobPosting, error) {
	var postings []model.JobPosting
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var p model.JobPosting
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decoding posting on line %d: %w", line, err)
		}
		postings = append(postings, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading postings: %w", err)
	}
	return postings, nil
}

// normalizeAll normalizes every posting, dropping the ones that fail with a
// warning instead of failing the whole batch.
func normalizeAll(raw []model.JobPosting, logger *slog.Logger) []model.JobPosting {
	postings := make([]model.JobPosting, 0, len(raw))
	for _, p := range raw {
		n, err := Normalize(p)
		if err != nil {
			logger.Warn("skipping posting",
				"title", p.Title,
				"company", p.Company,
				"error", err,
			)
			continue
		}
		postings = append(postings, n)
	}
	return postings
}
