// Package sink delivers finished analyses to their consumers: structured
// logs for interactive runs and a durable JSONL file for later review.
package sink

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/matchwarden/matchwarden/internal/model"
)

// Ensure Multi implements model.ResultSink.
var _ model.ResultSink = (*Multi)(nil)

// Multi fans one analysis out to every configured sink. Individual failures
// are logged; an error is returned only when every sink fails.
type Multi struct {
	sinks  []model.ResultSink
	logger *slog.Logger
}

// NewMulti combines sinks into one. An empty sink list delivers nowhere and
// never fails.
func NewMulti(logger *slog.Logger, sinks ...model.ResultSink) *Multi {
	return &Multi{sinks: sinks, logger: logger}
}

// Deliver hands the analysis to each sink in order.
func (m *Multi) Deliver(ctx context.Context, analysis model.MatchAnalysis) error {
	if len(m.sinks) == 0 {
		return nil
	}

	failures := 0
	var lastErr error
	for _, s := range m.sinks {
		if err := s.Deliver(ctx, analysis); err != nil {
			m.logger.Error("sink delivery failed", "url", analysis.JobURL, "error", err)
			failures++
			lastErr = err
		}
	}
	if failures == len(m.sinks) {
		return fmt.Errorf("all %d sinks failed: %w", failures, lastErr)
	}
	return nil
}
