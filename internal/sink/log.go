package sink

import (
	"context"
	"log/slog"

	"github.com/matchwarden/matchwarden/internal/model"
)

// Ensure LogSink implements model.ResultSink.
var _ model.ResultSink = (*LogSink)(nil)

// LogSink writes each finished analysis to the given logger as a structured
// message.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink returns a sink that logs each analysis via slog.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Deliver logs the analysis with url, score, and its outcome flags.
// Returns nil (logging does not fail).
func (s *LogSink) Deliver(_ context.Context, a model.MatchAnalysis) error {
	if a.Discarded {
		s.logger.Info("job discarded", "url", a.JobURL, "reason", a.DiscardReason)
		return nil
	}

	args := []any{"url", a.JobURL, "score", a.Score}
	if a.BonusPoints > 0 {
		args = append(args, "bonus", a.BonusPoints)
	}
	if a.Cached {
		args = append(args, "cached", true)
	}
	if a.Degraded {
		args = append(args, "degraded", true)
	}
	s.logger.Info("job scored", args...)
	return nil
}
