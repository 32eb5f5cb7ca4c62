// Package scheduler drives recurring scoring cycles on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// CycleFunc runs one full scoring cycle: fetch a batch, evaluate it,
// deliver the results.
type CycleFunc func(ctx context.Context) error

// Scheduler owns the watch loop: one immediate cycle, then one per cron
// firing. A failed cycle is logged and the loop keeps going.
type Scheduler struct {
	cycle    CycleFunc
	schedule cron.Schedule
	spec     string
	logger   *slog.Logger
}

// New parses spec as a standard 5-field cron expression (descriptors like
// "@hourly" work too) and returns a scheduler running cycle on it.
func New(cycle CycleFunc, spec string, logger *slog.Logger) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parsing cron schedule %q: %w", spec, err)
	}
	return &Scheduler{
		cycle:    cycle,
		schedule: schedule,
		spec:     spec,
		logger:   logger,
	}, nil
}

// Run starts the loop. It runs one immediate cycle, then waits for each cron
// firing. It returns nil when ctx is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "schedule", s.spec)

	// Run one immediate cycle.
	s.runOnce(ctx)

	for {
		next := s.schedule.Next(time.Now())
		s.logger.Info("next scheduled run", "at", next.Format(time.RFC3339))

		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(time.Until(next)):
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := s.cycle(ctx); err != nil {
		s.logger.Error("scoring cycle failed", "error", err)
		return
	}
	s.logger.Info("scoring cycle finished", "took", time.Since(start).String())
}
