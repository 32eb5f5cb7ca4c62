package engine

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matchwarden/matchwarden/internal/model"
)

// DefaultWorkers bounds batch concurrency when none is configured.
const DefaultWorkers = 4

// EvaluateBatch scores every job for the candidate on a bounded worker
// pool. One run ID covers the whole batch. Results come back in input
// order. Cancellation is checkpoint-granular: units already in flight run
// to completion, no new unit starts once ctx is done, and the returned
// error is the cancellation cause; entries for units that never ran are
// zero-valued.
func (e *Engine) EvaluateBatch(ctx context.Context, jobs []model.JobPosting, candidate model.Candidate) ([]model.MatchAnalysis, error) {
	if len(jobs) == 0 {
		return nil, nil
	}

	runID := uuid.NewString()
	e.logger.Info("batch started",
		"run_id", runID,
		"jobs", len(jobs),
		"workers", e.workers,
	)

	results := make([]model.MatchAnalysis, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.evaluate(gctx, runID, job, candidate)
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		// The submit loop may have stopped before any unit observed the
		// cancellation.
		err = ctx.Err()
	}

	var scored, cached, discarded, degraded int
	for _, a := range results {
		switch {
		case a.JobURL == "":
			// unit never ran
		case a.Cached:
			cached++
		case a.Discarded:
			discarded++
		case a.Degraded:
			degraded++
		default:
			scored++
		}
	}
	e.logger.Info("batch complete",
		"run_id", runID,
		"jobs", len(jobs),
		"scored", scored,
		"cached", cached,
		"discarded", discarded,
		"degraded", degraded,
	)

	if err != nil {
		return results, err
	}
	return results, nil
}
