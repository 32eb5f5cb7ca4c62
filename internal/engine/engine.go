// Package engine runs the scoring pipeline for (candidate, job) pairs:
// hard constraints, vector gate, cache lookup, oracle scoring, guardrails,
// career-horizon bonus, then persistence and delivery. Every terminal
// outcome is recorded in the audit trail, and every failure mode maps to a
// flagged analysis instead of a failed call.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matchwarden/matchwarden/internal/audit"
	"github.com/matchwarden/matchwarden/internal/cache"
	"github.com/matchwarden/matchwarden/internal/constraint"
	"github.com/matchwarden/matchwarden/internal/guardrail"
	"github.com/matchwarden/matchwarden/internal/horizon"
	"github.com/matchwarden/matchwarden/internal/model"
	"github.com/matchwarden/matchwarden/internal/oracle"
	"github.com/matchwarden/matchwarden/internal/vector"
)

// DefaultOracleTimeout bounds one oracle call, fallback chain included.
const DefaultOracleTimeout = 2 * time.Minute

// Terminal pipeline states, one per audit event.
const (
	StateHardFiltered   = "HARD_FILTERED"
	StateVectorFiltered = "VECTOR_FILTERED"
	StateCacheHit       = "CACHE_HIT"
	StateScored         = "SCORED"
	StateDegraded       = "DEGRADED"
	StateInvalidInput   = "INVALID_INPUT"
)

// Scorer is the oracle surface the engine consumes.
type Scorer interface {
	Score(ctx context.Context, job model.JobPosting, candidate model.Candidate) (*oracle.Result, error)
}

// Deps bundles the engine's collaborators. Every field is required; disable
// a concern with its null implementation (cache.Nop, audit.Nop, an empty
// sink.Multi) rather than a nil.
type Deps struct {
	Constraints *constraint.Filter
	PreFilter   *vector.PreFilter
	Cache       model.AnalysisStore
	Oracle      Scorer
	Guardrails  *guardrail.PostProcessor
	Horizon     *horizon.Calculator
	Sink        model.ResultSink
	Trail       audit.Recorder
	Logger      *slog.Logger

	// OracleTimeout bounds a single oracle call; zero means
	// DefaultOracleTimeout.
	OracleTimeout time.Duration
	// Workers bounds batch concurrency; zero means DefaultWorkers.
	Workers int
}

// Engine owns the full scoring pipeline for one candidate profile against
// any number of jobs. Safe for concurrent use.
type Engine struct {
	constraints *constraint.Filter
	prefilter   *vector.PreFilter
	store       model.AnalysisStore
	scorer      Scorer
	guardrails  *guardrail.PostProcessor
	horizon     *horizon.Calculator
	sink        model.ResultSink
	trail       audit.Recorder
	logger      *slog.Logger

	oracleTimeout time.Duration
	workers       int
}

// New creates an engine wired with all its dependencies.
func New(deps Deps) *Engine {
	timeout := deps.OracleTimeout
	if timeout <= 0 {
		timeout = DefaultOracleTimeout
	}
	workers := deps.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	return &Engine{
		constraints:   deps.Constraints,
		prefilter:     deps.PreFilter,
		store:         deps.Cache,
		scorer:        deps.Oracle,
		guardrails:    deps.Guardrails,
		horizon:       deps.Horizon,
		sink:          deps.Sink,
		trail:         deps.Trail,
		logger:        deps.Logger,
		oracleTimeout: timeout,
		workers:       workers,
	}
}

// Evaluate scores one job for the candidate. It always returns an analysis:
// discarded, degraded, and invalid-input outcomes are flagged on the record,
// never surfaced as errors.
func (e *Engine) Evaluate(ctx context.Context, job model.JobPosting, candidate model.Candidate) model.MatchAnalysis {
	return e.evaluate(ctx, uuid.NewString(), job, candidate)
}

func (e *Engine) evaluate(ctx context.Context, runID string, job model.JobPosting, candidate model.Candidate) model.MatchAnalysis {
	if passed, reason := e.constraints.Filter(job); !passed {
		analysis := e.newAnalysis(job, candidate)
		analysis.Discarded = true
		analysis.DiscardReason = reason
		e.persist(ctx, analysis)
		e.finish(ctx, runID, StateHardFiltered, analysis)
		return analysis
	}

	passed, similarity := e.prefilter.Filter(ctx, job.Description, candidate.SignatureEmbedding)
	if !passed {
		analysis := e.newAnalysis(job, candidate)
		analysis.Discarded = true
		analysis.DiscardReason = fmt.Sprintf("vector similarity %.3f below threshold %.2f", similarity, e.prefilter.Threshold())
		analysis.Similarity = similarity
		e.persist(ctx, analysis)
		e.finish(ctx, runID, StateVectorFiltered, analysis)
		return analysis
	}

	key := cache.Key(job.URL, candidate.Persona.Version)
	cached, err := e.store.Get(ctx, key)
	if err != nil {
		e.logger.Warn("cache read failed, evaluating anyway", "key", key, "error", err)
	}
	if cached != nil {
		replay := *cached
		replay.Cached = true
		e.finish(ctx, runID, StateCacheHit, replay)
		return replay
	}

	result, err := e.score(ctx, job, candidate)
	if err != nil {
		if errors.Is(err, model.ErrProfileMissing) {
			analysis := e.newAnalysis(job, candidate)
			analysis.Discarded = true
			analysis.DiscardReason = "profile missing"
			e.finish(ctx, runID, StateInvalidInput, analysis)
			return analysis
		}
		e.logger.Error("oracle unavailable, degrading to neutral score",
			"url", job.URL,
			"error", err,
		)
		result = &oracle.Result{
			Score:     oracle.NeutralScore,
			Degraded:  true,
			Reasoning: "Scoring oracle unavailable; defaulted to neutral score 50.",
		}
	}

	adjusted, notes := e.guardrails.Apply(result.Score, guardrail.Input{Job: job, Candidate: candidate})

	points, alignment := e.horizon.Bonus(job)
	final := adjusted
	if points > 0 {
		final = min(100, adjusted+points)
		notes = append(notes, horizon.Note(points, alignment))
	}

	analysis := e.newAnalysis(job, candidate)
	analysis.Score = final
	analysis.BaseScore = adjusted
	analysis.BonusPoints = points
	analysis.Reasoning = joinReasoning(result.Reasoning, notes)
	analysis.Gaps = result.Gaps
	analysis.WhyMatches = result.WhyMatches
	analysis.WhyDoesntMatch = result.WhyDoesntMatch
	analysis.Degraded = result.Degraded
	analysis.Similarity = similarity

	state := StateScored
	if analysis.Degraded {
		// A degraded score is a placeholder: caching it would pin the
		// neutral value under write-once, so the job stays eligible for
		// a future run.
		state = StateDegraded
	} else {
		e.persist(ctx, analysis)
	}
	e.finish(ctx, runID, state, analysis)
	return analysis
}

// score runs the oracle call as an atomic unit: it survives caller
// cancellation and is bounded only by the per-call timeout.
func (e *Engine) score(ctx context.Context, job model.JobPosting, candidate model.Candidate) (*oracle.Result, error) {
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.oracleTimeout)
	defer cancel()
	return e.scorer.Score(callCtx, job, candidate)
}

func (e *Engine) newAnalysis(job model.JobPosting, candidate model.Candidate) model.MatchAnalysis {
	return model.MatchAnalysis{
		JobURL:         job.URL,
		PersonaVersion: candidate.Persona.Version,
		AnalyzedAt:     time.Now().UTC(),
	}
}

// persist writes the analysis under its cache key. Write failures are
// non-fatal: the analysis is still returned to the caller.
func (e *Engine) persist(ctx context.Context, analysis model.MatchAnalysis) {
	key := cache.Key(analysis.JobURL, analysis.PersonaVersion)
	if err := e.store.Set(ctx, key, analysis); err != nil {
		werr := &model.CacheWriteError{Key: key, Err: err}
		e.logger.Error("analysis not persisted", "url", analysis.JobURL, "error", werr)
	}
}

// finish records the terminal state in the audit trail and hands the
// analysis to the sinks. Neither step may fail the evaluation.
func (e *Engine) finish(ctx context.Context, runID, state string, analysis model.MatchAnalysis) {
	ev := audit.Event{
		RunID:  runID,
		JobURL: analysis.JobURL,
		State:  state,
		Reason: analysis.DiscardReason,
		Score:  analysis.Score,
	}
	if err := e.trail.Record(ctx, ev); err != nil {
		e.logger.Warn("audit record failed", "url", analysis.JobURL, "error", err)
	}
	if err := e.sink.Deliver(ctx, analysis); err != nil {
		e.logger.Error("result delivery failed", "url", analysis.JobURL, "error", err)
	}
}

func joinReasoning(base string, notes []string) string {
	parts := make([]string, 0, len(notes)+1)
	if base != "" {
		parts = append(parts, base)
	}
	parts = append(parts, notes...)
	return strings.Join(parts, "\n")
}
