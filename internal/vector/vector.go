// Package vector implements the low-cost similarity gate that runs before
// any oracle call. A job description is embedded and compared against the
// candidate's precomputed signature embedding; jobs below the threshold are
// discarded without spending oracle budget. The gate fails open: missing
// signatures or embedding failures never block scoring.
package vector

import (
	"context"
	"log/slog"
	"math"
)

// DefaultThreshold is the minimum cosine similarity a job must reach to
// proceed to full scoring.
const DefaultThreshold = 0.75

// maxEmbedInput caps embedding input length (model limit).
const maxEmbedInput = 8000

// Embedder produces a vector embedding for a piece of text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// PreFilter gates jobs on embedding similarity to the candidate signature.
type PreFilter struct {
	embedder  Embedder
	threshold float64
	logger    *slog.Logger
}

// NewPreFilter creates a similarity gate. A threshold <= 0 falls back to
// DefaultThreshold.
func NewPreFilter(embedder Embedder, threshold float64, logger *slog.Logger) *PreFilter {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &PreFilter{
		embedder:  embedder,
		threshold: threshold,
		logger:    logger,
	}
}

// Filter reports whether the job description is similar enough to the
// candidate signature to justify full scoring. Fail-open: an empty
// signature, a missing embedder, or an embedding error passes the job
// through with similarity 0.
func (f *PreFilter) Filter(ctx context.Context, jobDescription string, signature []float64) (bool, float64) {
	if len(signature) == 0 || jobDescription == "" || f.embedder == nil {
		return true, 0
	}

	input := jobDescription
	if len(input) > maxEmbedInput {
		input = input[:maxEmbedInput]
	}

	jobEmbedding, err := f.embedder.Embed(ctx, input)
	if err != nil {
		f.logger.Warn("embedding failed, passing job through", "error", err)
		return true, 0
	}
	if len(jobEmbedding) == 0 {
		return true, 0
	}

	similarity := CosineSimilarity(signature, jobEmbedding)
	return similarity >= f.threshold, similarity
}

// Threshold returns the configured cutoff, used for discard reasons.
func (f *PreFilter) Threshold() float64 {
	return f.threshold
}

// CosineSimilarity computes the cosine similarity of two vectors, clamped
// to [0, 1]. Mismatched lengths or zero-magnitude vectors score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	similarity := dot / (math.Sqrt(magA) * math.Sqrt(magB))
	return math.Max(0, math.Min(1, similarity))
}
