// Package oracle wraps the nondeterministic scoring model behind a
// deterministic contract: title short-circuits that skip the model
// entirely, bounded prompt inputs, a provider fallback chain, and lenient
// response parsing with a neutral-score failure policy.
package oracle

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/matchwarden/matchwarden/internal/model"
)

const (
	// DefaultShortCircuitScore is assigned to leadership-titled jobs
	// without consulting the oracle.
	DefaultShortCircuitScore = 60

	// DefaultMaxInputChars bounds the description and candidate text sent
	// to the oracle. Truncation keeps the beginning of the text.
	DefaultMaxInputChars = 1000

	// minProfileChars is the shortest candidate text worth scoring.
	minProfileChars = 50
)

// defaultLeadershipKeywords short-circuit the oracle when found in a job
// title. Matching is uppercase substring, so titles embedded in non-Latin
// text still hit.
var defaultLeadershipKeywords = []string{
	"CTO", "VP", "CHIEF", "DIRECTOR", "HEAD OF", "FOUNDING", "VICE PRESIDENT",
}

// AdapterOptions tune the adapter. Zero values select the defaults above.
type AdapterOptions struct {
	LeadershipKeywords  []string
	ShortCircuitScore   int
	MaxDescriptionChars int
	MaxCandidateChars   int
}

// Adapter is the scoring oracle adapter. It owns prompt assembly, the
// short-circuit path, and the parsing failure policy; transport concerns
// (retry, rate limiting, fallback) live in the wrapped Provider.
type Adapter struct {
	provider            Provider
	keywords            []string
	shortCircuitScore   int
	maxDescriptionChars int
	maxCandidateChars   int
	logger              *slog.Logger
}

// NewAdapter creates an adapter around provider, typically a Fallback chain
// whose entries are wrapped with retry and rate limiting.
func NewAdapter(provider Provider, opts AdapterOptions, logger *slog.Logger) *Adapter {
	keywords := opts.LeadershipKeywords
	if len(keywords) == 0 {
		keywords = defaultLeadershipKeywords
	}
	upper := make([]string, len(keywords))
	for i, kw := range keywords {
		upper[i] = strings.ToUpper(kw)
	}

	score := opts.ShortCircuitScore
	if score <= 0 {
		score = DefaultShortCircuitScore
	}
	maxDesc := opts.MaxDescriptionChars
	if maxDesc <= 0 {
		maxDesc = DefaultMaxInputChars
	}
	maxCV := opts.MaxCandidateChars
	if maxCV <= 0 {
		maxCV = DefaultMaxInputChars
	}

	return &Adapter{
		provider:            provider,
		keywords:            upper,
		shortCircuitScore:   score,
		maxDescriptionChars: maxDesc,
		maxCandidateChars:   maxCV,
		logger:              logger,
	}
}

// Score evaluates how well the candidate matches the job. Leadership
// titles return a fixed moderate score without any oracle call. A
// candidate text under minProfileChars returns model.ErrProfileMissing.
// An unparseable oracle response degrades to NeutralScore instead of
// failing; only transport-level exhaustion returns an error.
func (a *Adapter) Score(ctx context.Context, job model.JobPosting, candidate model.Candidate) (*Result, error) {
	title := strings.TrimSpace(job.Title)
	if title == "" {
		title = titleFromDescription(job.Description)
	}

	if kw := a.matchLeadershipKeyword(title); kw != "" {
		a.logger.Info("leadership short-circuit, skipping oracle call",
			"title", title,
			"keyword", kw,
			"score", a.shortCircuitScore,
		)
		return &Result{
			Score:        a.shortCircuitScore,
			ShortCircuit: true,
			Reasoning: fmt.Sprintf(
				"Leadership short-circuit: job title %q contains the leadership keyword %q. Scored %d without an oracle call.",
				title, kw, a.shortCircuitScore,
			),
			WhyMatches: fmt.Sprintf(
				"Executive-level role detected: %s. The title alone marks this as a plausible senior-leadership match.",
				title,
			),
		}, nil
	}

	if len(strings.TrimSpace(candidate.ResumeText)) < minProfileChars {
		return nil, model.ErrProfileMissing
	}

	prompt, err := a.buildPrompt(title, job, candidate)
	if err != nil {
		return nil, err
	}

	raw, err := a.provider.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("oracle completion for %q: %w", title, err)
	}

	result, err := Parse(raw)
	if err != nil {
		a.logger.Debug("unparseable oracle response, defaulting to neutral score",
			"title", title,
			"raw", raw,
			"error", err,
		)
		return &Result{
			Score:     NeutralScore,
			Degraded:  true,
			Reasoning: "Oracle response could not be parsed; defaulted to neutral score 50.",
		}, nil
	}

	return result, nil
}

func (a *Adapter) buildPrompt(title string, job model.JobPosting, candidate model.Candidate) (string, error) {
	p := candidate.Persona
	data := promptData{
		PersonaSummary:  p.PersonaSummary,
		RoleLevel:       p.RoleLevel,
		IndustryFocus:   p.IndustryFocus,
		PrimaryDomain:   p.PrimaryDomain,
		TechStack:       strings.Join(p.TechStack, ", "),
		CVText:          truncate(candidate.ResumeText, a.maxCandidateChars),
		PrioritySkills:  strings.Join(p.Preferences, ", "),
		Ambitions:       p.Ambitions,
		AvoidPatterns:   strings.Join(p.AvoidPatterns, ", "),
		FeedbackReasons: countFeedbackReasons(candidate.Feedback),
		JobTitle:        title,
		JobDescription:  truncate(job.Description, a.maxDescriptionChars),
	}

	var buf bytes.Buffer
	if err := MatchTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

func (a *Adapter) matchLeadershipKeyword(title string) string {
	if title == "" {
		return ""
	}
	upper := strings.ToUpper(title)
	for _, kw := range a.keywords {
		if strings.Contains(upper, kw) {
			return kw
		}
	}
	return ""
}

// titleFromDescription salvages a title when the posting has none: the
// first line if it looks like a heading, otherwise the leading 100 chars.
func titleFromDescription(description string) string {
	if description == "" {
		return ""
	}

	head := description
	if len(head) > 200 {
		head = head[:200]
	}
	line, _, _ := strings.Cut(head, "\n")
	line = strings.TrimSpace(line)
	if line != "" && len(line) < 100 && !strings.HasSuffix(line, ".") &&
		!strings.HasSuffix(line, "!") && !strings.HasSuffix(line, "?") {
		return line
	}

	if len(description) > 100 {
		return description[:100]
	}
	return description
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
