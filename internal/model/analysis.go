package model

import "time"

// RoleLabel buckets a posting by the seniority lane its title advertises.
type RoleLabel string

const (
	RoleExecutive RoleLabel = "Executive"
	RoleArchitect RoleLabel = "Architect"
	RoleOther     RoleLabel = "Other"
)

// MatchAnalysis is the engine's verdict for one (candidate, job) pair.
// Created once per evaluation and never updated in place; the only field
// set afterwards is Cached, on the copy returned for a replay.
type MatchAnalysis struct {
	JobURL         string    `json:"job_url"`
	Score          int       `json:"score"`
	BaseScore      int       `json:"base_score"`
	BonusPoints    int       `json:"bonus_points"`
	Reasoning      string    `json:"reasoning"`
	Gaps           []string  `json:"gaps,omitempty"`
	WhyMatches     string    `json:"why_matches,omitempty"`
	WhyDoesntMatch string    `json:"why_doesnt_match,omitempty"`
	Discarded      bool      `json:"discarded,omitempty"`
	DiscardReason  string    `json:"discard_reason,omitempty"`
	Degraded       bool      `json:"degraded,omitempty"`
	Cached         bool      `json:"cached,omitempty"`
	Similarity     float64   `json:"similarity,omitempty"`
	PersonaVersion string    `json:"persona_version,omitempty"`
	AnalyzedAt     time.Time `json:"analyzed_at"`
}

// RoleMatch pairs a role label with the single cached analysis it was
// inferred from. Labeling never triggers a second oracle call.
type RoleMatch struct {
	Label    RoleLabel     `json:"label"`
	Analysis MatchAnalysis `json:"analysis"`
}

// ClampScore bounds a score to the engine's 0..100 contract.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
