package model

import (
	"context"
	"time"
)

// JobPosting is one job as handed over by the external collector.
// Immutable once ingested; the engine reads it and never writes back.
type JobPosting struct {
	Title       string     `json:"title" yaml:"title"`
	Company     string     `json:"company" yaml:"company"`
	URL         string     `json:"url" yaml:"url"` // stable unique id
	Description string     `json:"description" yaml:"description"`
	Location    string     `json:"location,omitempty" yaml:"location,omitempty"`
	PostedAt    *time.Time `json:"posted_at,omitempty" yaml:"posted_at,omitempty"`
	Language    string     `json:"language,omitempty" yaml:"language,omitempty"` // ISO 639-3, set during normalization
}

// Text returns the title+company+description blob the rule-based stages
// match against.
func (j JobPosting) Text() string {
	return j.Title + "\n" + j.Company + "\n" + j.Description
}

// Persona is the structured profile a candidate's résumé was distilled into
// by the external profiling collaborator. Read-only input: the engine never
// mutates it. Version opens a new cache epoch when the persona is rebuilt.
type Persona struct {
	RoleLevel      string   `json:"role_level" yaml:"role_level"`
	IndustryFocus  string   `json:"industry_focus" yaml:"industry_focus"`
	PrimaryDomain  string   `json:"primary_domain" yaml:"primary_domain"`
	TechStack      []string `json:"tech_stack" yaml:"tech_stack"`
	Preferences    []string `json:"preferences" yaml:"preferences"` // explicitly prioritized skills
	AvoidPatterns  []string `json:"avoid_patterns" yaml:"avoid_patterns"`
	PersonaSummary string   `json:"persona_summary" yaml:"persona_summary"`
	Ambitions      string   `json:"ambitions" yaml:"ambitions"`
	Version        string   `json:"version" yaml:"version"`
}

// FeedbackEntry is one piece of historical rejection feedback. Feedback only
// weights penalties; it never fabricates new constraints.
type FeedbackEntry struct {
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// Candidate bundles everything the profile provider supplies for one
// scoring call.
type Candidate struct {
	ResumeText         string
	Persona            Persona
	Feedback           []FeedbackEntry
	Blacklist          []string
	SignatureEmbedding []float64 // precomputed DNA signature, may be nil
}

// WorkModelConfig captures the candidate's remote/hybrid requirements.
type WorkModelConfig struct {
	RemoteOnly    bool `yaml:"remote_only"`
	HybridAllowed bool `yaml:"hybrid_allowed"`
	MinHomeDays   int  `yaml:"min_home_days"`
}

// TravelLimitsConfig captures travel tolerances. OverseasTravel is "none",
// "rare", or "ok"; only "none" can fail a job.
type TravelLimitsConfig struct {
	OverseasTravel string `yaml:"overseas_travel"`
}

// LocationFlexibilityConfig captures geographic constraints.
type LocationFlexibilityConfig struct {
	AllowedCities   []string `yaml:"allowed_cities"`
	IsraelOnly      bool     `yaml:"israel_only"`
	AllowRelocation bool     `yaml:"allow_relocation"`
}

// HardConstraintsConfig is the non-negotiable constraint set. A missing or
// partial constraints file falls back to config.PermissiveConstraints so the
// pipeline never hard-fails on configuration.
type HardConstraintsConfig struct {
	WorkModel           WorkModelConfig           `yaml:"work_model"`
	TravelLimits        TravelLimitsConfig        `yaml:"travel_limits"`
	LocationFlexibility LocationFlexibilityConfig `yaml:"location_flexibility"`
}

// CareerHorizonConfig drives the additive long-term-alignment bonus.
type CareerHorizonConfig struct {
	TargetRoles    []string `yaml:"target_roles"`
	AdditiveWeight float64  `yaml:"additive_weight"` // clamped to [0,1]
}

// JobSource supplies batches of postings collected elsewhere.
type JobSource interface {
	FetchJobs(ctx context.Context) ([]JobPosting, error)
}

// AnalysisStore is the write-once memoization layer. Set is a no-op when the
// key already holds an entry; Get returns nil on a miss.
type AnalysisStore interface {
	Get(ctx context.Context, key string) (*MatchAnalysis, error)
	Set(ctx context.Context, key string, analysis MatchAnalysis) error
}

// ResultSink receives finished analyses for delivery or persistence.
type ResultSink interface {
	Deliver(ctx context.Context, analysis MatchAnalysis) error
}
