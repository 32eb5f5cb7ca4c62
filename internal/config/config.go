// Package config loads the engine's YAML configuration and the candidate's
// constraint and profile documents.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/matchwarden/matchwarden/internal/model"
)

// Config is the root configuration for the matchwarden engine.
type Config struct {
	Source      SourceConfig
	Profile     ProfileConfig
	Constraints string // path to the constraints document
	Oracle      OracleConfig
	Vector      VectorConfig
	Cache       CacheConfig
	Feedback    FeedbackConfig
	Batch       BatchConfig
	Sinks       SinkConfig
	Watch       WatchConfig
}

// SourceConfig selects where collected job batches come from.
type SourceConfig struct {
	Type string // "file" or "http"
	Path string // file source: JSON or JSONL path
	URL  string // http source: endpoint serving a JSON array
}

// ProfileConfig locates the candidate profile inputs.
type ProfileConfig struct {
	Path       string // persona + blacklist document
	ResumePath string // plain-text résumé
}

// OracleConfig controls the scoring oracle chain.
type OracleConfig struct {
	Providers         []string      // fallback order: "openai", "gemini"
	Model             string        // OpenAI-compatible model id
	GeminiModel       string        // Gemini model id
	BaseURL           string        // OpenAI-compatible base URL
	Timeout           time.Duration // per-call budget, fallback chain included
	MinDelay          time.Duration // minimum gap between calls to one provider
	MaxRetries        int           // retries per provider before falling through
	ShortCircuitScore int           // fixed score for leadership-title short-circuits
}

// VectorConfig controls the embedding similarity gate.
type VectorConfig struct {
	Enabled        bool
	Threshold      float64
	EmbeddingModel string
}

// CacheConfig selects the write-once analysis store.
type CacheConfig struct {
	Backend string // "file", "sqlite", "redis", "postgres", "memory", "nop"
	Path    string // file and sqlite backends
}

// FeedbackConfig locates the rejection-feedback store. An empty path
// disables feedback weighting.
type FeedbackConfig struct {
	Path string
}

// BatchConfig bounds batch evaluation.
type BatchConfig struct {
	Workers int
}

// SinkConfig selects where finished analyses are delivered. Empty paths
// disable the corresponding file.
type SinkConfig struct {
	ResultsPath string // JSONL results file
	AuditPath   string // JSONL decision trail
}

// WatchConfig drives scheduled scoring runs.
type WatchConfig struct {
	Schedule string // cron expression, e.g. "0 8 * * 1-5"
}

const (
	defaultOpenAIBaseURL  = "https://api.openai.com/v1"
	defaultModel          = "gpt-4o-mini"
	defaultGeminiModel    = "gemini-2.0-flash"
	defaultEmbeddingModel = "text-embedding-3-small"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and durations
// as strings).
type rawConfig struct {
	Source      rawSourceConfig `yaml:"source"`
	Profile     rawProfile      `yaml:"profile"`
	Constraints string          `yaml:"constraints_path"`
	Oracle      rawOracleConfig `yaml:"oracle"`
	Vector      rawVectorConfig `yaml:"vector"`
	Cache       CacheConfig     `yaml:"cache"`
	Feedback    rawFeedback     `yaml:"feedback"`
	Batch       BatchConfig     `yaml:"batch"`
	Sinks       rawSinkConfig   `yaml:"sinks"`
	Watch       WatchConfig     `yaml:"watch"`
}

type rawSourceConfig struct {
	Type string `yaml:"type"`
	Path string `yaml:"path"`
	URL  string `yaml:"url"`
}

type rawProfile struct {
	Path       string `yaml:"path"`
	ResumePath string `yaml:"resume_path"`
}

type rawOracleConfig struct {
	Providers         []string `yaml:"providers"`
	Model             string   `yaml:"model"`
	GeminiModel       string   `yaml:"gemini_model"`
	BaseURL           string   `yaml:"base_url"`
	Timeout           string   `yaml:"timeout"`
	MinDelay          string   `yaml:"min_delay"`
	MaxRetries        int      `yaml:"max_retries"`
	ShortCircuitScore int      `yaml:"short_circuit_score"`
}

type rawVectorConfig struct {
	Enabled        bool    `yaml:"enabled"`
	Threshold      float64 `yaml:"threshold"`
	EmbeddingModel string  `yaml:"embedding_model"`
}

type rawFeedback struct {
	Path string `yaml:"path"`
}

type rawSinkConfig struct {
	ResultsPath string `yaml:"results_path"`
	AuditPath   string `yaml:"audit_path"`
}

// Load reads and parses the YAML config file at path, applies defaults,
// validates it, and returns Config. Environment variables in the file are
// expanded before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	oracleTimeout := 2 * time.Minute
	if raw.Oracle.Timeout != "" {
		oracleTimeout, err = time.ParseDuration(raw.Oracle.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse oracle.timeout %q: %w", raw.Oracle.Timeout, err)
		}
	}

	minDelay := 6 * time.Second
	if raw.Oracle.MinDelay != "" {
		minDelay, err = time.ParseDuration(raw.Oracle.MinDelay)
		if err != nil {
			return nil, fmt.Errorf("parse oracle.min_delay %q: %w", raw.Oracle.MinDelay, err)
		}
	}

	providers := raw.Oracle.Providers
	if len(providers) == 0 {
		providers = []string{"openai"}
	}

	maxRetries := raw.Oracle.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	modelID := raw.Oracle.Model
	if modelID == "" {
		modelID = defaultModel
	}
	geminiModel := raw.Oracle.GeminiModel
	if geminiModel == "" {
		geminiModel = defaultGeminiModel
	}
	baseURL := raw.Oracle.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}

	threshold := raw.Vector.Threshold
	if threshold == 0 {
		threshold = 0.75
	}
	embeddingModel := raw.Vector.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = defaultEmbeddingModel
	}

	backend := raw.Cache.Backend
	if backend == "" {
		backend = "sqlite"
	}
	cachePath := raw.Cache.Path
	if cachePath == "" {
		cachePath = "matchwarden.db"
	}

	workers := raw.Batch.Workers
	if workers <= 0 {
		workers = 4
	}

	schedule := raw.Watch.Schedule
	if schedule == "" {
		schedule = "@hourly"
	}

	cfg := &Config{
		Source: SourceConfig{
			Type: raw.Source.Type,
			Path: raw.Source.Path,
			URL:  raw.Source.URL,
		},
		Profile: ProfileConfig{
			Path:       raw.Profile.Path,
			ResumePath: raw.Profile.ResumePath,
		},
		Constraints: raw.Constraints,
		Oracle: OracleConfig{
			Providers:         providers,
			Model:             modelID,
			GeminiModel:       geminiModel,
			BaseURL:           baseURL,
			Timeout:           oracleTimeout,
			MinDelay:          minDelay,
			MaxRetries:        maxRetries,
			ShortCircuitScore: raw.Oracle.ShortCircuitScore,
		},
		Vector: VectorConfig{
			Enabled:        raw.Vector.Enabled,
			Threshold:      threshold,
			EmbeddingModel: embeddingModel,
		},
		Cache: CacheConfig{
			Backend: backend,
			Path:    cachePath,
		},
		Feedback: FeedbackConfig{Path: raw.Feedback.Path},
		Batch:    BatchConfig{Workers: workers},
		Sinks: SinkConfig{
			ResultsPath: raw.Sinks.ResultsPath,
			AuditPath:   raw.Sinks.AuditPath,
		},
		Watch: WatchConfig{Schedule: schedule},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

var validBackends = map[string]bool{
	"file": true, "sqlite": true, "redis": true,
	"postgres": true, "memory": true, "nop": true,
}

func validate(cfg *Config) error {
	switch cfg.Source.Type {
	case "file":
		if cfg.Source.Path == "" {
			return fmt.Errorf("source.path is required when source.type is \"file\"")
		}
	case "http":
		if cfg.Source.URL == "" {
			return fmt.Errorf("source.url is required when source.type is \"http\"")
		}
	default:
		return fmt.Errorf("source.type must be \"file\" or \"http\", got %q", cfg.Source.Type)
	}

	if cfg.Profile.Path == "" {
		return fmt.Errorf("profile.path is required")
	}

	for _, p := range cfg.Oracle.Providers {
		if p != "openai" && p != "gemini" {
			return fmt.Errorf("unknown oracle provider %q", p)
		}
	}

	if !validBackends[cfg.Cache.Backend] {
		return fmt.Errorf("unknown cache.backend %q", cfg.Cache.Backend)
	}

	if cfg.Vector.Threshold < 0 || cfg.Vector.Threshold > 1 {
		return fmt.Errorf("vector.threshold must be within [0,1], got %v", cfg.Vector.Threshold)
	}

	return nil
}

// PermissiveConstraints is the constraint set used when no constraints
// document is available: everything passes.
func PermissiveConstraints() model.HardConstraintsConfig {
	return model.HardConstraintsConfig{
		WorkModel:           model.WorkModelConfig{HybridAllowed: true},
		TravelLimits:        model.TravelLimitsConfig{OverseasTravel: "ok"},
		LocationFlexibility: model.LocationFlexibilityConfig{AllowRelocation: true},
	}
}

// constraintsFile is the YAML shape of the constraints document.
type constraintsFile struct {
	HardConstraints model.HardConstraintsConfig `yaml:"hard_constraints"`
	CareerHorizon   model.CareerHorizonConfig   `yaml:"career_horizon"`
}

// LoadConstraints reads the constraints document. A missing or unreadable
// document falls back to PermissiveConstraints and reports the problem as a
// model.ConfigError; callers log the fallback and keep going.
func LoadConstraints(path string) (model.HardConstraintsConfig, model.CareerHorizonConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PermissiveConstraints(), model.CareerHorizonConfig{}, &model.ConfigError{Path: path, Err: err}
	}

	var doc constraintsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return PermissiveConstraints(), model.CareerHorizonConfig{}, &model.ConfigError{Path: path, Err: err}
	}

	return doc.HardConstraints, doc.CareerHorizon, nil
}

// profileFile is the YAML shape of the candidate profile document.
type profileFile struct {
	Persona   model.Persona `yaml:"persona"`
	Blacklist []string      `yaml:"blacklist"`
}

// LoadProfile reads the persona document plus the explicit blacklist.
func LoadProfile(path string) (model.Persona, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Persona{}, nil, fmt.Errorf("read profile: %w", err)
	}

	var doc profileFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return model.Persona{}, nil, fmt.Errorf("parse profile: %w", err)
	}

	return doc.Persona, doc.Blacklist, nil
}
