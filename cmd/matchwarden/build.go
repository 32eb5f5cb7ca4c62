package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matchwarden/matchwarden/internal/audit"
	"github.com/matchwarden/matchwarden/internal/cache"
	"github.com/matchwarden/matchwarden/internal/config"
	"github.com/matchwarden/matchwarden/internal/constraint"
	"github.com/matchwarden/matchwarden/internal/engine"
	"github.com/matchwarden/matchwarden/internal/feedback"
	"github.com/matchwarden/matchwarden/internal/guardrail"
	"github.com/matchwarden/matchwarden/internal/horizon"
	"github.com/matchwarden/matchwarden/internal/model"
	"github.com/matchwarden/matchwarden/internal/oracle"
	"github.com/matchwarden/matchwarden/internal/ratelimit"
	"github.com/matchwarden/matchwarden/internal/retry"
	"github.com/matchwarden/matchwarden/internal/sink"
	"github.com/matchwarden/matchwarden/internal/source"
	"github.com/matchwarden/matchwarden/internal/vector"
)

// retryBaseDelay seeds the exponential backoff on oracle calls.
const retryBaseDelay = 5 * time.Second

// runtime bundles everything a scoring command needs: the wired engine, the
// posting source, the loaded candidate, and a close func releasing every
// file and connection the wiring opened.
type runtime struct {
	engine    *engine.Engine
	source    model.JobSource
	candidate model.Candidate
	close     func()
}

// buildRuntime wires the full pipeline from config and secrets.
func buildRuntime(ctx context.Context, cfg *config.Config, secrets config.Secrets, logger *slog.Logger) (*runtime, error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*runtime, error) {
		closeAll()
		return nil, err
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	candidate, err := loadCandidate(ctx, cfg, logger)
	if err != nil {
		return fail(err)
	}

	hard, horizonCfg, err := config.LoadConstraints(cfg.Constraints)
	if err != nil {
		logger.Warn("constraints unavailable, using permissive defaults", "error", err)
	}

	embedder := buildEmbedder(cfg, secrets, httpClient, logger)
	if embedder != nil && candidate.ResumeText != "" {
		signature, err := embedder.Embed(ctx, vector.BuildSignatureText(candidate))
		if err != nil {
			logger.Warn("signature embedding failed, vector gate disabled", "error", err)
		} else {
			candidate.SignatureEmbedding = signature
		}
	}

	store, closeStore, err := buildStore(ctx, cfg, secrets)
	if err != nil {
		return fail(err)
	}
	if closeStore != nil {
		closers = append(closers, closeStore)
	}

	scorer, err := buildScorer(ctx, cfg, secrets, httpClient, logger)
	if err != nil {
		return fail(err)
	}

	sinks := []model.ResultSink{sink.NewLogSink(logger)}
	if cfg.Sinks.ResultsPath != "" {
		jsonl, err := sink.NewJSONLSink(cfg.Sinks.ResultsPath)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() { jsonl.Close() })
		sinks = append(sinks, jsonl)
	}

	var trail audit.Recorder = audit.Nop{}
	if cfg.Sinks.AuditPath != "" {
		t, err := audit.NewTrail(cfg.Sinks.AuditPath)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() { t.Close() })
		trail = t
	}

	eng := engine.New(engine.Deps{
		Constraints: constraint.NewFilter(hard),
		PreFilter:   vector.NewPreFilter(embedder, cfg.Vector.Threshold, logger),
		Cache:       store,
		Oracle:      scorer,
		Guardrails:  guardrail.NewPostProcessor(logger),
		Horizon:     horizon.NewCalculator(horizonCfg),
		Sink:        sink.NewMulti(logger, sinks...),
		Trail:       trail,
		Logger:      logger,

		OracleTimeout: cfg.Oracle.Timeout,
		Workers:       cfg.Batch.Workers,
	})

	src, err := buildSource(cfg, httpClient, logger)
	if err != nil {
		return fail(err)
	}

	return &runtime{
		engine:    eng,
		source:    src,
		candidate: candidate,
		close:     closeAll,
	}, nil
}

func buildSource(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) (model.JobSource, error) {
	switch cfg.Source.Type {
	case "file":
		return source.NewFileSource(cfg.Source.Path, logger), nil
	case "http":
		return source.NewHTTPSource(cfg.Source.URL, httpClient, logger), nil
	default:
		return nil, fmt.Errorf("unsupported source type %q", cfg.Source.Type)
	}
}

// buildStore selects the analysis cache backend. The second return value
// closes the backend; nil when there is nothing to close.
func buildStore(ctx context.Context, cfg *config.Config, secrets config.Secrets) (model.AnalysisStore, func(), error) {
	switch cfg.Cache.Backend {
	case "sqlite":
		s, err := cache.NewSQLiteStore(cfg.Cache.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case "file":
		return cache.NewFileStore(cfg.Cache.Path), nil, nil
	case "redis":
		if secrets.RedisAddr == "" {
			return nil, nil, fmt.Errorf("cache backend redis requires REDIS_ADDR")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     secrets.RedisAddr,
			Password: secrets.RedisPassword,
		})
		return cache.NewRedisStore(client), func() { client.Close() }, nil
	case "postgres":
		if secrets.PostgresDSN == "" {
			return nil, nil, fmt.Errorf("cache backend postgres requires POSTGRES_DSN")
		}
		s, err := cache.NewPostgresStore(ctx, secrets.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case "memory":
		return cache.NewMemoryStore(), nil, nil
	case "nop":
		return cache.NewNopStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cache backend %q", cfg.Cache.Backend)
	}
}

// buildScorer assembles the oracle: a fallback chain of providers, each
// wrapped with shared rate limiting and retry, behind the prompt adapter.
func buildScorer(ctx context.Context, cfg *config.Config, secrets config.Secrets, httpClient *http.Client, logger *slog.Logger) (*oracle.Adapter, error) {
	limiter := ratelimit.NewLimiter(cfg.Oracle.MinDelay)
	chain := oracle.NewFallback(logger)

	for _, name := range cfg.Oracle.Providers {
		var provider oracle.Provider
		switch name {
		case "openai":
			if secrets.OpenAIAPIKey == "" {
				logger.Warn("provider has no api key, skipping", "provider", name)
				continue
			}
			provider = oracle.NewOpenAIProvider(cfg.Oracle.BaseURL, secrets.OpenAIAPIKey, cfg.Oracle.Model, httpClient)
		case "gemini":
			if secrets.GeminiAPIKey == "" {
				logger.Warn("provider has no api key, skipping", "provider", name)
				continue
			}
			p, err := oracle.NewGeminiProvider(ctx, secrets.GeminiAPIKey, cfg.Oracle.GeminiModel)
			if err != nil {
				return nil, fmt.Errorf("building gemini provider: %w", err)
			}
			provider = p
		default:
			return nil, fmt.Errorf("unsupported oracle provider %q", name)
		}

		// Rate limiting sits inside retry so every attempt is paced.
		provider = ratelimit.NewLimitedCompleter(provider, limiter, name)
		provider = retry.NewRetryCompleter(provider, cfg.Oracle.MaxRetries, retryBaseDelay, logger)
		chain.Add(name, provider)
		logger.Info("registered oracle provider", "provider", name)
	}

	if chain.Len() == 0 {
		logger.Warn("no oracle providers available, every job will degrade to the neutral score")
	}

	opts := oracle.AdapterOptions{ShortCircuitScore: cfg.Oracle.ShortCircuitScore}
	return oracle.NewAdapter(chain, opts, logger), nil
}

// loadCandidate assembles the candidate from the profile document, the
// resume text, and whatever rejection feedback is on record.
func loadCandidate(ctx context.Context, cfg *config.Config, logger *slog.Logger) (model.Candidate, error) {
	persona, blacklist, err := config.LoadProfile(cfg.Profile.Path)
	if err != nil {
		return model.Candidate{}, err
	}

	var resume string
	if cfg.Profile.ResumePath != "" {
		data, err := os.ReadFile(cfg.Profile.ResumePath)
		if err != nil {
			return model.Candidate{}, fmt.Errorf("reading resume %s: %w", cfg.Profile.ResumePath, err)
		}
		resume = string(data)
	}

	entries, err := loadFeedback(ctx, cfg.Feedback.Path)
	if err != nil {
		// Feedback only weights penalties; scoring proceeds without it.
		logger.Warn("feedback unavailable, scoring without it", "error", err)
		entries = nil
	}

	return model.Candidate{
		ResumeText: resume,
		Persona:    persona,
		Feedback:   entries,
		Blacklist:  blacklist,
	}, nil
}

// loadFeedback reads feedback from a JSON log or a SQLite database,
// selected by file extension.
func loadFeedback(ctx context.Context, path string) ([]model.FeedbackEntry, error) {
	if path == "" {
		return nil, nil
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return feedback.LoadLog(path)
	}
	store, err := feedback.NewSQLiteStore(path)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Entries(ctx)
}

func buildEmbedder(cfg *config.Config, secrets config.Secrets, httpClient *http.Client, logger *slog.Logger) vector.Embedder {
	if !cfg.Vector.Enabled {
		return nil
	}
	if secrets.OpenAIAPIKey == "" {
		logger.Warn("vector gate enabled but OPENAI_API_KEY is not set, gate disabled")
		return nil
	}
	return vector.NewOpenAIEmbedder(cfg.Oracle.BaseURL, secrets.OpenAIAPIKey, cfg.Vector.EmbeddingModel, httpClient)
}
