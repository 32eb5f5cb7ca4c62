package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matchwarden/matchwarden/internal/cache"
	"github.com/matchwarden/matchwarden/internal/config"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Analysis cache subcommands",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the number of cached analyses",
	RunE:  runCacheStats,
}

var cacheShowCmd = &cobra.Command{
	Use:   "show <job-url>",
	Short: "Print the cached analysis for a job, if any",
	Args:  cobra.ExactArgs(1),
	RunE:  runCacheShow,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheShowCmd)
}

// counter is implemented by the backends that can enumerate their entries.
type counter interface {
	Count(ctx context.Context) (int, error)
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	secrets, err := config.LoadSecrets()
	if err != nil {
		logger.Error("failed to load secrets", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, closeStore, err := buildStore(ctx, cfg, secrets)
	if err != nil {
		logger.Error("failed to open cache", "error", err)
		os.Exit(1)
	}
	if closeStore != nil {
		defer closeStore()
	}

	c, ok := store.(counter)
	if !ok {
		logger.Error("cache backend does not support stats", "backend", cfg.Cache.Backend)
		os.Exit(1)
	}
	n, err := c.Count(ctx)
	if err != nil {
		logger.Error("failed to count cache entries", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Backend: %s\nEntries: %d\n", cfg.Cache.Backend, n)
	return nil
}

func runCacheShow(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	secrets, err := config.LoadSecrets()
	if err != nil {
		logger.Error("failed to load secrets", "error", err)
		os.Exit(1)
	}

	// The persona version is part of the cache key.
	persona, _, err := config.LoadProfile(cfg.Profile.Path)
	if err != nil {
		logger.Error("failed to load profile", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, closeStore, err := buildStore(ctx, cfg, secrets)
	if err != nil {
		logger.Error("failed to open cache", "error", err)
		os.Exit(1)
	}
	if closeStore != nil {
		defer closeStore()
	}

	key := cache.Key(args[0], persona.Version)
	analysis, err := store.Get(ctx, key)
	if err != nil {
		logger.Error("failed to read cache", "error", err)
		os.Exit(1)
	}
	if analysis == nil {
		fmt.Printf("No cached analysis for %s (persona %s)\n", args[0], persona.Version)
		return nil
	}

	out, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding analysis: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
