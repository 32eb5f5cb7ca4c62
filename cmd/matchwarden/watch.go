package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matchwarden/matchwarden/internal/config"
	"github.com/matchwarden/matchwarden/internal/scheduler"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run scoring passes on a schedule",
	Long:  "Starts the scheduler daemon: one scoring pass immediately, then on the configured cron schedule. Blocks until SIGINT/SIGTERM.",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	logger.Info("config loaded",
		"source", cfg.Source.Type,
		"schedule", cfg.Watch.Schedule,
		"cache_backend", cfg.Cache.Backend,
		"workers", cfg.Batch.Workers,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := buildRuntime(ctx, cfg, secrets, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}
	defer rt.close()

	cycle := func(ctx context.Context) error {
		jobs, err := rt.source.FetchJobs(ctx)
		if err != nil {
			return fmt.Errorf("fetching postings: %w", err)
		}
		_, err = rt.engine.EvaluateBatch(ctx, jobs, rt.candidate)
		return err
	}

	sched, err := scheduler.New(cycle, cfg.Watch.Schedule, logger)
	if err != nil {
		logger.Error("failed to build scheduler", "error", err)
		os.Exit(1)
	}
	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
