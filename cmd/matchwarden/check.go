package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/matchwarden/matchwarden/internal/classify"
	"github.com/matchwarden/matchwarden/internal/config"
	"github.com/matchwarden/matchwarden/internal/constraint"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the constraint filter once, print pass/fail, exit",
	Long:  "One-shot dry check: fetches postings and runs only the hard constraint filter. No oracle calls, nothing is persisted.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("check mode: constraint filter only, nothing is persisted")

	hard, _, err := config.LoadConstraints(cfg.Constraints)
	if err != nil {
		logger.Warn("constraints unavailable, using permissive defaults", "error", err)
	}
	filter := constraint.NewFilter(hard)

	httpClient := &http.Client{Timeout: 30 * time.Second}
	src, err := buildSource(cfg, httpClient, logger)
	if err != nil {
		logger.Error("failed to build source", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobs, err := src.FetchJobs(ctx)
	if err != nil {
		logger.Error("failed to fetch postings", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%-6s %-10s %-40s %s\n", "Check", "Label", "Title", "Detail")
	fmt.Println(strings.Repeat("─", 90))

	passed := 0
	for _, job := range jobs {
		ok, reason := filter.Filter(job)
		label := classify.Classify(job.Title, job.Description)
		if ok {
			passed++
			fmt.Printf("%-6s %-10s %-40s %s\n", "PASS", label, clip(job.Title, 40), job.URL)
		} else {
			fmt.Printf("%-6s %-10s %-40s %s\n", "FAIL", label, clip(job.Title, 40), reason)
		}
	}

	fmt.Printf("\nTotal: %d postings (%d passed, %d failed)\n", len(jobs), passed, len(jobs)-passed)
	return nil
}
