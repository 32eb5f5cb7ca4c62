package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matchwarden/matchwarden/internal/feedback"
	"github.com/matchwarden/matchwarden/internal/guardrail"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Rejection feedback subcommands",
}

var feedbackAddCmd = &cobra.Command{
	Use:   "add <job-url> <reason>",
	Short: "Record a rejection reason for a job",
	Long:  "Records why a suggested job was rejected. Feedback weights future scoring penalties; it never adds constraints.",
	Args:  cobra.ExactArgs(2),
	RunE:  runFeedbackAdd,
}

var feedbackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded feedback and the derived rejection patterns",
	RunE:  runFeedbackList,
}

func init() {
	rootCmd.AddCommand(feedbackCmd)
	feedbackCmd.AddCommand(feedbackAddCmd)
	feedbackCmd.AddCommand(feedbackListCmd)
}

func runFeedbackAdd(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Feedback.Path == "" {
		logger.Error("feedback.path is not configured")
		os.Exit(1)
	}
	if strings.EqualFold(filepath.Ext(cfg.Feedback.Path), ".json") {
		logger.Error("feedback add requires a sqlite feedback store, not a JSON log")
		os.Exit(1)
	}

	store, err := feedback.NewSQLiteStore(cfg.Feedback.Path)
	if err != nil {
		logger.Error("failed to open feedback store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Record(context.Background(), args[0], args[1]); err != nil {
		logger.Error("failed to record feedback", "error", err)
		os.Exit(1)
	}
	logger.Info("feedback recorded", "job", args[0], "reason", args[1])
	return nil
}

func runFeedbackList(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	entries, err := loadFeedback(context.Background(), cfg.Feedback.Path)
	if err != nil {
		logger.Error("failed to read feedback", "error", err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		fmt.Println("No feedback recorded.")
		return nil
	}

	fmt.Printf("%-18s %s\n", "When", "Reason")
	fmt.Println(strings.Repeat("─", 60))
	for _, e := range entries {
		when := "-"
		if !e.Timestamp.IsZero() {
			when = e.Timestamp.Format("2006-01-02 15:04")
		}
		fmt.Printf("%-18s %s\n", when, e.Reason)
	}

	counts := guardrail.CountPatterns(entries)
	patterns := make([]guardrail.Pattern, 0, len(counts))
	for p := range counts {
		patterns = append(patterns, p)
	}
	sort.Slice(patterns, func(i, j int) bool { return patterns[i] < patterns[j] })

	fmt.Printf("\nPatterns: %d entries\n", len(entries))
	for _, p := range patterns {
		fmt.Printf("  %-20s x%d\n", p, counts[p])
	}
	return nil
}
