package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matchwarden/matchwarden/internal/classify"
	"github.com/matchwarden/matchwarden/internal/config"
	"github.com/matchwarden/matchwarden/internal/model"
)

var scoreJSON bool

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Fetch postings and score them once",
	Long:  "One scoring pass: fetches postings from the configured source, runs the full pipeline over them, prints a ranked summary, exits.",
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "print full analyses as JSON instead of a table")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := buildRuntime(ctx, cfg, secrets, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}
	defer rt.close()

	jobs, err := rt.source.FetchJobs(ctx)
	if err != nil {
		logger.Error("failed to fetch postings", "error", err)
		os.Exit(1)
	}

	results, err := rt.engine.EvaluateBatch(ctx, jobs, rt.candidate)
	if err != nil {
		logger.Error("scoring interrupted", "error", err)
		os.Exit(1)
	}

	if scoreJSON {
		return printJSON(results)
	}
	printSummary(jobs, results)
	return nil
}

func printJSON(results []model.MatchAnalysis) error {
	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// printSummary renders the ranked matches table followed by the discards.
// results[i] pairs with jobs[i].
func printSummary(jobs []model.JobPosting, results []model.MatchAnalysis) {
	type row struct {
		job      model.JobPosting
		analysis model.MatchAnalysis
	}
	var matches, discards []row
	for i, res := range results {
		r := row{job: jobs[i], analysis: res}
		if res.Discarded {
			discards = append(discards, r)
		} else {
			matches = append(matches, r)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].analysis.Score > matches[j].analysis.Score
	})

	fmt.Printf("%-6s %-10s %-40s %-20s %s\n", "Score", "Label", "Title", "Company", "URL")
	fmt.Println(strings.Repeat("─", 100))
	for _, r := range matches {
		label := classify.ClassifyMatch(r.analysis, r.job.Title, r.job.Description).Label
		score := fmt.Sprintf("%d", r.analysis.Score)
		if r.analysis.Cached {
			score += "*"
		}
		if r.analysis.Degraded {
			score += "!"
		}
		fmt.Printf("%-6s %-10s %-40s %-20s %s\n", score, label, clip(r.job.Title, 40), clip(r.job.Company, 20), r.job.URL)
	}

	if len(discards) > 0 {
		fmt.Printf("\nDiscarded: %d\n", len(discards))
		for _, r := range discards {
			fmt.Printf("  %-40s %s\n", clip(r.job.Title, 40), r.analysis.DiscardReason)
		}
	}

	var cached, degraded int
	for _, r := range matches {
		if r.analysis.Cached {
			cached++
		}
		if r.analysis.Degraded {
			degraded++
		}
	}
	fmt.Printf("\nTotal: %d postings (%d matches, %d cached, %d degraded, %d discarded)\n",
		len(results), len(matches), cached, degraded, len(discards))
}

// clip shortens s to at most n runes for table display.
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
