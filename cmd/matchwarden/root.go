package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/matchwarden/matchwarden/internal/config"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "matchwarden",
	Short: "Candidate-job matching and scoring engine",
	Long:  "MatchWarden scores collected job postings against a candidate profile: hard constraints, a vector similarity gate, oracle scoring with guardrails, and a write-once analysis cache.",
	// Default to `score` so that `matchwarden` with no args runs one
	// scoring pass over the configured source.
	RunE: runScore,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: MATCHWARDEN_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > MATCHWARDEN_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("MATCHWARDEN_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}
