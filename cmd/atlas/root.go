package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "atlas",
	Short: "Atlas - compliance scoring engine for cloud drive documents",
	Long: `Atlas evaluates CRM-connected cloud drive documents against a configured
compliance policy, producing weighted violations and a bounded 0-100 score.

It provides:
  - Deterministic rule evaluation with a fixed check order
  - Share-link expiry and version-count advisories
  - Scheduled re-evaluation sweeps over stored documents
  - SQLite-backed document and issue storage
  - Prometheus metrics for checks and sweeps`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
