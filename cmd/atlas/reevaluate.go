package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"crmvault-hq/atlas/pkg/audit"
	"crmvault-hq/atlas/pkg/compliance"
	"github.com/spf13/cobra"
)

var reevaluateCmd = &cobra.Command{
	Use:   "reevaluate",
	Short: "Run a one-shot re-evaluation sweep over stored documents",
	Long: `Run a single re-evaluation sweep over all synced documents in storage.

Each document's stored facts are re-checked against the current policy. New
violations are recorded as open issues and the stored compliance score is
refreshed. Issue types that are already open for a document are not duplicated.

Examples:
  # Sweep with default config
  atlas reevaluate

  # Sweep with custom config
  atlas reevaluate --config /etc/atlas/config.yaml`,
	RunE: runReevaluate,
}

func init() {
	rootCmd.AddCommand(reevaluateCmd)
}

func runReevaluate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := initLogging(cfg); err != nil {
		return err
	}

	engine, err := compliance.New(cfg.Compliance.Policy())
	if err != nil {
		return fmt.Errorf("failed to create compliance engine: %w", err)
	}

	store, err := openStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	sweeper := audit.NewSweeper(engine, store, nil)
	stats, err := sweeper.Run(context.Background())
	if err != nil {
		slog.Error("sweep failed", "error", err)
		return err
	}

	fmt.Printf("✓ Sweep complete in %s\n", stats.Duration.Round(time.Millisecond))
	fmt.Printf("  Documents examined: %d\n", stats.Documents)
	fmt.Printf("  New issues:         %d\n", stats.NewIssues)
	fmt.Printf("  Skipped:            %d\n", stats.Skipped)
	return nil
}
