package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"crmvault-hq/atlas/pkg/audit"
	"crmvault-hq/atlas/pkg/compliance"
	"crmvault-hq/atlas/pkg/config"
	"crmvault-hq/atlas/pkg/server"
	"crmvault-hq/atlas/pkg/storage"
	"crmvault-hq/atlas/pkg/telemetry/logging"
	"crmvault-hq/atlas/pkg/telemetry/metrics"
	"github.com/spf13/cobra"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Atlas compliance server",
	Long: `Start the Atlas compliance server with the specified configuration.

The server exposes an HTTP endpoint for on-demand document checks and, when
enabled, runs scheduled re-evaluation sweeps over stored documents.

Examples:
  # Start with default config
  atlas run

  # Start with custom config
  atlas run --config /etc/atlas/config.yaml

  # Override listen address
  atlas run --listen 0.0.0.0:8085

  # Validate config without starting server
  atlas run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}

	if err := initLogging(cfg); err != nil {
		return err
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Atlas v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	// Create the compliance engine
	engine, err := compliance.New(cfg.Compliance.Policy())
	if err != nil {
		return fmt.Errorf("failed to create compliance engine: %w", err)
	}
	fmt.Printf("✓ Compliance engine initialized (%d allowed extensions)\n", len(engine.Policy().AllowedExtensions))

	// Open storage
	slog.Info("initializing storage", "backend", cfg.Storage.Backend)
	store, err := openStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()
	fmt.Println("✓ Storage initialized")

	// Initialize metrics (if enabled)
	var m *metrics.Metrics
	if cfg.Telemetry.Metrics.Enabled {
		m = metrics.New(cfg.Telemetry.Metrics.Namespace)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the re-evaluation scheduler (if enabled)
	if cfg.Audit.Enabled {
		var auditMetrics *metrics.AuditMetrics
		if m != nil {
			auditMetrics = m.Audit
		}
		sweeper := audit.NewSweeper(engine, store, auditMetrics)
		scheduler := audit.NewScheduler(sweeper, cfg.Audit.Schedule)
		if err := scheduler.Start(ctx); err != nil {
			return fmt.Errorf("failed to start audit scheduler: %w", err)
		}
		defer scheduler.Stop()

		if next := scheduler.NextRun(); next != nil {
			slog.Info("audit scheduler started", "schedule", cfg.Audit.Schedule, "next_run", next)
		}
		fmt.Printf("✓ Audit scheduler started (%s)\n", cfg.Audit.Schedule)
	}

	// Start the HTTP server
	srv := server.NewServer(&cfg.Server, engine, m)
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(ctx)
	}()

	fmt.Println()
	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Check endpoint: http://%s/v1/compliance/check\n", cfg.Server.ListenAddress)
	if m != nil {
		fmt.Printf("✓ Metrics endpoint: http://%s/metrics\n", cfg.Server.ListenAddress)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal %s, shutting down gracefully...\n", sig)
		cancel()
		if err := <-errChan; err != nil {
			slog.Error("shutdown failed", "error", err)
			return err
		}
		fmt.Println("✓ Server stopped")
		return nil
	}
}

// loadConfig loads the configuration file and applies environment overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// initLogging configures the process-wide logger from config.
func initLogging(cfg *config.Config) error {
	logCfg := logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	}
	if verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	slog.SetDefault(logger.Slog())
	return nil
}

// openStorage creates the storage backend selected by config.
func openStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		return storage.NewSQLiteStorage(&storage.SQLiteConfig{
			Path:         cfg.Storage.Path,
			MaxOpenConns: cfg.Storage.MaxOpenConns,
			MaxIdleConns: cfg.Storage.MaxIdleConns,
			WALMode:      cfg.Storage.WALMode,
			BusyTimeout:  cfg.Storage.BusyTimeout,
		})
	case "memory":
		return storage.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}
}
