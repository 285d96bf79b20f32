package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration for invalid or inconsistent values and
// returns a descriptive error for the first problem found.
func Validate(cfg *Config) error {
	if err := validateCompliance(&cfg.Compliance); err != nil {
		return err
	}
	if err := validateStorage(&cfg.Storage); err != nil {
		return err
	}
	if err := validateServer(&cfg.Server); err != nil {
		return err
	}
	if err := validateAudit(&cfg.Audit); err != nil {
		return err
	}
	return validateTelemetry(&cfg.Telemetry)
}

func validateCompliance(cfg *ComplianceConfig) error {
	if cfg.MaxFileSizeBytes <= 0 {
		return fmt.Errorf("compliance.max_file_size_bytes must be positive, got %d",
			cfg.MaxFileSizeBytes)
	}
	if len(cfg.AllowedFileExtensions) == 0 {
		return fmt.Errorf("compliance.allowed_file_extensions must not be empty")
	}
	for _, ext := range cfg.AllowedFileExtensions {
		if strings.TrimSpace(ext) == "" {
			return fmt.Errorf("compliance.allowed_file_extensions contains a blank entry")
		}
	}
	if cfg.DefaultRetentionDays <= 0 {
		return fmt.Errorf("compliance.default_retention_days must be positive, got %d",
			cfg.DefaultRetentionDays)
	}
	if cfg.MaxVersions <= 0 {
		return fmt.Errorf("compliance.max_versions must be positive, got %d", cfg.MaxVersions)
	}
	return nil
}

func validateStorage(cfg *StorageConfig) error {
	switch cfg.Backend {
	case "sqlite":
		if cfg.Path == "" {
			return fmt.Errorf("storage.path must be set for the sqlite backend")
		}
	case "memory":
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q",
			"sqlite", "memory", cfg.Backend)
	}
	if cfg.MaxOpenConns <= 0 {
		return fmt.Errorf("storage.max_open_conns must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return fmt.Errorf("storage.max_idle_conns must not be negative, got %d", cfg.MaxIdleConns)
	}
	return nil
}

func validateServer(cfg *ServerConfig) error {
	if cfg.ListenAddress == "" {
		return fmt.Errorf("server.listen_address must be set")
	}
	if !strings.Contains(cfg.ListenAddress, ":") {
		return fmt.Errorf("server.listen_address must be in host:port form, got %q",
			cfg.ListenAddress)
	}
	return nil
}

func validateAudit(cfg *AuditConfig) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Schedule == "" {
		return fmt.Errorf("audit.schedule must be set when audit is enabled")
	}
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return fmt.Errorf("audit.schedule is not a valid cron expression: %w", err)
	}
	return nil
}

func validateTelemetry(cfg *TelemetryConfig) error {
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.logging.level must be one of debug, info, warn, error; got %q",
			cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("telemetry.logging.format must be json or text, got %q",
			cfg.Logging.Format)
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Namespace == "" {
		return fmt.Errorf("telemetry.metrics.namespace must be set when metrics are enabled")
	}
	return nil
}
