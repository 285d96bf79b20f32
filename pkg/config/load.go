package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// The file is unmarshaled on top of DefaultConfig, so omitted fields keep
// their defaults, and the result is validated before being returned.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention ATLAS_SECTION_FIELD (e.g., ATLAS_SERVER_LISTEN_ADDRESS) and
// always take precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies ATLAS_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	// Compliance overrides
	if val := os.Getenv("ATLAS_COMPLIANCE_MAX_FILE_SIZE_BYTES"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Compliance.MaxFileSizeBytes = i
		}
	}
	if val := os.Getenv("ATLAS_COMPLIANCE_ALLOWED_FILE_EXTENSIONS"); val != "" {
		cfg.Compliance.AllowedFileExtensions = splitAndTrim(val)
	}
	if val := os.Getenv("ATLAS_COMPLIANCE_DEFAULT_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Compliance.DefaultRetentionDays = i
		}
	}
	if val := os.Getenv("ATLAS_COMPLIANCE_MAX_VERSIONS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Compliance.MaxVersions = i
		}
	}

	// Storage overrides
	if val := os.Getenv("ATLAS_STORAGE_BACKEND"); val != "" {
		cfg.Storage.Backend = val
	}
	if val := os.Getenv("ATLAS_STORAGE_PATH"); val != "" {
		cfg.Storage.Path = val
	}
	if val := os.Getenv("ATLAS_STORAGE_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Storage.BusyTimeout = d
		}
	}

	// Server overrides
	if val := os.Getenv("ATLAS_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("ATLAS_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("ATLAS_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	// Audit overrides
	if val := os.Getenv("ATLAS_AUDIT_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Audit.Enabled = b
		}
	}
	if val := os.Getenv("ATLAS_AUDIT_SCHEDULE"); val != "" {
		cfg.Audit.Schedule = val
	}

	// Telemetry overrides
	if val := os.Getenv("ATLAS_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("ATLAS_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("ATLAS_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
}

// splitAndTrim splits a comma-separated list and trims whitespace,
// dropping empty entries.
func splitAndTrim(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
