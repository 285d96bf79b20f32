package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfigFile writes YAML content to a temp file and returns its path.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

// TestLoadConfig_Defaults tests that an empty file yields the full default
// configuration.
func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfigFile(t, "")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Compliance.MaxFileSizeBytes != 10*1024*1024 {
		t.Errorf("expected default max file size, got %d", cfg.Compliance.MaxFileSizeBytes)
	}
	if len(cfg.Compliance.AllowedFileExtensions) == 0 {
		t.Error("expected default allowed extensions")
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("expected sqlite backend, got %q", cfg.Storage.Backend)
	}
	if !cfg.Storage.WALMode {
		t.Error("expected WAL mode enabled by default")
	}
	if cfg.Server.ListenAddress != "127.0.0.1:8085" {
		t.Errorf("unexpected default listen address %q", cfg.Server.ListenAddress)
	}
	if !cfg.Audit.Enabled || cfg.Audit.Schedule == "" {
		t.Error("expected audit sweep enabled with a default schedule")
	}
	if cfg.Telemetry.Logging.Level != "info" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("unexpected default logging config: %+v", cfg.Telemetry.Logging)
	}
}

// TestLoadConfig_PartialFileKeepsDefaults tests that fields absent from the
// file keep their defaults while present fields override.
func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfigFile(t, `
compliance:
  max_file_size_bytes: 52428800
server:
  listen_address: "0.0.0.0:9090"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Compliance.MaxFileSizeBytes != 52428800 {
		t.Errorf("expected overridden max size, got %d", cfg.Compliance.MaxFileSizeBytes)
	}
	if cfg.Compliance.DefaultRetentionDays != 365 {
		t.Errorf("expected default retention days, got %d", cfg.Compliance.DefaultRetentionDays)
	}
	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("expected overridden listen address, got %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("expected default read timeout, got %v", cfg.Server.ReadTimeout)
	}
}

// TestLoadConfig_ValidationErrors tests that invalid configurations are
// rejected with descriptive errors.
func TestLoadConfig_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantSub string
	}{
		{
			name:    "non-positive max size",
			yaml:    "compliance:\n  max_file_size_bytes: -5\n",
			wantSub: "max_file_size_bytes",
		},
		{
			name:    "empty extension list",
			yaml:    "compliance:\n  allowed_file_extensions: []\n",
			wantSub: "allowed_file_extensions",
		},
		{
			name:    "unknown backend",
			yaml:    "storage:\n  backend: postgres\n",
			wantSub: "storage.backend",
		},
		{
			name:    "bad cron schedule",
			yaml:    "audit:\n  schedule: \"not a cron\"\n",
			wantSub: "audit.schedule",
		},
		{
			name:    "bad log level",
			yaml:    "telemetry:\n  logging:\n    level: loud\n",
			wantSub: "logging.level",
		},
		{
			name:    "listen address without port",
			yaml:    "server:\n  listen_address: localhost\n",
			wantSub: "listen_address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.yaml)
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("expected error mentioning %q, got: %v", tt.wantSub, err)
			}
		})
	}
}

// TestLoadConfigWithEnvOverrides tests that ATLAS_* environment variables
// take precedence over file values.
func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: "127.0.0.1:8085"
`)

	t.Setenv("ATLAS_SERVER_LISTEN_ADDRESS", "0.0.0.0:7070")
	t.Setenv("ATLAS_COMPLIANCE_MAX_FILE_SIZE_BYTES", "1024")
	t.Setenv("ATLAS_COMPLIANCE_ALLOWED_FILE_EXTENSIONS", "pdf, docx")
	t.Setenv("ATLAS_LOG_LEVEL", "debug")
	t.Setenv("ATLAS_AUDIT_ENABLED", "false")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:7070" {
		t.Errorf("expected env override for listen address, got %q", cfg.Server.ListenAddress)
	}
	if cfg.Compliance.MaxFileSizeBytes != 1024 {
		t.Errorf("expected env override for max size, got %d", cfg.Compliance.MaxFileSizeBytes)
	}
	if len(cfg.Compliance.AllowedFileExtensions) != 2 {
		t.Errorf("expected 2 extensions from env, got %v", cfg.Compliance.AllowedFileExtensions)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected env override for log level, got %q", cfg.Telemetry.Logging.Level)
	}
	if cfg.Audit.Enabled {
		t.Error("expected audit disabled via env")
	}
}

// TestComplianceConfig_Policy tests the conversion to the engine policy.
func TestComplianceConfig_Policy(t *testing.T) {
	cfg := ComplianceConfig{
		MaxFileSizeBytes:      2048,
		AllowedFileExtensions: []string{".PDF", "Docx"},
		DefaultRetentionDays:  30,
		MaxVersions:           5,
	}

	policy := cfg.Policy()
	if policy.MaxFileSizeBytes != 2048 {
		t.Errorf("expected max size 2048, got %d", policy.MaxFileSizeBytes)
	}
	if !policy.AllowedExtensions["pdf"] || !policy.AllowedExtensions["docx"] {
		t.Errorf("expected normalized extensions, got %v", policy.AllowedExtensions)
	}
	if policy.MaxVersions != 5 {
		t.Errorf("expected max versions 5, got %d", policy.MaxVersions)
	}
}
