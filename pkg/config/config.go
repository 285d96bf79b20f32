package config

import (
	"time"

	"crmvault-hq/atlas/pkg/compliance"
)

// Config is the root configuration structure for Atlas.
// It contains all configuration sections for the compliance policy, storage,
// the HTTP server, the audit sweep, and telemetry.
type Config struct {
	// Compliance contains the compliance policy the engine evaluates
	// against. It is read once at process start and immutable thereafter.
	Compliance ComplianceConfig `yaml:"compliance"`

	// Storage contains configuration for the document, issue, and version
	// stores.
	Storage StorageConfig `yaml:"storage"`

	// Server contains HTTP server configuration including listen address
	// and timeouts.
	Server ServerConfig `yaml:"server"`

	// Audit contains configuration for the periodic bulk re-evaluation
	// sweep.
	Audit AuditConfig `yaml:"audit"`

	// Telemetry contains configuration for logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ComplianceConfig contains the compliance policy configuration.
type ComplianceConfig struct {
	// MaxFileSizeBytes is the maximum permitted document size in bytes.
	// Default: 10485760 (10MB)
	MaxFileSizeBytes int64 `yaml:"max_file_size_bytes"`

	// AllowedFileExtensions is the set of permitted file extensions,
	// without a leading dot. Matching is case-insensitive.
	// Default: pdf, docx, xlsx, pptx, txt, csv, png, jpg
	AllowedFileExtensions []string `yaml:"allowed_file_extensions"`

	// DefaultRetentionDays is the default retention period in days.
	// Informational; actual retention dates are supplied per document.
	// Default: 365
	DefaultRetentionDays int `yaml:"default_retention_days"`

	// MaxVersions is the stored-version limit used by the version check.
	// Default: 50
	MaxVersions int `yaml:"max_versions"`
}

// Policy converts the configuration section into the engine's immutable
// policy value.
func (c ComplianceConfig) Policy() compliance.Policy {
	policy := compliance.NewPolicy(c.MaxFileSizeBytes, c.AllowedFileExtensions, c.DefaultRetentionDays)
	if c.MaxVersions > 0 {
		policy.MaxVersions = c.MaxVersions
	}
	return policy
}

// StorageConfig contains configuration for the storage backend.
type StorageConfig struct {
	// Backend selects the storage backend ("sqlite" or "memory").
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// Path is the SQLite database file path.
	// Default: "data/atlas.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open database connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle database connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8085").
	// Default: "127.0.0.1:8085"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of
	// the response.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request when
	// keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown before in-flight requests are abandoned.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// AuditConfig contains configuration for the periodic re-evaluation sweep.
type AuditConfig struct {
	// Enabled turns the scheduled sweep on or off.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Schedule is a cron expression for the sweep.
	// Example: "0 2 * * *" (daily at 2 AM).
	// Default: "0 2 * * *"
	Schedule string `yaml:"schedule"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format ("json" or "text").
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log output.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled turns the /metrics endpoint on or off.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric namespace prefix.
	// Default: "atlas"
	Namespace string `yaml:"namespace"`
}
