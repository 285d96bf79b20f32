package config

import "time"

// DefaultConfig returns a Config populated with default values for every
// section. LoadConfig unmarshals YAML on top of these defaults, so fields
// absent from the file keep their default.
func DefaultConfig() *Config {
	return &Config{
		Compliance: ComplianceConfig{
			MaxFileSizeBytes: 10 * 1024 * 1024,
			AllowedFileExtensions: []string{
				"pdf", "docx", "xlsx", "pptx", "txt", "csv", "png", "jpg",
			},
			DefaultRetentionDays: 365,
			MaxVersions:          50,
		},
		Storage: StorageConfig{
			Backend:      "sqlite",
			Path:         "data/atlas.db",
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			WALMode:      true,
			BusyTimeout:  5 * time.Second,
		},
		Server: ServerConfig{
			ListenAddress:   "127.0.0.1:8085",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Audit: AuditConfig{
			Enabled:  true,
			Schedule: "0 2 * * *",
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "json",
			},
			Metrics: MetricsConfig{
				Enabled:   true,
				Namespace: "atlas",
			},
		},
	}
}
