// Package config provides YAML-based configuration for Atlas.
//
// Configuration is loaded once at process start from a YAML file, layered on
// top of built-in defaults, optionally overridden by ATLAS_* environment
// variables, and validated before use. The resulting Config is treated as
// immutable for the life of the process; in particular the compliance policy
// section is never reloaded, matching the policy source contract.
//
// # Loading
//
//	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	engine, err := compliance.New(cfg.Compliance.Policy())
//
// # Environment Overrides
//
// Environment variables use the format ATLAS_SECTION_FIELD, for example
// ATLAS_SERVER_LISTEN_ADDRESS or ATLAS_COMPLIANCE_MAX_FILE_SIZE_BYTES.
// List-valued overrides (allowed extensions) are comma-separated.
package config
