// Package config holds the CLI's YAML-configured settings (audit
// database path, color mode, trace verbosity) and a Loader that turns a
// knowledge-base file plus a config file into ready-to-use components.
// Mirrors the teacher's config package shape: small YAML-backed structs
// plus a Loader that owns file paths and returns a Components bundle.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// CLIConfig is the YAML-configurable surface of the propexpert CLI.
type CLIConfig struct {
	AuditDBPath    string `yaml:"audit_db_path"`
	Color          string `yaml:"color"`           // "auto", "always", "never"
	TraceVerbosity string `yaml:"trace_verbosity"` // "quiet", "rules", "all"
}

// DefaultCLIConfig is used when no config file is given.
func DefaultCLIConfig() CLIConfig {
	return CLIConfig{
		AuditDBPath:    "",
		Color:          "auto",
		TraceVerbosity: "rules",
	}
}

// LoadCLIConfig loads a CLIConfig from a YAML file, starting from
// DefaultCLIConfig so a partial file only overrides what it names.
func LoadCLIConfig(path string) (CLIConfig, error) {
	cfg := DefaultCLIConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
