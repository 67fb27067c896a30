// Package config loads reposcope settings from YAML and the environment.
package config

import (
	"os"
	"path/filepath"
)

// Config is the root configuration structure
type Config struct {
	Workspace WorkspaceConfig `yaml:"workspace"`
	Source    SourceConfig    `yaml:"source"`
	Report    ReportConfig    `yaml:"report"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WorkspaceConfig controls where and how repositories are cloned
type WorkspaceConfig struct {
	Dir        string `yaml:"dir"`
	CloneDepth int    `yaml:"clone_depth"` // 0 = full history
}

// SourceConfig selects the files to analyze
type SourceConfig struct {
	Suffix          string `yaml:"suffix"`
	ExcludeVendored bool   `yaml:"exclude_vendored"`
	MaxFileBytes    int    `yaml:"max_file_bytes"`
}

// ReportConfig toggles optional report sections
type ReportConfig struct {
	Format    string `yaml:"format"` // json, markdown
	CodeStats bool   `yaml:"code_stats"`
	License   bool   `yaml:"license"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text, json
	File   string `yaml:"file"`
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		Workspace: WorkspaceConfig{
			Dir:        filepath.Join(os.TempDir(), "reposcope", "clonedRepo"),
			CloneDepth: 1,
		},
		Source: SourceConfig{
			Suffix:       ".java",
			MaxFileBytes: 10 * 1024 * 1024,
		},
		Report: ReportConfig{
			Format: "json",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
