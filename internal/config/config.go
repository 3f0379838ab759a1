// Package config provides configuration types and defaults for zoomport.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all configuration options for zoomport.
type Config struct {
	// DefaultRoot is used when no root was remembered from a previous run.
	DefaultRoot string `mapstructure:"default_root"`

	// ManifestPath, when set, writes an import manifest after every run.
	// The extension picks the format: .yaml/.yml for YAML, anything else JSON.
	ManifestPath string `mapstructure:"manifest_path"`

	// FFprobePath is the ffprobe binary used to measure audio durations.
	FFprobePath string `mapstructure:"ffprobe_path"`

	// ProbeCacheTTL bounds how long a measured duration is reused before
	// the file is probed again.
	ProbeCacheTTL time.Duration `mapstructure:"probe_cache_ttl"`

	// WatchDebounce is how long watch mode waits after the last filesystem
	// event before importing, so half-copied takes settle first.
	WatchDebounce time.Duration `mapstructure:"watch_debounce"`

	// StatePath overrides where the state database lives.
	StatePath string `mapstructure:"state_path"`

	// Color is one of "auto", "always", "never".
	Color string `mapstructure:"color"`

	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`

	// Trace emits OpenTelemetry spans for each run to stderr.
	Trace bool `mapstructure:"trace"`

	// TraceEndpoint, when set with Trace, pushes spans to an OTLP gRPC
	// collector at host:port instead of stderr.
	TraceEndpoint string `mapstructure:"trace_endpoint"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		FFprobePath:   "ffprobe",
		ProbeCacheTTL: 30 * time.Minute,
		WatchDebounce: 2 * time.Second,
		Color:         "auto",
		LogLevel:      "warn",
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color: %q is not one of auto, always, never", c.Color)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: %q is not one of debug, info, warn, error", c.LogLevel)
	}

	if c.ProbeCacheTTL < 0 {
		return fmt.Errorf("probe_cache_ttl: must not be negative, got %s", c.ProbeCacheTTL)
	}
	if c.WatchDebounce < 0 {
		return fmt.Errorf("watch_debounce: must not be negative, got %s", c.WatchDebounce)
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Zoomport Configuration

# Root folder offered when nothing was remembered from a previous run
# default_root: /recordings

# Write an import manifest after every run (.yaml/.yml for YAML, else JSON)
# manifest_path: /recordings/manifest.yaml

# ffprobe binary used to measure audio durations
ffprobe_path: ffprobe

# How long measured durations are reused before re-probing
probe_cache_ttl: 30m

# How long watch mode waits after the last file event before importing
watch_debounce: 2s

# Where remembered roots and run history live
# (default: ~/.config/zoomport/state.db)
# state_path: /path/to/state.db

# Color output: auto, always, never
color: auto

# Logging (user-facing output is separate and always on)
log_level: warn
# log_file: /path/to/zoomport.log

# Emit OpenTelemetry spans for each run to stderr
trace: false

# Push spans to an OTLP gRPC collector instead (host:port)
# trace_endpoint: localhost:4317
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
