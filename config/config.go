// Package config provides configuration loading and management for negspace.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete negspace configuration
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Registry RegistryConfig `yaml:"registry"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Batch    BatchConfig    `yaml:"batch"`
	Watch    WatchConfig    `yaml:"watch"`
	Log      LogConfig      `yaml:"log"`
}

// OutputConfig configures how mapping results are rendered
type OutputConfig struct {
	// Format is "text" or "json"
	Format string `yaml:"format"`
	// Verbose adds type, context and confidence to text output
	Verbose bool `yaml:"verbose"`
	// MinConfidence hides absences scored below it (0.0-1.0)
	MinConfidence float64 `yaml:"min_confidence"`
}

// RegistryConfig selects the domain registry
type RegistryConfig struct {
	// Path is a YAML registry file (empty = built-in domains)
	Path string `yaml:"path"`
}

// ScoringConfig tunes the confidence boost from signal strength
type ScoringConfig struct {
	// StrengthBoost is added per matched trigger beyond the first
	StrengthBoost float64 `yaml:"strength_boost"`
	// MaxBoost caps the total boost
	MaxBoost float64 `yaml:"max_boost"`
}

// BatchConfig configures the batch command
type BatchConfig struct {
	// Concurrency is the number of files mapped at once
	Concurrency int `yaml:"concurrency"`
}

// WatchConfig configures the watch command
type WatchConfig struct {
	// Debounce is how long to wait for writes to settle
	Debounce time.Duration `yaml:"debounce"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format:        "text",
			Verbose:       false,
			MinConfidence: 0,
		},
		Registry: RegistryConfig{
			Path: "", // Built-in domains
		},
		Scoring: ScoringConfig{
			StrengthBoost: 0.05,
			MaxBoost:      0.15,
		},
		Batch: BatchConfig{
			Concurrency: 4,
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "text", "json":
	default:
		return fmt.Errorf("output.format must be text or json, got %q", c.Output.Format)
	}
	if c.Output.MinConfidence < 0 || c.Output.MinConfidence > 1 {
		return fmt.Errorf("output.min_confidence must be between 0 and 1")
	}
	if c.Scoring.StrengthBoost < 0 || c.Scoring.StrengthBoost > 1 {
		return fmt.Errorf("scoring.strength_boost must be between 0 and 1")
	}
	if c.Scoring.MaxBoost < 0 || c.Scoring.MaxBoost > 1 {
		return fmt.Errorf("scoring.max_boost must be between 0 and 1")
	}
	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("batch.concurrency must be at least 1")
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// ApplyFile overlays the YAML file at path onto c. Every key present in the
// file replaces the current value, zero values included; absent keys are
// left alone. On error c is unchanged.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	next := *c
	if err := yaml.Unmarshal(data, &next); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	// A relative registry path is relative to the file that names it, so
	// only resolve it when this file sets one.
	var layer struct {
		Registry struct {
			Path *string `yaml:"path"`
		} `yaml:"registry"`
	}
	if err := yaml.Unmarshal(data, &layer); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	if p := layer.Registry.Path; p != nil && *p != "" && !filepath.IsAbs(*p) {
		next.Registry.Path = filepath.Join(filepath.Dir(path), *p)
	}

	*c = next
	return nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
