// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Settings   string `json:"settings,omitempty"`    // Path to editorial settings JSON file
	ContentDir string `json:"content_dir,omitempty"` // Directory of exported site content for grounding

	// Generation
	Field    string `json:"field,omitempty"`    // Field spec to generate (e.g. hero_description)
	Variants int    `json:"variants,omitempty"` // Number of candidate variants per run
	// MaxIterations is a pointer: nil means unset, 0 is a valid explicit
	// budget that disables repair
	MaxIterations *int `json:"max_iterations,omitempty"`
	Parallelism   int  `json:"parallelism,omitempty"` // Concurrent variant lanes
	GroundingK    int  `json:"grounding_k,omitempty"` // Snippets retrieved per run

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Port        int    `json:"port,omitempty"`         // HTTP server port
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Variants < 0 {
		return fmt.Errorf("config error: 'variants' must be non-negative")
	}
	if c.MaxIterations != nil && *c.MaxIterations < 0 {
		return fmt.Errorf("config error: 'max_iterations' must be non-negative")
	}
	if c.Parallelism < 0 {
		return fmt.Errorf("config error: 'parallelism' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}

	// Validate file paths exist (if specified)
	if c.Settings != "" {
		if _, err := os.Stat(c.Settings); os.IsNotExist(err) {
			return fmt.Errorf("config error: settings file not found: %s", c.Settings)
		}
	}
	if c.ContentDir != "" {
		if _, err := os.Stat(c.ContentDir); os.IsNotExist(err) {
			return fmt.Errorf("config error: content directory not found: %s", c.ContentDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Settings == "" {
		result.Settings = defaults.Settings
	}
	if result.ContentDir == "" {
		result.ContentDir = defaults.ContentDir
	}
	if result.Field == "" {
		result.Field = defaults.Field
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	if result.Variants == 0 {
		result.Variants = defaults.Variants
	}
	// Pointer fields: nil means unset; an explicit 0 survives the merge
	if result.MaxIterations == nil {
		result.MaxIterations = defaults.MaxIterations
	}
	if result.Parallelism == 0 {
		result.Parallelism = defaults.Parallelism
	}
	if result.GroundingK == 0 {
		result.GroundingK = defaults.GroundingK
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
