// Package config provides configuration loading and validation for the
// marketplace server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the marketplace configuration that can be loaded from a
// JSON file. All fields are optional; missing values use defaults or must be
// provided via CLI flags or environment variables.
type Config struct {
	// Carrier endpoints
	BundleURL     string `json:"bundle_url,omitempty"`     // Carrier GetBundleValue endpoint
	EnrollmentURL string `json:"enrollment_url,omitempty"` // Carrier Enrollment endpoint
	QuoteURL      string `json:"quote_url,omitempty"`      // Carrier quote endpoint

	// Carrier credentials (Basic Auth)
	CarrierUsername string `json:"carrier_username,omitempty"`
	CarrierPassword string `json:"carrier_password,omitempty"`

	// Marketplace identity
	AgentID int `json:"agent_id,omitempty"` // Default writing agent when no referral applies

	// Paths
	OverridesPath string `json:"overrides_path,omitempty"` // Plan identifier override table (JSON)

	// Behavior
	Port        int    `json:"port,omitempty"`         // HTTP listen port
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
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

// FromEnv fills credentials and connection strings from environment
// variables, preferring existing values. This lets secrets stay out of the
// config file.
func (c *Config) FromEnv() {
	if c.CarrierUsername == "" {
		c.CarrierUsername = os.Getenv("CARRIER_USERNAME")
	}
	if c.CarrierPassword == "" {
		c.CarrierPassword = os.Getenv("CARRIER_PASSWORD")
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.AgentID < 0 {
		return fmt.Errorf("config error: 'agent_id' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be a valid TCP port")
	}

	// Validate file paths exist (if specified)
	if c.OverridesPath != "" {
		if _, err := os.Stat(c.OverridesPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: overrides file not found: %s", c.OverridesPath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.BundleURL == "" {
		result.BundleURL = defaults.BundleURL
	}
	if result.EnrollmentURL == "" {
		result.EnrollmentURL = defaults.EnrollmentURL
	}
	if result.QuoteURL == "" {
		result.QuoteURL = defaults.QuoteURL
	}
	if result.CarrierUsername == "" {
		result.CarrierUsername = defaults.CarrierUsername
	}
	if result.CarrierPassword == "" {
		result.CarrierPassword = defaults.CarrierPassword
	}
	if result.OverridesPath == "" {
		result.OverridesPath = defaults.OverridesPath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	if result.AgentID == 0 {
		result.AgentID = defaults.AgentID
	}
	if result.Port == 0 {
		if defaults.Port > 0 {
			result.Port = defaults.Port
		} else {
			result.Port = 8080
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
