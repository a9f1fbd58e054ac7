// Package config provides configuration loading and validation for the CLI
// and server, and the settings port used to persist the AI credential.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/cv-editor/internal/types"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	StorePath   string `json:"store_path,omitempty"`   // SQLite file for local use

	// Editing
	Locale string `json:"locale,omitempty"` // Initial active locale (es or en)

	// AI assist
	APIKey     string `json:"api_key,omitempty"`     // Gemini API key, used when none is stored
	Model      string `json:"model,omitempty"`       // Overrides the model used for assists
	UseBrowser bool   `json:"use_browser,omitempty"` // Use headless browser for job pages

	// Server
	Port      int     `json:"port,omitempty"`       // HTTP listen port
	RateLimit float64 `json:"rate_limit,omitempty"` // AI requests per second per client
	RateBurst int     `json:"rate_burst,omitempty"` // Burst size for AI requests

	Verbose bool `json:"verbose,omitempty"` // Print detailed output
}

// Default values applied by MergeWithDefaults callers.
const (
	DefaultStorePath = "cv_editor.db"
	DefaultPort      = 8080
	DefaultRateLimit = 0.5
	DefaultRateBurst = 3
)

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
func (c *Config) Validate() error {
	if c.DatabaseURL != "" && c.StorePath != "" {
		return fmt.Errorf("config error: 'database_url' and 'store_path' are mutually exclusive")
	}
	if _, err := types.ParseLocale(c.Locale); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("config error: 'rate_limit' must be non-negative")
	}
	if c.RateBurst < 0 {
		return fmt.Errorf("config error: 'rate_burst' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" && result.StorePath == "" {
		result.DatabaseURL = defaults.DatabaseURL
		result.StorePath = defaults.StorePath
	}
	if result.Locale == "" {
		result.Locale = defaults.Locale
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.RateLimit == 0 {
		result.RateLimit = defaults.RateLimit
	}
	if result.RateBurst == 0 {
		result.RateBurst = defaults.RateBurst
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ActiveLocale returns the configured initial locale, or the primary locale.
func (c *Config) ActiveLocale() types.Locale {
	l, err := types.ParseLocale(c.Locale)
	if err != nil {
		return types.PrimaryLocale
	}
	return l
}
