package config

import (
	"fmt"
	"os"
	"strconv"
)

// FromEnv returns the configuration carried by environment variables:
// GEMINI_API_KEY, DATABASE_URL, CV_EDITOR_STORE, PORT, CV_EDITOR_RATE_LIMIT
// and CV_EDITOR_RATE_BURST. Unset variables leave fields empty.
func FromEnv() (*Config, error) {
	cfg := &Config{
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		StorePath:   os.Getenv("CV_EDITOR_STORE"),
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("CV_EDITOR_RATE_LIMIT"); v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid CV_EDITOR_RATE_LIMIT: %v", err)
		}
		cfg.RateLimit = limit
	}
	if v := os.Getenv("CV_EDITOR_RATE_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CV_EDITOR_RATE_BURST: %v", err)
		}
		cfg.RateBurst = burst
	}

	return cfg, nil
}

// Defaults returns the built-in fallback configuration.
func Defaults() Config {
	return Config{
		StorePath: DefaultStorePath,
		Port:      DefaultPort,
		RateLimit: DefaultRateLimit,
		RateBurst: DefaultRateBurst,
	}
}
