// Package config provides environment-based configuration for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Default provider endpoints. Overridable so tests and self-hosted
// deployments can point at fakes.
const (
	DefaultTaskRunBaseURL = "https://api.parallel.ai/v1beta/tasks"
	DefaultProfileBaseURL = "https://api.scrapingdog.com/profile"
	DefaultSearchBaseURL  = "https://api.scrapingdog.com/google/"
	DefaultPort           = 8080
)

// Setting names accepted by Config.Require.
const (
	SettingDatabaseURL   = "DATABASE_URL"
	SettingGeminiAPIKey  = "GEMINI_API_KEY"
	SettingTaskRunAPIKey = "TASKRUN_API_KEY"
	SettingProfileAPIKey = "PROFILE_API_KEY"
	SettingSearchAPIKey  = "SEARCH_API_KEY"
)

// Config holds service configuration read from the environment.
type Config struct {
	DatabaseURL string

	// LLM (persona synthesis, transcript insights)
	GeminiAPIKey string

	// Async company research provider
	TaskRunAPIKey  string
	TaskRunBaseURL string

	// Profile scrape provider
	ProfileAPIKey  string
	ProfileBaseURL string

	// Profile URL discovery (Custom Search)
	SearchAPIKey   string
	SearchEngineID string

	Port int
}

// Load reads configuration from environment variables.
// Presence of required settings is checked per-command via Require, since
// the serve and prepare commands need different dependencies.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		TaskRunAPIKey:  os.Getenv("TASKRUN_API_KEY"),
		TaskRunBaseURL: getenvDefault("TASKRUN_BASE_URL", DefaultTaskRunBaseURL),
		ProfileAPIKey:  os.Getenv("PROFILE_API_KEY"),
		ProfileBaseURL: getenvDefault("PROFILE_BASE_URL", DefaultProfileBaseURL),
		SearchAPIKey:   os.Getenv("SEARCH_API_KEY"),
		SearchEngineID: os.Getenv("SEARCH_ENGINE_ID"),
		Port:           DefaultPort,
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("PORT out of range: %d", port)
		}
		cfg.Port = port
	}

	return cfg, nil
}

// Require checks that the named settings are present. A missing setting is
// a configuration error: fatal, surfaced immediately, no retry.
func (c *Config) Require(settings ...string) error {
	for _, name := range settings {
		var value string
		switch name {
		case SettingDatabaseURL:
			value = c.DatabaseURL
		case SettingGeminiAPIKey:
			value = c.GeminiAPIKey
		case SettingTaskRunAPIKey:
			value = c.TaskRunAPIKey
		case SettingProfileAPIKey:
			value = c.ProfileAPIKey
		case SettingSearchAPIKey:
			value = c.SearchAPIKey
		default:
			return fmt.Errorf("unknown required setting %q", name)
		}
		if value == "" {
			return fmt.Errorf("%s is required but not set", name)
		}
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
