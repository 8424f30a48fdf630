// Package config provides configuration loading and validation for the CLI
// and the HTTP service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config is the service configuration. It can be loaded from a JSON file and
// from the environment; CLI flags are applied on top by the caller.
type Config struct {
	// Service
	Port        int    `json:"port,omitempty"`         // HTTP listen port
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL; empty disables persistence

	// AI collaborator
	GeminiAPIKey string `json:"gemini_api_key,omitempty"` // Default key; requests may override it

	// Document defaults
	DefaultTemplate string `json:"default_template,omitempty"` // Template for new sessions
	DefaultLocale   string `json:"default_locale,omitempty"`   // en or de

	// Logging
	LogLevel  string `json:"log_level,omitempty"`  // debug, info, warn, error
	LogFormat string `json:"log_format,omitempty"` // text or json

	// Sessions
	JWTSecret       string `json:"jwt_secret,omitempty"`        // HS256 signing secret for session tokens
	SessionTTLHours int    `json:"session_ttl_hours,omitempty"` // Token lifetime and idle eviction

	// Export
	ChromePath string `json:"chrome_path,omitempty"` // Browser binary for PDF export; empty uses the default lookup
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:            8080,
		DefaultTemplate: "modern",
		DefaultLocale:   "en",
		LogLevel:        "info",
		LogFormat:       "text",
		SessionTTLHours: 24,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

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

// FromEnv reads configuration from environment variables. Unset variables
// leave the corresponding field empty.
func FromEnv() (Config, error) {
	cfg := Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		DefaultTemplate: os.Getenv("DEFAULT_TEMPLATE"),
		DefaultLocale:   os.Getenv("DEFAULT_LOCALE"),
		LogLevel:        os.Getenv("LOG_LEVEL"),
		LogFormat:       os.Getenv("LOG_FORMAT"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		ChromePath:      os.Getenv("CHROME_PATH"),
	}

	var err error
	if cfg.Port, err = envInt("PORT"); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTLHours, err = envInt("SESSION_TTL_HOURS"); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

// Validate checks that the configuration has valid values.
// Empty fields are accepted; they are filled by MergeWithDefaults.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}
	if c.SessionTTLHours < 0 {
		return fmt.Errorf("config error: 'session_ttl_hours' must be non-negative")
	}

	switch c.DefaultLocale {
	case "", "en", "de":
	default:
		return fmt.Errorf("config error: 'default_locale' must be en or de, got %q", c.DefaultLocale)
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config error: 'log_format' must be text or json, got %q", c.LogFormat)
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config error: unknown 'log_level' %q", c.LogLevel)
	}

	if c.ChromePath != "" {
		if _, err := os.Stat(c.ChromePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: chrome binary not found: %s", c.ChromePath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// It is applied in precedence order: flags over file, file over env, env over
// built-in defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.DefaultTemplate == "" {
		result.DefaultTemplate = defaults.DefaultTemplate
	}
	if result.DefaultLocale == "" {
		result.DefaultLocale = defaults.DefaultLocale
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}
	if result.JWTSecret == "" {
		result.JWTSecret = defaults.JWTSecret
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.SessionTTLHours == 0 {
		result.SessionTTLHours = defaults.SessionTTLHours
	}

	return result
}

// Resolve layers the optional config file over the environment and the
// built-in defaults, then validates the result.
func Resolve(path string) (Config, error) {
	env, err := FromEnv()
	if err != nil {
		return Config{}, err
	}
	base := env.MergeWithDefaults(Defaults())

	cfg := base
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = fileCfg.MergeWithDefaults(base)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
