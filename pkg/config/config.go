package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	ProviderButler = "butler"
	ProviderOpenAI = "openai"
	ProviderGoogle = "google"

	StalePolicyAppend   = "append"
	StalePolicySuppress = "suppress"
)

// Config represents the application configuration
type Config struct {
	Provider          string       `json:"provider" env:"AIRBUTLER_PROVIDER"`
	APIBase           string       `json:"api_base" env:"AIRBUTLER_API_BASE"`
	APITimeoutSeconds int          `json:"api_timeout_seconds" env:"AIRBUTLER_API_TIMEOUT_SECONDS"`
	HistoryLimit      int          `json:"history_limit" env:"AIRBUTLER_HISTORY_LIMIT"`
	TypingDelayMs     int          `json:"typing_delay_ms" env:"AIRBUTLER_TYPING_DELAY_MS"`
	StalePolicy       string       `json:"stale_policy" env:"AIRBUTLER_STALE_POLICY"`
	Locale            string       `json:"locale" env:"AIRBUTLER_LOCALE"`
	PageFile          string       `json:"page_file,omitempty" env:"AIRBUTLER_PAGE_FILE"`
	OpenAI            OpenAIConfig `json:"openai"`
	Google            GoogleConfig `json:"google"`
	LogLevel          string       `json:"log_level" env:"AIRBUTLER_LOG_LEVEL"`
	LogFormat         string       `json:"log_format" env:"AIRBUTLER_LOG_FORMAT"`
	LogFile           string       `json:"log_file" env:"AIRBUTLER_LOG_FILE"`
}

// OpenAIConfig holds settings for an OpenAI-compatible chat gateway.
type OpenAIConfig struct {
	APIKey string `json:"api_key" env:"AIRBUTLER_OPENAI_API_KEY"`
	APIURL string `json:"api_url" env:"AIRBUTLER_OPENAI_API_URL"`
	Model  string `json:"model" env:"AIRBUTLER_OPENAI_MODEL"`
}

// GoogleConfig holds settings for the Gemini gateway.
type GoogleConfig struct {
	APIKey string `json:"api_key" env:"AIRBUTLER_GOOGLE_API_KEY"`
	Model  string `json:"model" env:"AIRBUTLER_GOOGLE_MODEL"`
}

// Default returns a configuration with default values
func Default() Config {
	return Config{
		Provider:          ProviderButler,
		APIBase:           "http://localhost:5000/api",
		APITimeoutSeconds: 30,
		HistoryLimit:      10,
		TypingDelayMs:     1000,
		StalePolicy:       StalePolicyAppend,
		Locale:            "zh-CN",
		OpenAI: OpenAIConfig{
			APIURL: "https://api.openai.com/v1",
			Model:  "gpt-4o-mini",
		},
		Google: GoogleConfig{
			Model: "gemini-2.5-flash",
		},
		LogLevel:  "info",
		LogFormat: "json",
		LogFile:   "",
	}
}

// Load loads configuration from the specified path.
// If the file doesn't exist, creates one with default values.
// Fields missing from an existing file keep their defaults.
// AIRBUTLER_* environment variables override the file and are never saved.
func Load(configPath string) (Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return Config{}, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if err := Save(configPath, cfg); err != nil {
				return Config{}, fmt.Errorf("failed to create default config: %w", err)
			}
			return applyEnv(cfg)
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	return applyEnv(cfg)
}

func applyEnv(cfg Config) (Config, error) {
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

// Save saves the configuration to the specified path
func Save(configPath string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderButler, ProviderOpenAI, ProviderGoogle:
	default:
		return fmt.Errorf("unsupported provider: %s", c.Provider)
	}

	if strings.TrimSpace(c.APIBase) == "" {
		return fmt.Errorf("api_base is required")
	}
	if u, err := url.Parse(c.APIBase); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_base must be an absolute URL, got: %q", c.APIBase)
	}

	if c.APITimeoutSeconds <= 0 {
		return fmt.Errorf("api_timeout_seconds must be positive, got: %d", c.APITimeoutSeconds)
	}

	if c.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be positive, got: %d", c.HistoryLimit)
	}

	if c.TypingDelayMs < 0 {
		return fmt.Errorf("typing_delay_ms must not be negative, got: %d", c.TypingDelayMs)
	}

	switch c.StalePolicy {
	case StalePolicyAppend, StalePolicySuppress:
	default:
		return fmt.Errorf("stale_policy must be %q or %q, got: %q", StalePolicyAppend, StalePolicySuppress, c.StalePolicy)
	}

	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "trace", "debug", "info", "warn", "warning", "error", "":
	default:
		return fmt.Errorf("invalid log_level: %q", c.LogLevel)
	}

	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "json", "text", "":
	default:
		return fmt.Errorf("invalid log_format: %q", c.LogFormat)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".airbutler/config.json"
	}
	return filepath.Join(homeDir, ".airbutler", "config.json")
}
