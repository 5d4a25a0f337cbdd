package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the stockdesk client.
type Config struct {
	API       API       `yaml:"api"`
	Analytics Analytics `yaml:"analytics"`
	Logging   Logging   `yaml:"logging"`
	UI        UI        `yaml:"ui"`
}

// API points at the stock-analysis backend.
type API struct {
	BaseURL string `yaml:"base_url"`
}

// Analytics configures the user action sink.
type Analytics struct {
	Enabled          bool   `yaml:"enabled"`
	ElasticsearchURL string `yaml:"elasticsearch_url"`
	Index            string `yaml:"index"`
	Username         string `yaml:"username"`
	Password         string `yaml:"password"`
}

// Logging configures the diagnostic logger.
type Logging struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// UI holds terminal UI preferences.
type UI struct {
	StartPage string `yaml:"start_page"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		API: API{BaseURL: "http://localhost:8000"},
		Analytics: Analytics{
			Enabled:          true,
			ElasticsearchURL: "http://localhost:9200",
			Index:            "user_actions",
		},
		Logging: Logging{Level: "info", File: "/tmp/stockdesk.log"},
		UI:      UI{StartPage: "/"},
	}
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads a .env file from the working directory if one exists, then the
// YAML configuration at path on top of the defaults, and finally applies
// environment variable overrides. A missing file at path is not an error.
func Load(path string) (*Config, error) {
	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STOCKDESK_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}

	if v := os.Getenv("STOCKDESK_ES_URL"); v != "" {
		cfg.Analytics.ElasticsearchURL = v
	}
	if v := os.Getenv("STOCKDESK_ANALYTICS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Analytics.Enabled = b
		}
	}

	// Same names the backend uses for its Elasticsearch credentials.
	if v := os.Getenv("ES_USERNAME"); v != "" {
		cfg.Analytics.Username = v
	}
	if v := os.Getenv("ES_PASSWORD"); v != "" {
		cfg.Analytics.Password = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
