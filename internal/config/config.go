package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"tierlist-client/internal/tierrank"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the client.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Tiers   TiersConfig   `yaml:"tiers"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`

	// Scheme is resolved from Tiers.Scheme at load time.
	Scheme tierrank.Scheme `yaml:"-"`
}

// APIConfig holds remote API configuration.
type APIConfig struct {
	// Environment selects which base URL is used: "dev" or "prod".
	Environment    string `yaml:"environment"`
	DevURL         string `yaml:"dev_url"`
	ProdURL        string `yaml:"prod_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// TiersConfig holds the tier display configuration.
type TiersConfig struct {
	// Scheme names the rank-to-label mapping: "splus" or "classic".
	Scheme string `yaml:"scheme"`
}

// SessionConfig holds local session storage configuration.
type SessionConfig struct {
	Path string `yaml:"path"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from a YAML file, applies .env/environment
// overrides, and validates the tier scheme. A missing config file is not
// an error; defaults plus environment variables still make a usable
// configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{
		API: APIConfig{
			Environment:    "prod",
			TimeoutSeconds: 15,
		},
		Session: SessionConfig{Path: defaultSessionPath()},
		Log:     LogConfig{Level: "info"},
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyEnv(cfg)

	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = 15
	}

	scheme, err := tierrank.SchemeByName(cfg.Tiers.Scheme)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.Scheme = scheme

	if _, err := cfg.BaseURL(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// BaseURL returns the base URL selected by the environment flag.
func (c *Config) BaseURL() (string, error) {
	switch c.API.Environment {
	case "dev":
		if c.API.DevURL == "" {
			return "", fmt.Errorf("api.dev_url is not set")
		}
		return c.API.DevURL, nil
	case "prod":
		if c.API.ProdURL == "" {
			return "", fmt.Errorf("api.prod_url is not set")
		}
		return c.API.ProdURL, nil
	}
	return "", fmt.Errorf("api.environment must be \"dev\" or \"prod\", got %q", c.API.Environment)
}

// applyEnv overrides file values with environment variables. A local
// .env file is honored first, matching how the deployment images are
// configured.
func applyEnv(cfg *Config) {
	// Ignore a missing .env; plain environment variables still apply.
	_ = godotenv.Load()

	if v := os.Getenv("TIERLIST_ENV"); v != "" {
		cfg.API.Environment = v
	}
	if v := os.Getenv("TIERLIST_DEV_URL"); v != "" {
		cfg.API.DevURL = v
	}
	if v := os.Getenv("TIERLIST_PROD_URL"); v != "" {
		cfg.API.ProdURL = v
	}
	if v := os.Getenv("TIERLIST_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.API.TimeoutSeconds = secs
		}
	}
	if v := os.Getenv("TIERLIST_SCHEME"); v != "" {
		cfg.Tiers.Scheme = v
	}
	if v := os.Getenv("TIERLIST_SESSION_PATH"); v != "" {
		cfg.Session.Path = v
	}
	if v := os.Getenv("TIERLIST_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "session.db"
	}
	return dir + "/tierlist/session.db"
}
