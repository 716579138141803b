// Package config provides configuration loading for the client and the
// development stub API.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Store  StoreConfig  `yaml:"store"`
	Google GoogleConfig `yaml:"google"`
	Stub   StubConfig   `yaml:"stub"`
}

// APIConfig configures the platform backend connection.
type APIConfig struct {
	// BaseURL is the root of the platform REST API.
	BaseURL string `yaml:"base_url"`
	// Timeout bounds each request; there is no retrying on top of it.
	Timeout time.Duration `yaml:"timeout"`
}

// StoreConfig configures client-local persistence.
type StoreConfig struct {
	// Path is the sqlite state database. Empty selects the default under
	// the user config directory.
	Path string `yaml:"path"`
}

// GoogleConfig configures the Google sign-in helper.
type GoogleConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

// StubConfig configures the local development API stub.
type StubConfig struct {
	Port      string `yaml:"port"`
	JWTSecret string `yaml:"jwt_secret"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 15 * time.Second,
		},
		Stub: StubConfig{
			Port:      "8080",
			JWTSecret: "dev-secret-change-me",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (when
// it exists), then environment variables. A .env file in the working
// directory is honoured the same way the server side does it.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(cfg)

	if cfg.Store.Path == "" {
		cfg.Store.Path = defaultStorePath()
	}
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = 15 * time.Second
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FXRENTAL_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("FXRENTAL_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		cfg.Google.ClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		cfg.Google.ClientSecret = v
	}
	if v := os.Getenv("GOOGLE_REDIRECT_URL"); v != "" {
		cfg.Google.RedirectURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Stub.Port = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Stub.JWTSecret = v
	}
}

// DefaultPath is the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "fxrental.yaml"
	}
	return filepath.Join(dir, "fxrental", "config.yaml")
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "fxrental-state.db"
	}
	return filepath.Join(dir, "fxrental", "state.db")
}
