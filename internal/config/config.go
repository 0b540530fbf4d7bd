// ABOUTME: Configuration loader for the storefront client
// ABOUTME: Loads settings from an optional .env file and environment variables with defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DefaultAPIURL = "http://localhost:3001/api"
	DefaultAppURL = "http://localhost:3000"
)

type Config struct {
	// API
	APIURL         string
	AppURL         string
	RequestTimeout time.Duration // fixed per-request timeout (default 10s)
	LogoutTimeout  time.Duration // bound on the best-effort revocation call (default 3s)
	CallbackPort   int           // local listener for the OAuth redirect (default 8765)

	// Exchange rate
	RatePollInterval time.Duration // default 1h

	// Runtime
	Env       string // development or production (default: production)
	ConfigDir string // durable client state and log files

	// Logging
	LogLevel      string
	LogFormat     string
	MonitoringURL string // warn+ records are forwarded here when set
}

// IsDevelopment reports whether console diagnostics are enabled
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Load reads the .env file (if present) and then the environment.
// Variables already set in the environment win over the .env file.
func Load() (*Config, error) {
	envFile := getEnv("DELCARAJO_ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := &Config{
		APIURL:         strings.TrimRight(ensureScheme(getEnv("DELCARAJO_API_URL", DefaultAPIURL)), "/"),
		AppURL:         strings.TrimRight(getEnv("DELCARAJO_APP_URL", DefaultAppURL), "/"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT", 10)) * time.Second,
		LogoutTimeout:  time.Duration(getEnvInt("LOGOUT_TIMEOUT", 3)) * time.Second,
		CallbackPort:   getEnvInt("CALLBACK_PORT", 8765),

		RatePollInterval: time.Duration(getEnvInt("RATE_POLL_INTERVAL", 3600)) * time.Second,

		Env:       strings.ToLower(getEnv("DELCARAJO_ENV", EnvProduction)),
		ConfigDir: getEnv("DELCARAJO_CONFIG_DIR", DefaultConfigDir()),

		LogLevel:      os.Getenv("LOG_LEVEL"),
		LogFormat:     os.Getenv("LOG_FORMAT"),
		MonitoringURL: os.Getenv("MONITORING_URL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and URL shapes
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.APIURL); err != nil {
		return fmt.Errorf("DELCARAJO_API_URL is not a valid URL: %w", err)
	}
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("DELCARAJO_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Env)
	}

	for _, d := range []struct {
		name  string
		value time.Duration
	}{
		{"REQUEST_TIMEOUT", c.RequestTimeout},
		{"LOGOUT_TIMEOUT", c.LogoutTimeout},
		{"RATE_POLL_INTERVAL", c.RatePollInterval},
	} {
		if d.value < time.Second {
			return fmt.Errorf("%s must be at least 1 second, got %s", d.name, d.value)
		}
	}

	if c.CallbackPort < 1 || c.CallbackPort > 65535 {
		return fmt.Errorf("CALLBACK_PORT must be between 1 and 65535, got %d", c.CallbackPort)
	}
	return nil
}

// DefaultConfigDir returns the default config directory following the XDG base directory layout
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "delcarajo")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "delcarajo")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// ensureScheme adds https:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "https://" + url
	}
	return url
}
