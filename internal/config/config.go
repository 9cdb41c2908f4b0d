// Package config loads ledgerkit configuration from a YAML file with
// environment variable overrides. The configuration is an explicit value
// handed to constructors; there is no package-global state.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file or individual keys are absent.
const (
	DefaultBaseURL         = "http://localhost:3000"
	DefaultTimeoutSeconds  = 30
	DefaultCacheTTLSeconds = 60
	DefaultPageSize        = 10
	DefaultSortField       = "date"
	DefaultSortOrder       = "desc"
	DefaultLocale          = "en-US"
)

// configDirName is the per-user directory holding config.yaml.
const configDirName = ".ledgerkit"

// APIConfig holds the backend endpoint settings.
type APIConfig struct {
	// BaseURL is the backend root, e.g. "https://api.bytebank.example".
	BaseURL string `yaml:"base_url"`

	// TimeoutSeconds bounds a single HTTP request round trip.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// SessionConfig carries the opaque credentials produced by the
// authentication layer. Both values are pass-through strings: the token
// scopes cache keys, the user ID scopes the statement listing.
type SessionConfig struct {
	Token  string `yaml:"token"`
	UserID string `yaml:"user_id"`
}

// CacheConfig controls the response cache and its gate.
type CacheConfig struct {
	// Enabled turns the caching gate on. Writes still invalidate when
	// disabled reads are passed through.
	Enabled bool `yaml:"enabled"`

	// TTLSeconds is the default lifetime of a cached response.
	TTLSeconds int `yaml:"ttl_seconds"`

	// ExcludedPaths lists URL fragments that must never be served from
	// or stored into the cache.
	ExcludedPaths []string `yaml:"excluded_paths"`
}

// LoggingConfig mirrors logging.Config in YAML form.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// ListConfig holds the statement listing defaults.
type ListConfig struct {
	PageSize  int    `yaml:"page_size"`
	SortField string `yaml:"sort_field"`
	SortOrder string `yaml:"sort_order"`
}

// Config is the full ledgerkit configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	Cache   CacheConfig   `yaml:"cache"`
	List    ListConfig    `yaml:"list"`
	Logging LoggingConfig `yaml:"logging"`

	// Locale selects the month-label language for the extract view.
	Locale string `yaml:"locale"`
}

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        DefaultBaseURL,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Cache: CacheConfig{
			Enabled:       true,
			TTLSeconds:    DefaultCacheTTLSeconds,
			ExcludedPaths: []string{"/account/transaction"},
		},
		List: ListConfig{
			PageSize:  DefaultPageSize,
			SortField: DefaultSortField,
			SortOrder: DefaultSortOrder,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Locale: DefaultLocale,
	}
}

// DefaultPath returns the per-user config file location,
// $HOME/.ledgerkit/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDirName, "config.yaml")
}

// Load reads the config file at path (DefaultPath when empty), merges it
// over the defaults, and applies LEDGERKIT_* environment overrides. A
// missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // path comes from the user's own flag or home dir
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.fillZeroes()
	return cfg, nil
}

// Save writes the config as YAML to path, creating the directory if
// needed. Used by "ledgerkit config init".
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// Timeout returns the API timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// CacheTTL returns the cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// applyEnv overlays LEDGERKIT_* environment variables onto the config.
func (c *Config) applyEnv() {
	if v := os.Getenv("LEDGERKIT_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("LEDGERKIT_AUTH_TOKEN"); v != "" {
		c.Session.Token = v
	}
	if v := os.Getenv("LEDGERKIT_USER_ID"); v != "" {
		c.Session.UserID = v
	}
	if v := os.Getenv("LEDGERKIT_CACHE_TTL_SECONDS"); v != "" {
		if ttl, err := strconv.Atoi(v); err == nil && ttl > 0 {
			c.Cache.TTLSeconds = ttl
		}
	}
	if v := os.Getenv("LEDGERKIT_CACHE_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Cache.Enabled = enabled
		}
	}
	if v := os.Getenv("LEDGERKIT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LEDGERKIT_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("LEDGERKIT_LOCALE"); v != "" {
		c.Locale = v
	}
}

// fillZeroes restores defaults for keys a config file explicitly zeroed.
func (c *Config) fillZeroes() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.Cache.TTLSeconds <= 0 {
		c.Cache.TTLSeconds = DefaultCacheTTLSeconds
	}
	if c.List.PageSize <= 0 {
		c.List.PageSize = DefaultPageSize
	}
	if c.List.SortField == "" {
		c.List.SortField = DefaultSortField
	}
	if c.List.SortOrder == "" {
		c.List.SortOrder = DefaultSortOrder
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
}
