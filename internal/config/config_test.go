package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:3000", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 60*time.Second, cfg.CacheTTL())
	assert.Equal(t, []string{"/account/transaction"}, cfg.Cache.ExcludedPaths)
	assert.Equal(t, 10, cfg.List.PageSize)
	assert.Equal(t, "date", cfg.List.SortField)
	assert.Equal(t, "desc", cfg.List.SortOrder)
	assert.Equal(t, "en-US", cfg.Locale)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: https://api.bytebank.example
session:
  token: tok-abc
  user_id: "42"
cache:
  ttl_seconds: 120
locale: pt-BR
`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.bytebank.example", cfg.API.BaseURL)
	assert.Equal(t, "tok-abc", cfg.Session.Token)
	assert.Equal(t, "42", cfg.Session.UserID)
	assert.Equal(t, 120*time.Second, cfg.CacheTTL())
	assert.Equal(t, "pt-BR", cfg.Locale)

	// Keys the file doesn't mention keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, 10, cfg.List.PageSize)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [not a mapping"), 0600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: https://file.example
session:
  token: file-token
`), 0600))

	t.Setenv("LEDGERKIT_API_URL", "https://env.example")
	t.Setenv("LEDGERKIT_AUTH_TOKEN", "env-token")
	t.Setenv("LEDGERKIT_USER_ID", "99")
	t.Setenv("LEDGERKIT_CACHE_TTL_SECONDS", "15")
	t.Setenv("LEDGERKIT_CACHE_ENABLED", "false")
	t.Setenv("LEDGERKIT_LOG_LEVEL", "debug")
	t.Setenv("LEDGERKIT_LOCALE", "pt-BR")

	cfg, err := Load(path)
	require.NoError(t, err)

	// Environment wins over the file.
	assert.Equal(t, "https://env.example", cfg.API.BaseURL)
	assert.Equal(t, "env-token", cfg.Session.Token)
	assert.Equal(t, "99", cfg.Session.UserID)
	assert.Equal(t, 15*time.Second, cfg.CacheTTL())
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "pt-BR", cfg.Locale)
}

func TestLoadIgnoresInvalidEnvValues(t *testing.T) {
	t.Setenv("LEDGERKIT_CACHE_TTL_SECONDS", "soon")
	t.Setenv("LEDGERKIT_CACHE_ENABLED", "maybe")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Cache.TTLSeconds)
	assert.True(t, cfg.Cache.Enabled)
}

func TestLoadRestoresZeroedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: ""
  timeout_seconds: 0
list:
  page_size: 0
`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, DefaultTimeoutSeconds, cfg.API.TimeoutSeconds)
	assert.Equal(t, DefaultPageSize, cfg.List.PageSize)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.API.BaseURL = "https://saved.example"
	cfg.Session.Token = "tok"
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://saved.example", loaded.API.BaseURL)
	assert.Equal(t, "tok", loaded.Session.Token)
}
