package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "Game Records", cfg.Source.SheetName)

	timeout, err := cfg.GetSourceTimeout()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[source]
file = "games.csv"

[log]
level = "debug"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "games.csv", cfg.Source.File)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "Game Records", cfg.Source.SheetName, "unset keys keep defaults")
	assert.Equal(t, "10m", cfg.Cache.TTL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[source]\nsheet_name = \"From File\"\n"), 0o644))
	t.Setenv("HEROMETRICS_SOURCE_SHEET_NAME", "From Env")
	t.Setenv("HEROMETRICS_CACHE_TTL", "1h")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "From Env", cfg.Source.SheetName)

	ttl, err := cfg.GetCacheTTL()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, ttl)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[source\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Source.APIKey = "secret"
	cfg.Cache.TTL = "0s"

	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		errSub string
	}{
		{"no source", func(c *Config) { c.Source.SheetID = "" }, "source.file or source.sheet_id"},
		{"file without sheet", func(c *Config) { c.Source.SheetID = ""; c.Source.File = "x.csv" }, ""},
		{"bad timeout", func(c *Config) { c.Source.Timeout = "soon" }, "source timeout"},
		{"zero timeout", func(c *Config) { c.Source.Timeout = "0s" }, "must be positive"},
		{"negative timeout", func(c *Config) { c.Source.Timeout = "-5s" }, "must be positive"},
		{"bad ttl", func(c *Config) { c.Cache.TTL = "forever" }, "cache TTL"},
		{"negative ttl", func(c *Config) { c.Cache.TTL = "-1m" }, "negative"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log level"},
		{"upper level", func(c *Config) { c.Log.Level = "DEBUG" }, ""},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.errSub == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errSub)
		})
	}
}
