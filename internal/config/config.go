// Package config loads herometrics settings from a TOML file with environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every environment override, e.g. HEROMETRICS_SOURCE_SHEET_ID.
const EnvPrefix = "HEROMETRICS"

// Config represents the application configuration.
type Config struct {
	Source SourceConfig `toml:"source" envconfig:"SOURCE"`
	Cache  CacheConfig  `toml:"cache" envconfig:"CACHE"`
	Log    LogConfig    `toml:"log" envconfig:"LOG"`
}

// SourceConfig selects where match records are read from.
type SourceConfig struct {
	SheetID   string `toml:"sheet_id" envconfig:"SHEET_ID"`     // Google spreadsheet ID
	SheetName string `toml:"sheet_name" envconfig:"SHEET_NAME"` // Worksheet (tab) name
	File      string `toml:"file" envconfig:"FILE"`             // Local .csv/.xlsx; overrides the sheet
	APIKey    string `toml:"api_key" envconfig:"API_KEY"`       // Sheets API key; empty uses the public export
	Timeout   string `toml:"timeout" envconfig:"TIMEOUT"`       // Fetch timeout (e.g., "30s")
}

// CacheConfig contains record cache settings.
type CacheConfig struct {
	TTL string `toml:"ttl" envconfig:"TTL"` // "0s" never expires
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `toml:"level" envconfig:"LEVEL"`   // debug, info, warn, error
	Format string `toml:"format" envconfig:"FORMAT"` // text or json
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			SheetID:   "1DU1JpW27oOWjhTijTSW2tBGyMjHGioCW_E8V1syhAkE",
			SheetName: "Game Records",
			Timeout:   "30s",
		},
		Cache: CacheConfig{
			TTL: "10m",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// DefaultPath returns ~/.herometrics/config.toml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".herometrics", "config.toml"), nil
}

// Load reads the configuration at path, falling back to defaults for a missing file,
// then applies HEROMETRICS_* environment overrides. An empty path uses DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	// May hold an API key.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Source.File == "" && c.Source.SheetID == "" {
		return errors.New("either source.file or source.sheet_id must be set")
	}
	timeout, err := time.ParseDuration(c.Source.Timeout)
	if err != nil {
		return fmt.Errorf("invalid source timeout %q: %w", c.Source.Timeout, err)
	}
	if timeout <= 0 {
		return fmt.Errorf("source timeout must be positive: %s", c.Source.Timeout)
	}
	ttl, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return fmt.Errorf("invalid cache TTL %q: %w", c.Cache.TTL, err)
	}
	if ttl < 0 {
		return fmt.Errorf("cache TTL cannot be negative: %s", c.Cache.TTL)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	return nil
}

// GetSourceTimeout returns the fetch timeout as a duration.
func (c *Config) GetSourceTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Source.Timeout)
}

// GetCacheTTL returns the cache TTL as a duration.
func (c *Config) GetCacheTTL() (time.Duration, error) {
	return time.ParseDuration(c.Cache.TTL)
}
