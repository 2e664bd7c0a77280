// Package config loads the critters TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/critters/internal/fetch"
	"github.com/theirongolddev/critters/internal/kvstore"
	"github.com/theirongolddev/critters/internal/logging"
	"github.com/theirongolddev/critters/internal/panel"
	"github.com/theirongolddev/critters/internal/sources"
	"github.com/theirongolddev/critters/internal/util"
)

// Config represents the main configuration
type Config struct {
	Panel     PanelConfig       `toml:"panel"`
	Fetch     FetchConfig       `toml:"fetch"`
	Cache     kvstore.Config    `toml:"cache"`
	Endpoints sources.Endpoints `toml:"endpoints"`
	Log       LogConfig         `toml:"log"`
	UI        UIConfig          `toml:"ui"`

	// Keys present in the file that no field consumed.
	Unknown []string `toml:"-"`
}

// PanelConfig holds the tile lifecycle timings as duration strings.
type PanelConfig struct {
	TTL             string `toml:"ttl"`              // Age after which a cached tile is stale
	BackgroundDelay string `toml:"background_delay"` // Wait before refreshing a fresh cached tile
	InitialStagger  string `toml:"initial_stagger"`  // Gap between tiles on startup
	RefreshStagger  string `toml:"refresh_stagger"`  // Gap between tiles on refresh-all
	StatusClear     string `toml:"status_clear"`     // How long status messages stay
	CopyStatusClear string `toml:"copy_status_clear"`
}

// FetchConfig holds the HTTP retry policy.
type FetchConfig struct {
	Timeout     string `toml:"timeout"`      // Per attempt
	Retries     int    `toml:"retries"`      // Extra attempts after the first
	BackoffBase string `toml:"backoff_base"` // First backoff wait, doubled per retry
	UserAgent   string `toml:"user_agent"`
}

// LogConfig selects log level, format and destination.
type LogConfig struct {
	Level  string `toml:"level"`  // trace, debug, info, warn, error, off
	Format string `toml:"format"` // console or json
	Output string `toml:"output"` // stderr, discard or a file path; empty means the default file in the TUI
}

// UIConfig holds terminal board preferences.
type UIConfig struct {
	Theme string `toml:"theme"` // auto, dark, light or plain
}

// Default returns the built-in configuration.
func Default() *Config {
	pc := panel.DefaultConfig()
	return &Config{
		Panel: PanelConfig{
			TTL:             util.FormatDuration(pc.TTL),
			BackgroundDelay: util.FormatDuration(pc.BackgroundDelay),
			InitialStagger:  util.FormatDuration(pc.InitialStagger),
			RefreshStagger:  util.FormatDuration(pc.RefreshStagger),
			StatusClear:     util.FormatDuration(pc.StatusClear),
			CopyStatusClear: util.FormatDuration(pc.CopyStatusClear),
		},
		Fetch: FetchConfig{
			Timeout:     util.FormatDuration(fetch.DefaultTimeout),
			Retries:     fetch.DefaultRetries,
			BackoffBase: util.FormatDuration(fetch.DefaultBackoffBase),
			UserAgent:   "critters",
		},
		Cache:     kvstore.DefaultConfig(),
		Endpoints: sources.DefaultEndpoints(),
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		UI: UIConfig{Theme: "auto"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/critters/config.toml or
// ~/.config/critters/config.toml.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "critters", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "critters", "config.toml")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

// Load reads path over the defaults. Values missing from the file keep
// their defaults, then environment overrides apply.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	for _, key := range md.Undecoded() {
		cfg.Unknown = append(cfg.Unknown, key.String())
	}

	cfg.Endpoints = cfg.Endpoints.WithDefaults()
	cfg.Cache.Dir = ExpandHome(cfg.Cache.Dir)
	cfg.Log.Output = ExpandHome(cfg.Log.Output)
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		applyEnvOverrides(cfg)
		return cfg, nil
	}
	return cfg, err
}

func applyEnvOverrides(cfg *Config) {
	if backend := os.Getenv("CRITTERS_CACHE_BACKEND"); backend != "" {
		cfg.Cache.Backend = backend
	}
	if addr := os.Getenv("CRITTERS_REDIS_ADDR"); addr != "" {
		cfg.Cache.RedisAddr = addr
	}
	if level := os.Getenv("CRITTERS_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
}

// Validate checks every duration and enum field.
func (c *Config) Validate() error {
	if _, err := c.PanelTimings(); err != nil {
		return err
	}
	if _, err := c.FetchOptions(); err != nil {
		return err
	}
	if _, err := c.BackoffBase(); err != nil {
		return err
	}
	if c.Fetch.Retries < 0 {
		return fmt.Errorf("fetch.retries: must not be negative, got %d", c.Fetch.Retries)
	}
	switch strings.ToLower(c.Cache.Backend) {
	case "", kvstore.BackendFile, kvstore.BackendMemory, kvstore.BackendRedis:
	default:
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	return nil
}

// PanelTimings parses the [panel] section.
func (c *Config) PanelTimings() (panel.Config, error) {
	out := panel.DefaultConfig()
	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"panel.ttl", c.Panel.TTL, &out.TTL},
		{"panel.background_delay", c.Panel.BackgroundDelay, &out.BackgroundDelay},
		{"panel.initial_stagger", c.Panel.InitialStagger, &out.InitialStagger},
		{"panel.refresh_stagger", c.Panel.RefreshStagger, &out.RefreshStagger},
		{"panel.status_clear", c.Panel.StatusClear, &out.StatusClear},
		{"panel.copy_status_clear", c.Panel.CopyStatusClear, &out.CopyStatusClear},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := parseNonNegative(f.name, f.raw)
		if err != nil {
			return panel.Config{}, err
		}
		*f.dst = d
	}
	return out, nil
}

// FetchOptions parses the [fetch] attempt policy.
func (c *Config) FetchOptions() (fetch.Options, error) {
	opts := fetch.DefaultOptions()
	opts.Retries = c.Fetch.Retries
	if c.Fetch.Timeout != "" {
		d, err := parseNonNegative("fetch.timeout", c.Fetch.Timeout)
		if err != nil {
			return fetch.Options{}, err
		}
		opts.Timeout = d
	}
	return opts, nil
}

// BackoffBase parses fetch.backoff_base.
func (c *Config) BackoffBase() (time.Duration, error) {
	if c.Fetch.BackoffBase == "" {
		return fetch.DefaultBackoffBase, nil
	}
	return parseNonNegative("fetch.backoff_base", c.Fetch.BackoffBase)
}

// Logging converts the [log] section. fallbackOutput is used when no output
// is configured.
func (c *Config) Logging(fallbackOutput string) logging.Config {
	lc := logging.DefaultConfig()
	if c.Log.Level != "" {
		lc.Level = c.Log.Level
	}
	if c.Log.Format != "" {
		lc.Format = c.Log.Format
	}
	lc.Output = fallbackOutput
	if c.Log.Output != "" {
		lc.Output = c.Log.Output
	}
	return lc
}

func parseNonNegative(name, raw string) (time.Duration, error) {
	d, err := util.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative, got %s", name, raw)
	}
	return d, nil
}

// CreateDefault writes the default config to path, or DefaultPath when
// empty. It refuses to overwrite an existing file.
func CreateDefault(path string) (string, error) {
	if path == "" {
		path = DefaultPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists: %s", path)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := Print(Default(), f); err != nil {
		return "", err
	}
	return path, nil
}
