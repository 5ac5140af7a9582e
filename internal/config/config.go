package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gravitrone/cocoon/internal/platform"
	"github.com/gravitrone/cocoon/internal/store"
)

// Config holds cocoon settings stored at ~/.cocoon/config.
type Config struct {
	Hotkey          string `yaml:"hotkey"`
	DefaultBrowser  string `yaml:"default_browser"`
	Theme           string `yaml:"theme"`
	LaunchAtStartup bool   `yaml:"launch_at_startup"`
	ShowInDock      bool   `yaml:"show_in_dock"`
	Store           string `yaml:"store"`
	DataPath        string `yaml:"data_path,omitempty"`
	Encrypt         bool   `yaml:"encrypt"`
	GeminiModel     string `yaml:"gemini_model"`
	LogLevel        string `yaml:"log_level"`
	VimKeys         bool   `yaml:"vim_keys"`
}

var (
	themes    = []string{"light", "dark", "system"}
	stores    = []string{store.BackendJSON, store.BackendSQLite}
	logLevels = []string{"debug", "info", "warn", "error"}
)

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		Hotkey:         "Control+Option+Space",
		DefaultBrowser: "chrome",
		Theme:          "system",
		ShowInDock:     true,
		Store:          "json",
		GeminiModel:    "gemini-2.0-flash",
		LogLevel:       "info",
	}
}

// Dir returns the cocoon home directory.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cocoon")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config")
}

// LogPath returns the log file path.
func LogPath() string {
	return filepath.Join(Dir(), "cocoon.log")
}

// Load reads the config file over the defaults. A missing file returns the
// defaults with an error wrapping os.ErrNotExist. Insecure permissions are an error.
func Load() (*Config, error) {
	cfg := Default()
	path := Path()

	info, err := os.Stat(path)
	if err != nil {
		return &cfg, fmt.Errorf("config not found: %w", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault is Load that treats a missing file as the defaults.
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	return cfg, err
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(path, 0600)
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if !slices.Contains(platform.Browsers, c.DefaultBrowser) {
		return fmt.Errorf("invalid default_browser %q (want one of %s)", c.DefaultBrowser, strings.Join(platform.Browsers, ", "))
	}
	if !slices.Contains(themes, c.Theme) {
		return fmt.Errorf("invalid theme %q (want one of %s)", c.Theme, strings.Join(themes, ", "))
	}
	if !slices.Contains(stores, c.Store) {
		return fmt.Errorf("invalid store %q (want one of %s)", c.Store, strings.Join(stores, ", "))
	}
	if !slices.Contains(logLevels, c.LogLevel) {
		return fmt.Errorf("invalid log_level %q (want one of %s)", c.LogLevel, strings.Join(logLevels, ", "))
	}
	if c.Encrypt && c.Store != store.BackendJSON {
		return fmt.Errorf("encrypt is only supported with the json store")
	}
	return nil
}

// Keys returns the settable keys in sorted order.
func Keys() []string {
	out := make([]string, 0, len(setters))
	for k := range setters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var setters = map[string]func(c *Config, v string) error{
	"hotkey":            func(c *Config, v string) error { c.Hotkey = v; return nil },
	"default_browser":   func(c *Config, v string) error { c.DefaultBrowser = strings.ToLower(v); return nil },
	"theme":             func(c *Config, v string) error { c.Theme = strings.ToLower(v); return nil },
	"launch_at_startup": func(c *Config, v string) error { return setBool(&c.LaunchAtStartup, v) },
	"show_in_dock":      func(c *Config, v string) error { return setBool(&c.ShowInDock, v) },
	"store":             func(c *Config, v string) error { c.Store = strings.ToLower(v); return nil },
	"data_path":         func(c *Config, v string) error { c.DataPath = v; return nil },
	"encrypt":           func(c *Config, v string) error { return setBool(&c.Encrypt, v) },
	"gemini_model":      func(c *Config, v string) error { c.GeminiModel = v; return nil },
	"log_level":         func(c *Config, v string) error { c.LogLevel = strings.ToLower(v); return nil },
	"vim_keys":          func(c *Config, v string) error { return setBool(&c.VimKeys, v) },
}

// Set updates one setting by its YAML key and validates the result. On error
// c is left unchanged.
func (c *Config) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown setting %q (want one of %s)", key, strings.Join(Keys(), ", "))
	}
	next := *c
	if err := set(&next, strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// ResolvedDataPath returns the data file path, defaulting into Dir.
func (c *Config) ResolvedDataPath() string {
	if c.DataPath != "" {
		return c.DataPath
	}
	return store.DefaultPath(Dir(), c.Store)
}

// SlogLevel maps LogLevel to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func setBool(dst *bool, v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("want true or false, got %q", v)
	}
	*dst = b
	return nil
}
