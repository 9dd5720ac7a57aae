// Package config provides configuration management for the cash register client.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/ini.v1"
)

// EnvAPIBaseURL is the environment variable holding the server base URL.
// It sits between the --api flag and the config file in precedence.
const EnvAPIBaseURL = "CASH_REGISTER_API"

// ConfigDir is the configuration directory name under ~/.config.
const ConfigDir = "cashregister"

// Built-in defaults.
const (
	DefaultBaseURL   = "http://localhost:3000"
	DefaultOutputDir = "output/clients/go"
)

// Config represents the client configuration.
//
// Config file location:
//   - Windows: %USERPROFILE%\.config\cashregister\config.ini
//   - Unix: ~/.config/cashregister/config.ini
//
// INI format:
//
//	[api]
//	base_url = http://localhost:3000
//
//	[output]
//	dir = output/clients/go
//
//	[watch]
//	debounce_ms = 500
//
//	[history]
//	enabled = true
//	path = /home/user/.local/share/cashregister/history.db
type Config struct {
	// API connection settings
	API APIConfig

	// Output file settings
	Output OutputConfig

	// Watch mode settings
	Watch WatchConfig

	// Run history settings
	History HistoryConfig
}

// APIConfig contains the server connection settings.
type APIConfig struct {
	// BaseURL is the cash register server base URL.
	// Default: http://localhost:3000
	BaseURL string `ini:"base_url"`
}

// OutputConfig contains output file settings.
type OutputConfig struct {
	// Dir is the directory for derived output paths.
	// An explicit --output flag bypasses it entirely.
	// Default: output/clients/go
	Dir string `ini:"dir"`
}

// WatchConfig contains settings for watch mode.
type WatchConfig struct {
	// DebounceMS is the quiet period in milliseconds before a changed
	// file is submitted. Default: 500
	DebounceMS int `ini:"debounce_ms"`
}

// HistoryConfig contains settings for the run history store.
type HistoryConfig struct {
	// Enabled indicates whether runs are recorded.
	// Default: true
	Enabled bool `ini:"enabled"`

	// Path is the SQLite database location. Empty means the default
	// under ~/.local/share/cashregister.
	Path string `ini:"path"`
}

// Validation errors
var (
	ErrMissingBaseURL  = errors.New("api base_url is required")
	ErrInvalidBaseURL  = errors.New("api base_url must be an absolute http or https URL")
	ErrInvalidDebounce = errors.New("watch debounce_ms must not be negative")
)

// DefaultConfigPath returns the default path for the config file.
// - Windows: %USERPROFILE%\.config\cashregister\config.ini
// - Unix: ~/.config/cashregister/config.ini
func DefaultConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.ini"), nil
}

// DefaultHistoryPath returns the default location of the history database.
// - Windows: %USERPROFILE%\.local\share\cashregister\history.db
// - Unix: ~/.local/share/cashregister/history.db
func DefaultHistoryPath() (string, error) {
	home, err := homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", ConfigDir, "history.db"), nil
}

func configDir() (string, error) {
	home, err := homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", ConfigDir), nil
}

func homeDir() (string, error) {
	if runtime.GOOS == "windows" {
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", errors.New("USERPROFILE environment variable not set")
		}
		return userProfile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return home, nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := configDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
		},
		Output: OutputConfig{
			Dir: DefaultOutputDir,
		},
		Watch: WatchConfig{
			DebounceMS: 500,
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// Load loads configuration from an INI file.
// If the file doesn't exist, returns a config with default values and no error.
// If the file exists but is invalid, returns an error.
func Load(path string) (*Config, error) {
	cfg := New()

	// If no path provided, use default
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return cfg, nil // Return defaults if we can't determine path
		}
	}

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // Return defaults if config doesn't exist
	}

	iniFile, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	apiSection := iniFile.Section("api")
	cfg.API.BaseURL = apiSection.Key("base_url").MustString(cfg.API.BaseURL)

	outputSection := iniFile.Section("output")
	cfg.Output.Dir = outputSection.Key("dir").MustString(cfg.Output.Dir)

	watchSection := iniFile.Section("watch")
	cfg.Watch.DebounceMS = watchSection.Key("debounce_ms").MustInt(cfg.Watch.DebounceMS)

	historySection := iniFile.Section("history")
	cfg.History.Enabled = historySection.Key("enabled").MustBool(cfg.History.Enabled)
	cfg.History.Path = historySection.Key("path").String()

	return cfg, nil
}

// Save saves configuration to an INI file.
// Creates parent directories if they don't exist.
func Save(cfg *Config, path string) error {
	// If no path provided, use default
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to determine config path: %w", err)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	iniFile := ini.Empty()

	apiSection, err := iniFile.NewSection("api")
	if err != nil {
		return fmt.Errorf("failed to create api section: %w", err)
	}
	apiSection.Key("base_url").SetValue(cfg.API.BaseURL)

	outputSection, err := iniFile.NewSection("output")
	if err != nil {
		return fmt.Errorf("failed to create output section: %w", err)
	}
	outputSection.Key("dir").SetValue(cfg.Output.Dir)

	watchSection, err := iniFile.NewSection("watch")
	if err != nil {
		return fmt.Errorf("failed to create watch section: %w", err)
	}
	watchSection.Key("debounce_ms").SetValue(fmt.Sprintf("%d", cfg.Watch.DebounceMS))

	historySection, err := iniFile.NewSection("history")
	if err != nil {
		return fmt.Errorf("failed to create history section: %w", err)
	}
	historySection.Key("enabled").SetValue(fmt.Sprintf("%t", cfg.History.Enabled))
	historySection.Key("path").SetValue(cfg.History.Path)

	// Use temporary file + rename for atomicity
	tmpPath := path + ".tmp"
	if err := iniFile.SaveTo(tmpPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	// Owner read/write only
	if runtime.GOOS != "windows" {
		if err := os.Chmod(tmpPath, 0600); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("failed to set config permissions: %w", err)
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// MergeFlags applies the environment variable and command-line overrides on
// top of the loaded file.
// Priority (highest to lowest):
//  1. --api flag (command line)
//  2. CASH_REGISTER_API environment variable
//  3. Config file
//  4. Built-in default
func (c *Config) MergeFlags(apiBaseURL string) {
	if envURL := os.Getenv(EnvAPIBaseURL); envURL != "" {
		c.API.BaseURL = envURL
	}
	if apiBaseURL != "" {
		c.API.BaseURL = apiBaseURL
	}
}

// Validate checks if the configuration is valid.
// Returns nil if valid, or an error describing what's wrong.
func (c *Config) Validate() error {
	base := strings.TrimSpace(c.API.BaseURL)
	if base == "" {
		return ErrMissingBaseURL
	}
	u, err := url.Parse(base)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}
	if c.Watch.DebounceMS < 0 {
		return ErrInvalidDebounce
	}
	return nil
}

// HistoryPath returns the configured history database path, falling back to
// the default location when unset.
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	return DefaultHistoryPath()
}
