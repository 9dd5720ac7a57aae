package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	cfg := New()

	// Check defaults
	if cfg.API.BaseURL != "http://localhost:3000" {
		t.Errorf("expected default BaseURL to be http://localhost:3000, got %s", cfg.API.BaseURL)
	}
	if cfg.Output.Dir != "output/clients/go" {
		t.Errorf("expected default Output.Dir to be output/clients/go, got %s", cfg.Output.Dir)
	}
	if cfg.Watch.DebounceMS != 500 {
		t.Errorf("expected default DebounceMS to be 500, got %d", cfg.Watch.DebounceMS)
	}
	if cfg.History.Enabled != true {
		t.Error("expected History.Enabled to default to true")
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.ini")

	cfg := &Config{
		API: APIConfig{
			BaseURL: "http://registers.example.com:8080",
		},
		Output: OutputConfig{
			Dir: "/tmp/register-output",
		},
		Watch: WatchConfig{
			DebounceMS: 250,
		},
		History: HistoryConfig{
			Enabled: false,
			Path:    "/tmp/history.db",
		},
	}

	if err := Save(cfg, configPath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	loadedCfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loadedCfg.API.BaseURL != cfg.API.BaseURL {
		t.Errorf("BaseURL mismatch: expected %s, got %s", cfg.API.BaseURL, loadedCfg.API.BaseURL)
	}
	if loadedCfg.Output.Dir != cfg.Output.Dir {
		t.Errorf("Output.Dir mismatch: expected %s, got %s", cfg.Output.Dir, loadedCfg.Output.Dir)
	}
	if loadedCfg.Watch.DebounceMS != cfg.Watch.DebounceMS {
		t.Errorf("DebounceMS mismatch: expected %d, got %d", cfg.Watch.DebounceMS, loadedCfg.Watch.DebounceMS)
	}
	if loadedCfg.History.Enabled != cfg.History.Enabled {
		t.Errorf("History.Enabled mismatch: expected %v, got %v", cfg.History.Enabled, loadedCfg.History.Enabled)
	}
	if loadedCfg.History.Path != cfg.History.Path {
		t.Errorf("History.Path mismatch: expected %s, got %s", cfg.History.Path, loadedCfg.History.Path)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	// Load from non-existent path should return defaults
	cfg, err := Load("/path/that/does/not/exist/config.ini")
	if err != nil {
		t.Fatalf("Load should not fail for non-existent file: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:3000" {
		t.Errorf("expected default BaseURL for non-existent file")
	}
	if !cfg.History.Enabled {
		t.Error("expected default History.Enabled=true for non-existent file")
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	// Empty path should try default location (may or may not exist)
	// This should not panic or error
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load with empty path should not error: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load should return a config, not nil")
	}
}

func TestLoad_InvalidINI(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.ini")

	if err := os.WriteFile(configPath, []byte("this is not valid INI [[["), 0600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load should fail for invalid INI")
	}
}

func TestLoad_PartialConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "partial.ini")

	// Write partial config (only api section)
	content := `[api]
base_url = http://partial.example.com
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.BaseURL != "http://partial.example.com" {
		t.Errorf("BaseURL not loaded correctly")
	}

	// Other sections should keep defaults
	if cfg.Output.Dir != "output/clients/go" {
		t.Errorf("Output.Dir should default to output/clients/go, got %s", cfg.Output.Dir)
	}
	if cfg.Watch.DebounceMS != 500 {
		t.Errorf("DebounceMS should default to 500, got %d", cfg.Watch.DebounceMS)
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	// Use a nested path that doesn't exist yet
	configPath := filepath.Join(tmpDir, "nested", "dir", "config.ini")

	cfg := New()
	cfg.API.BaseURL = "http://test.example.com"

	if err := Save(cfg, configPath); err != nil {
		t.Fatalf("Save should create parent directories: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr error
	}{
		{
			name:    "valid defaults",
			cfg:     New(),
			wantErr: nil,
		},
		{
			name: "valid https URL",
			cfg: &Config{
				API: APIConfig{BaseURL: "https://registers.example.com"},
			},
			wantErr: nil,
		},
		{
			name: "missing base URL",
			cfg: &Config{
				API: APIConfig{BaseURL: ""},
			},
			wantErr: ErrMissingBaseURL,
		},
		{
			name: "whitespace only base URL",
			cfg: &Config{
				API: APIConfig{BaseURL: "   "},
			},
			wantErr: ErrMissingBaseURL,
		},
		{
			name: "relative base URL",
			cfg: &Config{
				API: APIConfig{BaseURL: "localhost:3000"},
			},
			wantErr: ErrInvalidBaseURL,
		},
		{
			name: "unsupported scheme",
			cfg: &Config{
				API: APIConfig{BaseURL: "ftp://localhost:3000"},
			},
			wantErr: ErrInvalidBaseURL,
		},
		{
			name: "negative debounce",
			cfg: &Config{
				API:   APIConfig{BaseURL: "http://localhost:3000"},
				Watch: WatchConfig{DebounceMS: -1},
			},
			wantErr: ErrInvalidDebounce,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if err != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_MergeFlags(t *testing.T) {
	tests := []struct {
		name    string
		fileURL string
		envURL  string
		flagURL string
		wantURL string
	}{
		{
			name:    "file value kept without overrides",
			fileURL: "http://from-file:3000",
			wantURL: "http://from-file:3000",
		},
		{
			name:    "env beats file",
			fileURL: "http://from-file:3000",
			envURL:  "http://from-env:3000",
			wantURL: "http://from-env:3000",
		},
		{
			name:    "flag beats env",
			fileURL: "http://from-file:3000",
			envURL:  "http://from-env:3000",
			flagURL: "http://from-flag:3000",
			wantURL: "http://from-flag:3000",
		},
		{
			name:    "flag beats file without env",
			fileURL: "http://from-file:3000",
			flagURL: "http://from-flag:3000",
			wantURL: "http://from-flag:3000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envURL != "" {
				t.Setenv(EnvAPIBaseURL, tt.envURL)
			} else {
				t.Setenv(EnvAPIBaseURL, "")
				os.Unsetenv(EnvAPIBaseURL)
			}

			cfg := New()
			cfg.API.BaseURL = tt.fileURL
			cfg.MergeFlags(tt.flagURL)

			if cfg.API.BaseURL != tt.wantURL {
				t.Errorf("MergeFlags() BaseURL = %s, want %s", cfg.API.BaseURL, tt.wantURL)
			}
		})
	}
}

func TestConfig_HistoryPath(t *testing.T) {
	cfg := New()
	cfg.History.Path = "/explicit/history.db"

	got, err := cfg.HistoryPath()
	if err != nil {
		t.Fatalf("HistoryPath failed: %v", err)
	}
	if got != "/explicit/history.db" {
		t.Errorf("HistoryPath() = %s, want /explicit/history.db", got)
	}

	cfg.History.Path = ""
	got, err = cfg.HistoryPath()
	if err != nil {
		t.Fatalf("HistoryPath failed: %v", err)
	}
	if got == "" {
		t.Error("HistoryPath() should fall back to a default location")
	}
	if filepath.Base(got) != "history.db" {
		t.Errorf("default HistoryPath() should end in history.db, got %s", got)
	}
}
