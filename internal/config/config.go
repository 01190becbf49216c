// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for storyloom.
//
// Configuration lives in ~/.storyloom/config.toml with built-in defaults and
// environment variable overrides, and can be hot-reloaded while the TUI runs
// (see watch.go).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete storyloom configuration.
type Config struct {
	Version string `toml:"version"`

	// Generation configures the AI provider used for drafting content.
	Generation GenerationConfig `toml:"generation"`

	// Storage configures project persistence.
	Storage StorageConfig `toml:"storage"`

	// UI configures the terminal interface.
	UI UIConfig `toml:"ui"`
}

// GenerationConfig selects and tunes the AI provider.
type GenerationConfig struct {
	// Provider is one of "openai", "anthropic", "local".
	Provider string `toml:"provider"`
	// Model is the provider-specific model identifier.
	Model string `toml:"model"`
	// APIKey authenticates against hosted providers. May carry the ENC:
	// prefix when stored encrypted (see internal/secrets).
	APIKey string `toml:"api_key"`
	// Endpoint is the base URL for the "local" provider.
	Endpoint string `toml:"endpoint"`
	// Temperature is the sampling temperature (0.0-2.0).
	Temperature float64 `toml:"temperature"`
	// MaxTokens caps the length of a single generation.
	MaxTokens int `toml:"max_tokens"`
	// RequestsPerMinute rate-limits outbound generation requests (0 = default).
	RequestsPerMinute int `toml:"requests_per_minute"`
}

// StorageConfig configures the project database.
type StorageConfig struct {
	// DatabasePath is the SQLite file holding projects
	// (default: ~/.storyloom/projects.db).
	DatabasePath string `toml:"database_path"`
}

// UIConfig configures the terminal interface.
type UIConfig struct {
	// Theme is "dark", "light" or "auto".
	Theme string `toml:"theme"`
	// ConfirmOnExit gates quitting behind the exit-confirmation dialog.
	ConfirmOnExit bool `toml:"confirm_on_exit"`
	// WordWrap is the preview wrap column (0 = terminal width).
	WordWrap int `toml:"word_wrap"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",
		Generation: GenerationConfig{
			Provider:          "local",
			Model:             "llama3.1:8b",
			Endpoint:          "http://127.0.0.1:11434",
			Temperature:       0.8,
			MaxTokens:         2048,
			RequestsPerMinute: 20,
		},
		Storage: StorageConfig{
			DatabasePath: "", // resolved against ConfigDir by SetDefaults
		},
		UI: UIConfig{
			Theme:         "dark",
			ConfirmOnExit: true,
			WordWrap:      0,
		},
	}
}

// =============================================================================
// PATH HELPERS
// =============================================================================

// ConfigDir returns the storyloom configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".storyloom"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions tightens config file permissions to 0600 so API
// keys are not world-readable.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Mode().Perm() != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions: %w", err)
		}
	}
	return nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads configuration from the config file, falling back to defaults
// when no file exists. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		cfg.SetDefaults()
		return cfg, nil
	}
	return LoadFrom(path)
}

// LoadFrom reads configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		_ = ensureSecurePermissions(path)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the config file with 0600 permissions.
func (c *Config) Save() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to an explicit path.
func (c *Config) SaveTo(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// OVERRIDES, DEFAULTS, VALIDATION
// =============================================================================

// ApplyEnvOverrides applies STORYLOOM_* environment variables over the
// loaded values. Environment always wins over the file.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("STORYLOOM_PROVIDER"); v != "" {
		c.Generation.Provider = v
	}
	if v := os.Getenv("STORYLOOM_MODEL"); v != "" {
		c.Generation.Model = v
	}
	if v := os.Getenv("STORYLOOM_API_KEY"); v != "" {
		c.Generation.APIKey = v
	}
	if v := os.Getenv("STORYLOOM_ENDPOINT"); v != "" {
		c.Generation.Endpoint = v
	}
	if v := os.Getenv("STORYLOOM_DB"); v != "" {
		c.Storage.DatabasePath = v
	}
	if v := os.Getenv("STORYLOOM_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Generation.Temperature = f
		}
	}
}

// SetDefaults fills derived values that depend on the environment.
func (c *Config) SetDefaults() {
	if c.Storage.DatabasePath == "" {
		if dir, err := ConfigDir(); err == nil {
			c.Storage.DatabasePath = filepath.Join(dir, "projects.db")
		}
	}
	if c.Generation.RequestsPerMinute <= 0 {
		c.Generation.RequestsPerMinute = 20
	}
	if c.Generation.MaxTokens <= 0 {
		c.Generation.MaxTokens = 2048
	}
}

// Validate rejects configurations the rest of the application cannot act on.
func (c *Config) Validate() error {
	switch c.Generation.Provider {
	case "openai", "anthropic", "local":
	default:
		return fmt.Errorf("unsupported provider %q (want openai, anthropic or local)", c.Generation.Provider)
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		return fmt.Errorf("temperature %v out of range [0, 2]", c.Generation.Temperature)
	}
	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return fmt.Errorf("unknown theme %q", c.UI.Theme)
	}
	return nil
}

// =============================================================================
// GLOBAL ACCESS
// =============================================================================

var (
	globalMu  sync.RWMutex
	globalCfg *Config
)

// Global returns the process-wide configuration, loading it on first use.
// Load failures fall back to defaults with a stderr warning; configuration
// problems must never prevent startup.
func Global() *Config {
	globalMu.RLock()
	if globalCfg != nil {
		defer globalMu.RUnlock()
		return globalCfg
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalCfg == nil {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
			cfg.SetDefaults()
		}
		globalCfg = cfg
	}
	return globalCfg
}

// Reload replaces the global configuration, typically from the file watcher.
func Reload() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	globalMu.Lock()
	globalCfg = cfg
	globalMu.Unlock()
	return cfg, nil
}
