// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// DEFAULTS AND VALIDATION
// =============================================================================

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Generation.Provider != "local" {
		t.Errorf("default provider = %q, want local", cfg.Generation.Provider)
	}
	if !cfg.UI.ConfirmOnExit {
		t.Error("exit confirmation should default on")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.Generation.Provider = "bard" }},
		{"temperature too high", func(c *Config) { c.Generation.Temperature = 3.5 }},
		{"negative temperature", func(c *Config) { c.Generation.Temperature = -0.1 }},
		{"unknown theme", func(c *Config) { c.UI.Theme = "solarized" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted a bad config")
			}
		})
	}
}

// =============================================================================
// LOAD / SAVE ROUND TRIP
// =============================================================================

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Generation.Provider != "local" {
		t.Errorf("provider = %q, want default", cfg.Generation.Provider)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Generation.Provider = "anthropic"
	cfg.Generation.Model = "claude-sonnet-4"
	cfg.Generation.Temperature = 1.1
	cfg.UI.ConfirmOnExit = false
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Generation.Provider != "anthropic" || loaded.Generation.Model != "claude-sonnet-4" {
		t.Errorf("generation section lost: %+v", loaded.Generation)
	}
	if loaded.Generation.Temperature != 1.1 {
		t.Errorf("temperature = %v, want 1.1", loaded.Generation.Temperature)
	}
	if loaded.UI.ConfirmOnExit {
		t.Error("ConfirmOnExit should load as false")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config permissions = %o, want 0600", perm)
	}
}

func TestLoadFromRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[generation]\nprovider = \"bard\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom accepted an invalid provider")
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

func TestEnvOverridesWinOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[generation]\nprovider = \"openai\"\nmodel = \"gpt-4o\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("STORYLOOM_MODEL", "gpt-4o-mini")
	t.Setenv("STORYLOOM_TEMPERATURE", "0.2")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Generation.Model != "gpt-4o-mini" {
		t.Errorf("model = %q, env must win", cfg.Generation.Model)
	}
	if cfg.Generation.Temperature != 0.2 {
		t.Errorf("temperature = %v, want 0.2", cfg.Generation.Temperature)
	}
	if cfg.Generation.Provider != "openai" {
		t.Errorf("provider = %q, file value should survive", cfg.Generation.Provider)
	}
}
