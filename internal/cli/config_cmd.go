// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strconv"

	"github.com/jeranaias/storyloom/internal/config"
	"github.com/jeranaias/storyloom/internal/secrets"
)

// RunConfig handles the "storyloom config" command: no arguments prints the
// config, one argument prints a value, two arguments sets it.
func RunConfig(args *Args) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if args.ConfigKey == "" {
		printConfig(cfg)
		return nil
	}

	if args.ConfigVal == "" {
		v, err := getConfigValue(cfg, args.ConfigKey)
		if err != nil {
			return err
		}
		fmt.Println(v)
		return nil
	}

	if err := setConfigValue(cfg, args.ConfigKey, args.ConfigVal); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return cfg.Save()
}

func printConfig(cfg *config.Config) {
	apiKey := cfg.Generation.APIKey
	if apiKey != "" {
		apiKey = "(set)"
	}
	fmt.Printf("generation.provider      %s\n", cfg.Generation.Provider)
	fmt.Printf("generation.model         %s\n", cfg.Generation.Model)
	fmt.Printf("generation.api_key       %s\n", apiKey)
	fmt.Printf("generation.endpoint      %s\n", cfg.Generation.Endpoint)
	fmt.Printf("generation.temperature   %.1f\n", cfg.Generation.Temperature)
	fmt.Printf("generation.max_tokens    %d\n", cfg.Generation.MaxTokens)
	fmt.Printf("storage.database_path    %s\n", cfg.Storage.DatabasePath)
	fmt.Printf("ui.theme                 %s\n", cfg.UI.Theme)
	fmt.Printf("ui.confirm_on_exit       %t\n", cfg.UI.ConfirmOnExit)
	fmt.Printf("ui.word_wrap             %d\n", cfg.UI.WordWrap)
}

func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch key {
	case "generation.provider":
		return cfg.Generation.Provider, nil
	case "generation.model":
		return cfg.Generation.Model, nil
	case "generation.endpoint":
		return cfg.Generation.Endpoint, nil
	case "generation.temperature":
		return fmt.Sprintf("%.1f", cfg.Generation.Temperature), nil
	case "generation.max_tokens":
		return strconv.Itoa(cfg.Generation.MaxTokens), nil
	case "storage.database_path":
		return cfg.Storage.DatabasePath, nil
	case "ui.theme":
		return cfg.UI.Theme, nil
	case "ui.confirm_on_exit":
		return strconv.FormatBool(cfg.UI.ConfirmOnExit), nil
	case "ui.word_wrap":
		return strconv.Itoa(cfg.UI.WordWrap), nil
	case "generation.api_key":
		// Never print key material, encrypted or not.
		if cfg.Generation.APIKey == "" {
			return "", nil
		}
		return "(set)", nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "generation.provider":
		cfg.Generation.Provider = value
	case "generation.model":
		cfg.Generation.Model = value
	case "generation.endpoint":
		cfg.Generation.Endpoint = value
	case "generation.temperature":
		t, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("temperature must be a number: %w", err)
		}
		cfg.Generation.Temperature = t
	case "generation.max_tokens":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("max_tokens must be an integer: %w", err)
		}
		cfg.Generation.MaxTokens = n
	case "storage.database_path":
		cfg.Storage.DatabasePath = value
	case "ui.theme":
		cfg.UI.Theme = value
	case "ui.confirm_on_exit":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("confirm_on_exit must be true or false: %w", err)
		}
		cfg.UI.ConfirmOnExit = b
	case "ui.word_wrap":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("word_wrap must be an integer: %w", err)
		}
		cfg.UI.WordWrap = n
	case "generation.api_key":
		// Keys are encrypted before they touch the config file.
		dir, err := config.ConfigDir()
		if err != nil {
			return err
		}
		keeper, err := secrets.Open(dir)
		if err != nil {
			return fmt.Errorf("open secret store: %w", err)
		}
		enc, err := keeper.Encrypt(value)
		if err != nil {
			return fmt.Errorf("encrypt API key: %w", err)
		}
		cfg.Generation.APIKey = enc
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}
