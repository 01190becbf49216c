// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot and interactive prose generation from the shell.
//
// Command: ask [prompt]
//
// With a prompt, sends it once and prints the rendered response. Without
// one, opens a line-edited prompt loop with history, so quick drafting
// does not require the full TUI.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/peterh/liner"

	"github.com/jeranaias/storyloom/internal/config"
	"github.com/jeranaias/storyloom/internal/generate"
	"github.com/jeranaias/storyloom/internal/secrets"
)

const askSystemPrompt = "You are a fiction co-author. Continue or draft prose " +
	"in the user's voice. Respond with prose only, no commentary."

// RunAsk handles the "storyloom ask" command.
func RunAsk(args *Args) error {
	cfg := config.Global()

	client, err := BuildClient(cfg, args.Model)
	if err != nil {
		return err
	}

	if args.Query != "" {
		return askOnce(client, args)
	}
	if !IsInteractive() {
		return errors.New("no prompt given and stdin is not a terminal")
	}
	return askLoop(client, args)
}

// BuildClient assembles a generation client from config, decrypting the
// stored API key. The TUI shares it.
func BuildClient(cfg *config.Config, modelOverride string) (*generate.Client, error) {
	apiKey := cfg.Generation.APIKey
	if secrets.IsEncrypted(apiKey) {
		dir, err := config.ConfigDir()
		if err != nil {
			return nil, err
		}
		keeper, err := secrets.Open(dir)
		if err != nil {
			return nil, fmt.Errorf("open secret store: %w", err)
		}
		apiKey, err = keeper.Decrypt(apiKey)
		if err != nil {
			return nil, fmt.Errorf("decrypt API key: %w", err)
		}
	}

	model := cfg.Generation.Model
	if modelOverride != "" {
		model = modelOverride
	}

	return generate.NewClient(generate.Options{
		Provider:          generate.Provider(cfg.Generation.Provider),
		Model:             model,
		APIKey:            apiKey,
		Endpoint:          cfg.Generation.Endpoint,
		Temperature:       cfg.Generation.Temperature,
		MaxTokens:         cfg.Generation.MaxTokens,
		RequestsPerMinute: cfg.Generation.RequestsPerMinute,
	}), nil
}

func askOnce(client *generate.Client, args *Args) error {
	resp, err := client.Generate(context.Background(), generate.Request{
		System: askSystemPrompt,
		Prompt: args.Query,
	})
	if err != nil {
		return describeGenerateError(err)
	}
	printResponse(resp, args)
	return nil
}

// askLoop runs the interactive prompt loop with line editing and history.
func askLoop(client *generate.Client, args *Args) error {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()

	historyFile := askHistoryPath()
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer saveHistory(line, historyFile)

	if !args.Quiet {
		fmt.Println("storyloom ask - empty line or ctrl+d to exit")
	}

	for {
		input, err := line.Prompt("> ")
		if err != nil || strings.TrimSpace(input) == "" {
			return nil
		}
		line.AppendHistory(input)

		resp, err := client.Generate(context.Background(), generate.Request{
			System: askSystemPrompt,
			Prompt: input,
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, describeGenerateError(err))
			continue
		}
		printResponse(resp, args)
	}
}

// printResponse renders the generated prose as markdown when stdout is a
// terminal, falling back to plain text otherwise.
func printResponse(resp *generate.Response, args *Args) {
	text := resp.Text
	if IsInteractive() {
		if rendered, err := glamour.Render(text, "auto"); err == nil {
			text = rendered
		}
	}
	fmt.Println(strings.TrimRight(text, "\n"))

	if args.Verbose {
		fmt.Fprintf(os.Stderr, "(%s, %d+%d tokens, %s)\n",
			resp.Model, resp.InputTokens, resp.OutputTokens,
			resp.Elapsed.Round(10*time.Millisecond))
	}
}

// describeGenerateError turns client error types into actionable messages.
func describeGenerateError(err error) error {
	switch {
	case generate.IsNotRunning(err):
		return errors.New("local LLM server is not running; start it or switch providers with 'storyloom config generation.provider'")
	case generate.IsTimeout(err):
		return errors.New("generation timed out; the model may still be loading")
	case generate.IsUnauthorized(err):
		return errors.New("provider rejected the API key; update it with 'storyloom config generation.api_key'")
	default:
		return err
	}
}

func askHistoryPath() string {
	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "ask_history")
}

func saveHistory(line *liner.State, path string) {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	line.WriteHistory(f)
}
