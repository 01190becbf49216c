// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package generate

import "time"

// =============================================================================
// CONFIGURATION
// =============================================================================

// Provider identifies where generation requests are sent.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderLocal     Provider = "local"
)

// Options configures a generation client.
type Options struct {
	Provider    Provider
	Model       string
	APIKey      string
	Endpoint    string // base URL for the local server
	Temperature float64
	MaxTokens   int

	// RequestsPerMinute caps outbound request rate. Zero disables the cap.
	RequestsPerMinute int

	// Timeout bounds a single generation request.
	Timeout time.Duration
}

// DefaultOptions returns options for a local Ollama-compatible server.
func DefaultOptions() Options {
	return Options{
		Provider:    ProviderLocal,
		Model:       "llama3.1:8b",
		Endpoint:    "http://127.0.0.1:11434",
		Temperature: 0.8,
		MaxTokens:   1024,
		Timeout:     30 * time.Second,
	}
}

// =============================================================================
// REQUEST / RESPONSE
// =============================================================================

// Request is a single prompt to generate prose for.
type Request struct {
	// System frames the assistant's role ("You are a fiction co-author...").
	System string
	// Prompt is the user-visible instruction or continuation seed.
	Prompt string
}

// Response holds generated text plus provider accounting.
type Response struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
	Elapsed      time.Duration
}
