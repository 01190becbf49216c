// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	openAIURL    = "https://api.openai.com/v1/chat/completions"
	anthropicURL = "https://api.anthropic.com/v1/messages"

	// anthropicVersion is the API version header Anthropic requires.
	anthropicVersion = "2023-06-01"

	// maxResponseSize caps response bodies to prevent memory exhaustion.
	maxResponseSize = 10 * 1024 * 1024

	userAgent = "storyloom/0.3.0"
)

// =============================================================================
// CLIENT
// =============================================================================

// Client routes generation requests to the configured provider.
type Client struct {
	opts    Options
	http    *http.Client
	limiter *rate.Limiter

	// baseURL overrides the hosted provider endpoint when set. Used in tests.
	baseURL string
}

// NewClient creates a generation client from opts. Unset fields fall back
// to DefaultOptions values.
func NewClient(opts Options) *Client {
	def := DefaultOptions()
	if opts.Model == "" {
		opts.Model = def.Model
	}
	if opts.Endpoint == "" {
		opts.Endpoint = def.Endpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = def.MaxTokens
	}

	var limiter *rate.Limiter
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMinute)/60.0), 1)
	}

	return &Client{
		opts:    opts,
		http:    &http.Client{Timeout: opts.Timeout},
		limiter: limiter,
	}
}

// WithBaseURL redirects hosted provider requests to url. Returns the
// client for chaining.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

func (c *Client) providerURL(def string) string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return def
}

// Generate sends a single prompt and returns the completed text.
func (c *Client) Generate(ctx context.Context, req Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &ClientError{Type: ErrTypeTimeout, Message: "waiting for rate limiter", Cause: err}
		}
	}

	start := time.Now()
	var (
		resp *Response
		err  error
	)
	switch c.opts.Provider {
	case ProviderOpenAI:
		resp, err = c.generateOpenAI(ctx, req)
	case ProviderAnthropic:
		resp, err = c.generateAnthropic(ctx, req)
	case ProviderLocal:
		resp, err = c.generateLocal(ctx, req)
	default:
		return nil, fmt.Errorf("%w %q", ErrBadProvider, c.opts.Provider)
	}
	if err != nil {
		return nil, err
	}
	resp.Elapsed = time.Since(start)
	return resp, nil
}

// =============================================================================
// OPENAI
// =============================================================================

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func (c *Client) generateOpenAI(ctx context.Context, req Request) (*Response, error) {
	if c.opts.APIKey == "" {
		return nil, &ClientError{Type: ErrTypeUnauthorized, Message: "OpenAI API key not configured"}
	}

	body := openAIRequest{
		Model:       c.opts.Model,
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
	}
	if req.System != "" {
		body.Messages = append(body.Messages, openAIMessage{Role: "system", Content: req.System})
	}
	body.Messages = append(body.Messages, openAIMessage{Role: "user", Content: req.Prompt})

	raw, err := c.post(ctx, c.providerURL(openAIURL), body, map[string]string{
		"Authorization": "Bearer " + c.opts.APIKey,
	})
	if err != nil {
		return nil, err
	}

	var parsed openAIResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "decode OpenAI response", Cause: err}
	}
	if len(parsed.Choices) == 0 {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "OpenAI response contained no choices"}
	}
	return &Response{
		Text:         parsed.Choices[0].Message.Content,
		Model:        parsed.Model,
		InputTokens:  parsed.Usage.PromptTokens,
		OutputTokens: parsed.Usage.CompletionTokens,
	}, nil
}

// =============================================================================
// ANTHROPIC
// =============================================================================

type anthropicRequest struct {
	Model       string             `json:"model"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature"`
	MaxTokens   int                `json:"max_tokens"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (c *Client) generateAnthropic(ctx context.Context, req Request) (*Response, error) {
	if c.opts.APIKey == "" {
		return nil, &ClientError{Type: ErrTypeUnauthorized, Message: "Anthropic API key not configured"}
	}

	body := anthropicRequest{
		Model:       c.opts.Model,
		System:      req.System,
		Messages:    []anthropicMessage{{Role: "user", Content: req.Prompt}},
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
	}

	raw, err := c.post(ctx, c.providerURL(anthropicURL), body, map[string]string{
		"x-api-key":         c.opts.APIKey,
		"anthropic-version": anthropicVersion,
	})
	if err != nil {
		return nil, err
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "decode Anthropic response", Cause: err}
	}
	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "Anthropic response contained no text"}
	}
	return &Response{
		Text:         text.String(),
		Model:        parsed.Model,
		InputTokens:  parsed.Usage.InputTokens,
		OutputTokens: parsed.Usage.OutputTokens,
	}, nil
}

// =============================================================================
// HTTP HELPERS
// =============================================================================

// post sends a JSON POST and returns the response body, classifying
// transport and HTTP-status failures into ClientError types.
func (c *Client) post(ctx context.Context, url string, payload any, headers map[string]string) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "build request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "read response", Cause: err}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, &ClientError{
			Type:    ErrTypeConnection,
			Message: fmt.Sprintf("provider returned status %d: %s", resp.StatusCode, truncateBody(body)),
		}
	}
}

// classifyTransportError distinguishes timeouts from refused connections so
// the UI can tell "server slow" apart from "server down".
func classifyTransportError(err error) *ClientError {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	if strings.Contains(err.Error(), "connection refused") {
		return ErrNotRunning
	}
	return &ClientError{Type: ErrTypeConnection, Message: "request failed", Cause: err}
}

func truncateBody(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
