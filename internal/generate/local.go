// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// =============================================================================
// LOCAL SERVER (OLLAMA-COMPATIBLE)
// =============================================================================

type localRequest struct {
	Model   string       `json:"model"`
	Prompt  string       `json:"prompt"`
	System  string       `json:"system,omitempty"`
	Stream  bool         `json:"stream"`
	Options localOptions `json:"options"`
}

type localOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type localResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

func (c *Client) generateLocal(ctx context.Context, req Request) (*Response, error) {
	body := localRequest{
		Model:  c.opts.Model,
		Prompt: req.Prompt,
		System: req.System,
		Stream: false,
		Options: localOptions{
			Temperature: c.opts.Temperature,
			NumPredict:  c.opts.MaxTokens,
		},
	}

	url := strings.TrimRight(c.opts.Endpoint, "/") + "/api/generate"
	raw, err := c.post(ctx, url, body, nil)
	if err != nil {
		return nil, err
	}

	var parsed localResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "decode local server response", Cause: err}
	}
	return &Response{
		Text:         parsed.Response,
		Model:        parsed.Model,
		InputTokens:  parsed.PromptEvalCount,
		OutputTokens: parsed.EvalCount,
	}, nil
}

// Ping checks whether the local server is reachable. Remote providers are
// assumed reachable and return nil without a network call.
func (c *Client) Ping(ctx context.Context) error {
	if c.opts.Provider != ProviderLocal {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		strings.TrimRight(c.opts.Endpoint, "/")+"/api/tags", nil)
	if err != nil {
		return &ClientError{Type: ErrTypeUnknown, Message: "build request", Cause: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
	if resp.StatusCode != http.StatusOK {
		return &ClientError{
			Type:    ErrTypeNotRunning,
			Message: fmt.Sprintf("local LLM server returned status %d", resp.StatusCode),
		}
	}
	return nil
}

// Proxy forwards a raw JSON body to path on the local server, passing the
// supplied headers through. Editor plugins use this to reach endpoints the
// typed client does not wrap.
func (c *Client) Proxy(ctx context.Context, path string, body []byte, headers map[string]string) ([]byte, error) {
	if c.opts.Provider != ProviderLocal {
		return nil, &ClientError{Type: ErrTypeBadProvider, Message: "proxying requires the local provider"}
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.opts.Endpoint, "/")+path, bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "build request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "read response", Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ClientError{
			Type:    ErrTypeConnection,
			Message: fmt.Sprintf("local LLM server returned status %d: %s", resp.StatusCode, truncateBody(out)),
		}
	}
	return out, nil
}
