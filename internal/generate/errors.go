// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package generate provides AI content generation for storyloom, routing
// prompts to a hosted provider (OpenAI, Anthropic) or a local LLM server.
package generate

import "errors"

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeNotRunning
	ErrTypeTimeout
	ErrTypeConnection
	ErrTypeBadProvider
	ErrTypeUnauthorized
	ErrTypeInvalidResponse
	ErrTypeRateLimited
)

// ClientError represents an error from a generation client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Sentinel errors for easy checking.
var (
	ErrNotRunning   = &ClientError{Type: ErrTypeNotRunning, Message: "local LLM server is not running"}
	ErrTimeout      = &ClientError{Type: ErrTypeTimeout, Message: "generation request timed out"}
	ErrBadProvider  = &ClientError{Type: ErrTypeBadProvider, Message: "unsupported AI provider"}
	ErrUnauthorized = &ClientError{Type: ErrTypeUnauthorized, Message: "provider rejected the API key"}
	ErrRateLimited  = &ClientError{Type: ErrTypeRateLimited, Message: "provider rate limit exceeded"}
)

// IsNotRunning reports whether err indicates the local server is down.
func IsNotRunning(err error) bool {
	return hasType(err, ErrTypeNotRunning)
}

// IsTimeout reports whether err indicates a timed-out request.
func IsTimeout(err error) bool {
	return hasType(err, ErrTypeTimeout)
}

// IsUnauthorized reports whether err indicates a rejected API key.
func IsUnauthorized(err error) bool {
	return hasType(err, ErrTypeUnauthorized)
}

func hasType(err error, t ErrorType) bool {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type == t
	}
	return false
}
