// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides string helpers shared across the application.
package util

import (
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
)

// TruncateRunes truncates a string to a maximum number of runes. Safe for
// UTF-8: it counts characters, not bytes. Truncated strings get "...".
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

// TruncateWidth truncates a string to a maximum display width in terminal
// cells, which differs from the rune count for CJK and emoji.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// PadRight pads a string with spaces to an exact display width.
func PadRight(s string, width int) string {
	return runewidth.FillRight(TruncateWidth(s, width), width)
}

// FoldForSearch normalizes text for caseless matching, so search treats
// "Straße", "STRASSE" and "strasse" alike.
func FoldForSearch(s string) string {
	return cases.Fold().String(s)
}
