// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import "testing"

func TestTruncateRunes(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"héllo wörld", 8, "héllo..."},
		{"ab", 1, "a"},
		{"anything", 0, ""},
	}
	for _, tc := range cases {
		if got := TruncateRunes(tc.in, tc.max); got != tc.want {
			t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}

func TestTruncateWidthHandlesWideRunes(t *testing.T) {
	// Each CJK rune is two cells wide.
	if got := TruncateWidth("物語を書く", 6); got != "物..." {
		t.Errorf("TruncateWidth = %q", got)
	}
	if got := TruncateWidth("plain", 10); got != "plain" {
		t.Errorf("TruncateWidth = %q, want unchanged", got)
	}
}

func TestFoldForSearch(t *testing.T) {
	if FoldForSearch("DRAGON") != FoldForSearch("dragon") {
		t.Error("simple case fold failed")
	}
	if FoldForSearch("Straße") != FoldForSearch("STRASSE") {
		t.Error("full case fold failed")
	}
}
