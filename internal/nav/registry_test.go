// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package nav

import "testing"

// =============================================================================
// REGISTRATION TESTS
// =============================================================================

func TestRegisterAndSize(t *testing.T) {
	r := NewRegistry()
	if r.Size() != 0 {
		t.Fatalf("new registry Size = %d, want 0", r.Size())
	}

	r.Register("help", nil, 0)
	r.Register("settings", nil, 5)

	if r.Size() != 2 {
		t.Errorf("Size = %d, want 2", r.Size())
	}
	if !r.Has("help") || !r.Has("settings") {
		t.Error("registered ids not reported by Has")
	}
}

func TestRegisterUpdatesInPlace(t *testing.T) {
	r := NewRegistry()

	first := 0
	second := 0
	r.Register("help", func() { first++ }, 0)
	r.Register("help", func() { second++ }, 7)

	if r.Size() != 1 {
		t.Fatalf("Size = %d after re-register, want 1", r.Size())
	}

	id, ok := r.CloseTopmost()
	if !ok || id != "help" {
		t.Fatalf("CloseTopmost = %q, %v", id, ok)
	}
	if first != 0 || second != 1 {
		t.Errorf("callbacks ran first:%d second:%d, want 0/1 (update must replace OnClose)", first, second)
	}
}

func TestUnregisterAbsentIsNoop(t *testing.T) {
	r := NewRegistry()
	r.Unregister("ghost")
	if r.Size() != 0 {
		t.Errorf("Size = %d, want 0", r.Size())
	}
}

// =============================================================================
// CLOSING ORDER TESTS
// =============================================================================

func TestCloseTopmostPriorityOrder(t *testing.T) {
	r := NewRegistry()
	r.Register("panel", nil, 0)
	r.Register("modal", nil, 10)
	r.Register("toast", nil, 5)

	want := []string{"modal", "toast", "panel"}
	for i, w := range want {
		id, ok := r.CloseTopmost()
		if !ok || id != w {
			t.Fatalf("close %d = %q, %v, want %q", i, id, ok, w)
		}
	}
	if _, ok := r.CloseTopmost(); ok {
		t.Error("CloseTopmost on empty registry reported success")
	}
}

func TestCloseTopmostTieBreakMostRecent(t *testing.T) {
	r := NewRegistry()
	r.Register("older", nil, 3)
	r.Register("newer", nil, 3)

	if id, _ := r.CloseTopmost(); id != "newer" {
		t.Errorf("tie-break closed %q, want newer", id)
	}

	// An in-place update must not refresh registration order.
	r = NewRegistry()
	r.Register("older", nil, 3)
	r.Register("newer", nil, 3)
	r.Register("older", nil, 3)

	if id, _ := r.CloseTopmost(); id != "newer" {
		t.Errorf("tie-break after update closed %q, want newer", id)
	}
}

func TestCloseByID(t *testing.T) {
	r := NewRegistry()
	closed := false
	r.Register("panel", func() { closed = true }, 0)
	r.Register("modal", nil, 10)

	if !r.CloseByID("panel") {
		t.Fatal("CloseByID missed a registered overlay")
	}
	if !closed {
		t.Error("OnClose not invoked")
	}
	if r.Has("panel") || !r.Has("modal") {
		t.Error("wrong overlay removed")
	}
	if r.CloseByID("panel") {
		t.Error("CloseByID succeeded on an absent id")
	}
}

func TestOnCloseInvokedAtMostOnce(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.Register("help", func() { calls++ }, 0)

	r.CloseByID("help")
	r.CloseByID("help")
	r.CloseTopmost()

	if calls != 1 {
		t.Errorf("OnClose ran %d times, want 1", calls)
	}
}
