// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package nav

import (
	"errors"
	"testing"
)

// =============================================================================
// TEST SHELL
// =============================================================================

// recordingShell counts primitive invocations and fails on demand.
type recordingShell struct {
	exitErr   error
	rewindErr error
	closeErr  error

	exits   int
	rewinds int
	closes  int
}

func (s *recordingShell) Exit() error {
	s.exits++
	return s.exitErr
}

func (s *recordingShell) RewindToOrigin() error {
	s.rewinds++
	return s.rewindErr
}

func (s *recordingShell) Close() error {
	s.closes++
	return s.closeErr
}

// =============================================================================
// BACK DELIVERY TESTS
// =============================================================================

func TestBackDeliversConsumedMarker(t *testing.T) {
	h := NewEntryHistory(&recordingShell{})

	var got []Marker
	h.OnBack(func(m Marker) { got = append(got, m) })

	h.Append("panel")
	h.Append("modal")

	h.Back()
	h.Back()

	if len(got) != 2 || got[0] != "modal" || got[1] != "panel" {
		t.Fatalf("Back delivered %v, want [modal panel]", got)
	}
	if h.Len() != 0 {
		t.Errorf("Len = %d after consuming all entries, want 0", h.Len())
	}
}

func TestBackAtOriginDeliversNoMarker(t *testing.T) {
	h := NewEntryHistory(&recordingShell{})

	calls := 0
	h.OnBack(func(m Marker) {
		calls++
		if m != MarkerNone {
			t.Errorf("marker at origin = %q, want none", m)
		}
	})

	h.Back()
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
}

func TestBackWithoutSubscriberDoesNotPanic(t *testing.T) {
	h := NewEntryHistory(&recordingShell{})
	h.Append("a")
	h.Back() // no handler installed
}

// =============================================================================
// TERMINATE FALLBACK TESTS
// =============================================================================

func TestTerminateUsesDirectExitFirst(t *testing.T) {
	sh := &recordingShell{}
	h := NewEntryHistory(sh)

	h.Terminate()

	if sh.exits != 1 || sh.rewinds != 0 || sh.closes != 0 {
		t.Errorf("calls = exit:%d rewind:%d close:%d, want 1/0/0",
			sh.exits, sh.rewinds, sh.closes)
	}
}

func TestTerminateFallsBackToRewind(t *testing.T) {
	sh := &recordingShell{exitErr: errors.New("refused")}
	h := NewEntryHistory(sh)
	h.Append("a")
	h.Append("b")

	h.Terminate()

	if sh.exits != 1 || sh.rewinds != 1 || sh.closes != 0 {
		t.Errorf("calls = exit:%d rewind:%d close:%d, want 1/1/0",
			sh.exits, sh.rewinds, sh.closes)
	}
	if h.Len() != 0 {
		t.Errorf("Len = %d after rewind, want 0", h.Len())
	}
}

func TestTerminateFallsBackToClose(t *testing.T) {
	sh := &recordingShell{
		exitErr:   errors.New("refused"),
		rewindErr: errors.New("refused"),
		closeErr:  errors.New("refused"),
	}
	h := NewEntryHistory(sh)

	// Swallows every failure; must not panic or surface anything.
	h.Terminate()

	if sh.closes != 1 {
		t.Errorf("close calls = %d, want 1", sh.closes)
	}
}
