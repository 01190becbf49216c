// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package nav

import "testing"

// newTestCoordinator wires a coordinator over a real in-process history
// with a recording shell, mirroring the production wiring.
func newTestCoordinator() (*Coordinator, *EntryHistory, *recordingShell) {
	sh := &recordingShell{}
	h := NewEntryHistory(sh)
	return NewCoordinator(h), h, sh
}

// =============================================================================
// PRECEDENCE INVARIANT
// =============================================================================

func TestBackClosesOverlayNotExitGate(t *testing.T) {
	c, h, sh := newTestCoordinator()

	closed := 0
	c.Register("settings", func() { closed++ }, 0)

	h.Back()

	if closed != 1 {
		t.Errorf("onClose ran %d times, want 1", closed)
	}
	if c.OverlayCount() != 0 {
		t.Errorf("OverlayCount = %d, want 0", c.OverlayCount())
	}
	if c.Gate().State() != GateHidden {
		t.Error("gate must stay hidden while an overlay consumes the gesture")
	}
	if sh.exits != 0 {
		t.Error("terminate primitive reached with an overlay open")
	}
}

// =============================================================================
// EXIT-GATE INVARIANT AND SCENARIOS
// =============================================================================

func TestBackOnEmptyRegistryShowsGate(t *testing.T) {
	c, h, _ := newTestCoordinator()

	h.Back()

	if c.Gate().State() != GateVisible {
		t.Fatal("gate should be visible after back with empty registry")
	}
	// Exactly one sentinel entry was appended for the visible dialog.
	if h.Len() != 1 {
		t.Errorf("history Len = %d, want 1 sentinel entry", h.Len())
	}
}

func TestSecondBackTerminatesOnce(t *testing.T) {
	c, h, sh := newTestCoordinator()

	h.Back() // gate shown
	h.Back() // gate confirmed

	if sh.exits != 1 {
		t.Errorf("terminate invoked %d times, want 1", sh.exits)
	}
	if c.Gate().State() != GateVisible {
		t.Error("confirm is terminal; gate does not reset")
	}
}

func TestCancelReturnsToHiddenThenReshow(t *testing.T) {
	c, h, sh := newTestCoordinator()

	h.Back()
	c.Gate().Cancel()

	if c.Gate().State() != GateHidden {
		t.Fatal("gate should be hidden after cancel")
	}

	// The cancel entry shadows the stale sentinel: the next back shows the
	// gate again instead of terminating.
	h.Back()
	if c.Gate().State() != GateVisible {
		t.Error("back after cancel should re-show the gate")
	}
	if sh.exits != 0 {
		t.Error("back after cancel must not terminate")
	}
}

func TestNestedOverlaysCloseBeforeGate(t *testing.T) {
	c, h, sh := newTestCoordinator()

	var order []string
	c.Register("panel", func() { order = append(order, "panel") }, 0)
	c.Register("modal", func() { order = append(order, "modal") }, 10)

	h.Back()
	h.Back()

	if len(order) != 2 || order[0] != "modal" || order[1] != "panel" {
		t.Fatalf("close order = %v, want [modal panel]", order)
	}
	if c.Gate().State() != GateHidden {
		t.Fatal("gate consulted before the registry drained")
	}

	h.Back()
	if c.Gate().State() != GateVisible {
		t.Error("third back should show the gate")
	}
	if sh.exits != 0 {
		t.Error("no terminate before confirmation")
	}
}

// =============================================================================
// TAG-MATCH PREFERENCE
// =============================================================================

func TestMarkerNamesSpecificOverlay(t *testing.T) {
	c, h, _ := newTestCoordinator()

	var order []string
	// The high-priority overlay registered first: the gesture's marker
	// names the low-priority one and must win over the priority heuristic.
	c.Register("modal", func() { order = append(order, "modal") }, 5)
	c.Register("panel", func() { order = append(order, "panel") }, 1)

	h.Back() // consumes the "panel" entry

	if len(order) != 1 || order[0] != "panel" {
		t.Fatalf("closed %v, want [panel]", order)
	}
	if !c.reg.Has("modal") {
		t.Error("modal should remain registered")
	}
}

func TestUnmatchedMarkerFallsBackToTopmost(t *testing.T) {
	c, h, _ := newTestCoordinator()

	var order []string
	c.Register("panel", func() { order = append(order, "panel") }, 0)
	c.Register("modal", func() { order = append(order, "modal") }, 10)

	// Programmatic close of modal: its entry dangles.
	c.Unregister("modal")

	// The gesture consumes modal's dangling entry; the marker matches no
	// registered overlay, so the topmost remaining one closes instead.
	h.Back()

	if len(order) != 1 || order[0] != "panel" {
		t.Errorf("closed %v, want [panel]", order)
	}
}

// =============================================================================
// IDEMPOTENT REGISTRATION
// =============================================================================

func TestReRegisterAppendsNoSecondEntry(t *testing.T) {
	c, h, _ := newTestCoordinator()

	c.Register("help", nil, 0)
	c.Register("help", nil, 0)

	if h.Len() != 1 {
		t.Errorf("history Len = %d after double register, want 1", h.Len())
	}
	if c.OverlayCount() != 1 {
		t.Errorf("OverlayCount = %d, want 1", c.OverlayCount())
	}
}

func TestEntryCountTracksRegistrySize(t *testing.T) {
	c, h, _ := newTestCoordinator()

	c.Register("a", nil, 0)
	c.Register("b", nil, 0)
	c.Register("b", nil, 2)
	c.Register("c", nil, 0)

	if h.Len() != c.OverlayCount() {
		t.Errorf("entries %d != registry size %d", h.Len(), c.OverlayCount())
	}
}

// =============================================================================
// GATE / REGISTRY EXCLUSION
// =============================================================================

func TestRegisteringOverVisibleGateCancelsIt(t *testing.T) {
	c, h, _ := newTestCoordinator()

	h.Back() // gate shown
	c.Register("modal", nil, 10)

	if c.Gate().State() != GateHidden {
		t.Error("gate must never be visible with a non-empty registry")
	}

	// The next back closes the overlay, not the gate.
	h.Back()
	if c.OverlayCount() != 0 || c.Gate().State() != GateHidden {
		t.Error("overlay closure should fully consume the gesture")
	}
}

// =============================================================================
// INERT NIL COORDINATOR
// =============================================================================

func TestNilCoordinatorIsInert(t *testing.T) {
	var c *Coordinator

	c.Register("help", nil, 0)
	c.Unregister("help")
	c.Gate().Show()
	c.Gate().Cancel()
	c.Gate().Confirm()

	if c.OverlayCount() != 0 {
		t.Error("nil coordinator reported overlays")
	}
	if c.Gate().State() != GateHidden {
		t.Error("nil gate should report hidden")
	}
}
