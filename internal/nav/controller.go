// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package nav

// =============================================================================
// BACK-NAVIGATION COORDINATOR
// =============================================================================

// Coordinator is the single subscriber to the history adapter's back
// notification. It owns the overlay registry and the exit gate for the
// lifetime of the session and decides, per gesture, whether to close an
// overlay, show the exit gate, or terminate.
//
// A nil *Coordinator is fully inert: every method degrades to a no-op so
// environments without a back signal need no special casing.
type Coordinator struct {
	hist History
	reg  *Registry
	gate *ExitGate
}

// NewCoordinator wires a coordinator onto the given history, installing
// itself as the back subscriber.
func NewCoordinator(hist History) *Coordinator {
	c := &Coordinator{
		hist: hist,
		reg:  NewRegistry(),
		gate: NewExitGate(hist),
	}
	hist.OnBack(c.handleBack)
	return c
}

// Register opens an overlay: its tagged history entry is appended first,
// then the registry insertion, so back-able entries never trail the
// registry size. Re-registering a present id updates it in place without
// a second history append.
func (c *Coordinator) Register(id string, onClose func(), priority int) {
	if c == nil || id == "" {
		return
	}
	// The gate is never visible while overlays are open. An overlay that
	// opens over the confirmation dialog dismisses it.
	c.gate.Cancel()
	if !c.reg.Has(id) {
		c.hist.Append(Marker(id))
	}
	c.reg.Register(id, onClose, priority)
}

// Unregister removes the overlay if present. Its history entry stays; see
// the package comment for the consequence.
func (c *Coordinator) Unregister(id string) {
	if c == nil {
		return
	}
	c.reg.Unregister(id)
}

// OverlayCount returns the number of currently open overlays.
func (c *Coordinator) OverlayCount() int {
	if c == nil {
		return 0
	}
	return c.reg.Size()
}

// Gate exposes the exit gate for the confirmation dialog's two user
// actions (cancel, confirm) and for state observation.
func (c *Coordinator) Gate() *ExitGate {
	if c == nil {
		return nil
	}
	return c.gate
}

// handleBack arbitrates one back gesture. Overlays always take precedence
// over the exit gate: a user can never quit by accident while a modal is
// open. An overlay closure fully consumes the gesture.
func (c *Coordinator) handleBack(consumed Marker) {
	if c.reg.Size() > 0 {
		if consumed != MarkerNone && consumed != SentinelExit {
			if c.reg.CloseByID(string(consumed)) {
				return
			}
		}
		c.reg.CloseTopmost()
		return
	}
	if c.gate.State() == GateHidden {
		c.gate.Show()
		return
	}
	c.gate.Confirm()
}
