// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package nav

// =============================================================================
// EXIT-CONFIRMATION GATE
// =============================================================================

// GateState is the exit-confirmation dialog state.
type GateState int

const (
	// GateHidden is the initial and terminal-safe state.
	GateHidden GateState = iota

	// GateVisible means the confirmation dialog is showing; the next back
	// gesture with an empty registry terminates the session.
	GateVisible
)

// String returns the state name for diagnostics.
func (s GateState) String() string {
	if s == GateVisible {
		return "visible"
	}
	return "hidden"
}

// ExitGate is the two-phase gate between a back gesture and session
// termination. It is never visible while overlays remain open; the
// Coordinator enforces that ordering.
type ExitGate struct {
	state    GateState
	hist     History
	onChange func(GateState)
}

// NewExitGate creates a hidden gate over the given history.
func NewExitGate(hist History) *ExitGate {
	return &ExitGate{hist: hist}
}

// OnChange sets the observer notified after each Show/Cancel transition.
// The UI uses it to mount and unmount the confirmation dialog.
// Like the coordinator, a nil gate is inert.
func (g *ExitGate) OnChange(fn func(GateState)) {
	if g == nil {
		return
	}
	g.onChange = fn
}

// State returns the current gate state.
func (g *ExitGate) State() GateState {
	if g == nil {
		return GateHidden
	}
	return g.state
}

// Show transitions Hidden to Visible and appends the sentinel entry that
// the confirming back gesture will consume. No-op if already visible.
func (g *ExitGate) Show() {
	if g == nil || g.state == GateVisible {
		return
	}
	g.state = GateVisible
	g.hist.Append(SentinelExit)
	g.notify()
}

// Cancel transitions Visible to Hidden. It appends a plain entry so the
// stale sentinel is shadowed and the next back gesture does not land on it.
// No-op if already hidden.
func (g *ExitGate) Cancel() {
	if g == nil || g.state == GateHidden {
		return
	}
	g.state = GateHidden
	g.hist.Append(MarkerNone)
	g.notify()
}

// Confirm terminates the session. Effectively a terminal transition; the
// gate state is left visible for whatever instants the process has left.
// No-op if the gate is hidden.
func (g *ExitGate) Confirm() {
	if g == nil || g.state == GateHidden {
		return
	}
	g.hist.Terminate()
}

func (g *ExitGate) notify() {
	if g.onChange != nil {
		g.onChange(g.state)
	}
}
