// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package nav

// =============================================================================
// MARKERS
// =============================================================================

// Marker is the opaque tag attached to a history entry when it is created.
// It is either an overlay id, the exit sentinel, or MarkerNone.
type Marker string

const (
	// MarkerNone is the absent marker carried by untagged baseline entries.
	MarkerNone Marker = ""

	// SentinelExit is the reserved marker identifying the exit-confirmation
	// dialog's own history entry. Overlay ids must never collide with it.
	SentinelExit Marker = "\x00storyloom:exit"
)

// =============================================================================
// HISTORY ADAPTER
// =============================================================================

// History is the thin abstraction over the host shell's navigation
// primitives: an append-only sequence of tagged entries, a one-shot back
// notification per gesture, and a best-effort terminate.
type History interface {
	// Append adds one entry carrying the given marker. Side effect only;
	// host-level failures are swallowed, there is no recovery path.
	Append(m Marker)

	// OnBack subscribes the handler invoked exactly once per back gesture,
	// carrying the marker of the entry the gesture consumed. This design
	// supports a single subscriber; a later call replaces the earlier one.
	OnBack(handler func(consumed Marker))

	// Terminate ends the session, best effort. It is fire-and-forget: the
	// host environment may refuse to close itself and no error surfaces.
	Terminate()
}

// Shell is the primitive set a host environment provides for termination.
// Each method may fail; EntryHistory degrades through them in order.
type Shell interface {
	// Exit invokes the direct termination primitive.
	Exit() error

	// RewindToOrigin rewinds the history sequence to its first entry.
	RewindToOrigin() error

	// Close is the last-resort generic window-close primitive.
	Close() error
}

// EntryHistory is the in-process History implementation. The host shell
// calls Back once per physical back gesture; everything else is driven by
// the coordinator. Not safe for concurrent use: the host event loop
// serializes all calls.
type EntryHistory struct {
	entries []Marker
	handler func(Marker)
	shell   Shell
}

// NewEntryHistory creates a history bound to the given shell primitives.
// A nil shell leaves Terminate with only the generic process fallback.
func NewEntryHistory(shell Shell) *EntryHistory {
	if shell == nil {
		shell = ProcessShell{}
	}
	return &EntryHistory{shell: shell}
}

// Append adds one tagged entry to the sequence.
func (h *EntryHistory) Append(m Marker) {
	h.entries = append(h.entries, m)
}

// OnBack sets the single back subscriber.
func (h *EntryHistory) OnBack(handler func(Marker)) {
	h.handler = handler
}

// Back delivers one back gesture: the newest entry is consumed and its
// marker handed to the subscriber. At the origin (no entries left) the
// subscriber still runs, with MarkerNone, so the gesture is never lost.
func (h *EntryHistory) Back() {
	m := MarkerNone
	if n := len(h.entries); n > 0 {
		m = h.entries[n-1]
		h.entries = h.entries[:n-1]
	}
	if h.handler != nil {
		h.handler(m)
	}
}

// Len returns the number of entries above the origin.
func (h *EntryHistory) Len() int {
	return len(h.entries)
}

// Terminate works through the shell's termination primitives: direct exit,
// then rewind-to-origin, then generic close. All failures are swallowed.
func (h *EntryHistory) Terminate() {
	if h.shell.Exit() == nil {
		return
	}
	if h.rewindToOrigin() == nil {
		return
	}
	_ = h.shell.Close()
}

func (h *EntryHistory) rewindToOrigin() error {
	if err := h.shell.RewindToOrigin(); err != nil {
		return err
	}
	h.entries = h.entries[:0]
	return nil
}
