// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package nav

// =============================================================================
// SCOPED REGISTRATION
// =============================================================================

// Scope couples an overlay's registration to its visible lifetime. It is
// the component-facing surface of the coordinator: while open, the overlay
// is registered exactly once; when it closes or its owner is torn down, it
// is unregistered exactly once, on every exit path.
//
// Built over a nil coordinator the scope is inert, so components work
// unchanged in environments that have no back signal.
type Scope struct {
	coord    *Coordinator
	id       string
	priority int
	onClose  func()

	open   bool
	closed bool
}

// NewScope creates a scope for one overlay. onClose is invoked when a back
// gesture closes the overlay; the owning component should flip its own
// visibility there and call SetOpen(false) on the next pass, which is a
// no-op by then.
func NewScope(coord *Coordinator, id string, priority int, onClose func()) *Scope {
	return &Scope{coord: coord, id: id, priority: priority, onClose: onClose}
}

// SetOpen tracks the overlay's visibility. The open flag guards repeated
// calls within one visible lifetime, so re-render churn cannot register
// twice or push duplicate history entries.
func (s *Scope) SetOpen(open bool) {
	if s == nil || s.closed || open == s.open {
		return
	}
	s.open = open
	if open {
		s.coord.Register(s.id, s.dispatchClose, s.priority)
		return
	}
	s.coord.Unregister(s.id)
}

// Close releases the scope unconditionally. Safe to call multiple times
// and from deferred teardown; after Close the scope stays inert.
func (s *Scope) Close() {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	if s.open {
		s.open = false
		s.coord.Unregister(s.id)
	}
}

// IsOpen reports whether the overlay is currently registered via this
// scope.
func (s *Scope) IsOpen() bool {
	return s != nil && s.open
}

// dispatchClose is the registry-held close capability. The registry has
// already removed the overlay when it runs, so only local state and the
// component callback remain.
func (s *Scope) dispatchClose() {
	s.open = false
	if s.onClose != nil {
		s.onClose()
	}
}
