// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package nav

// =============================================================================
// OVERLAY REGISTRY
// =============================================================================

// Overlay is one open transient UI surface as the registry sees it.
type Overlay struct {
	// ID is the caller-supplied unique identifier.
	ID string

	// OnClose is the close capability lent by the owning component.
	// Invoked at most once per back-triggered closure.
	OnClose func()

	// Priority orders overlays for closing; higher closes first.
	Priority int

	// seq breaks priority ties: most recently registered wins. Assigned on
	// first insertion and kept across in-place updates.
	seq uint64
}

// Registry holds the set of currently open overlays, the logical stack.
// Storage is unordered; the closing order is (priority desc, seq desc).
// Mutation goes through the Coordinator; the registry itself never touches
// history.
type Registry struct {
	overlays map[string]*Overlay
	nextSeq  uint64
}

// NewRegistry creates an empty overlay registry.
func NewRegistry() *Registry {
	return &Registry{overlays: make(map[string]*Overlay)}
}

// Register inserts the overlay, or updates OnClose and Priority in place
// if the id is already present. Idempotent under re-render churn: an
// update keeps the original registration order and has no other effect.
func (r *Registry) Register(id string, onClose func(), priority int) {
	if o, ok := r.overlays[id]; ok {
		o.OnClose = onClose
		o.Priority = priority
		return
	}
	r.nextSeq++
	r.overlays[id] = &Overlay{
		ID:       id,
		OnClose:  onClose,
		Priority: priority,
		seq:      r.nextSeq,
	}
}

// Unregister removes the overlay if present, no-op otherwise. The
// corresponding history entry is left untouched; only a back gesture
// consumes entries.
func (r *Registry) Unregister(id string) {
	delete(r.overlays, id)
}

// Has reports whether the id is currently registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.overlays[id]
	return ok
}

// Size returns the current overlay count.
func (r *Registry) Size() int {
	return len(r.overlays)
}

// CloseTopmost removes the overlay that wins the closing order and invokes
// its OnClose. Returns the removed id, or false if the registry was empty.
func (r *Registry) CloseTopmost() (string, bool) {
	var top *Overlay
	for _, o := range r.overlays {
		if top == nil || o.Priority > top.Priority ||
			(o.Priority == top.Priority && o.seq > top.seq) {
			top = o
		}
	}
	if top == nil {
		return "", false
	}
	delete(r.overlays, top.ID)
	if top.OnClose != nil {
		top.OnClose()
	}
	return top.ID, true
}

// CloseByID removes and closes the named overlay if present. Preferred
// over CloseTopmost when the back gesture's marker names an overlay
// directly, since nested overlays may have registered in non-priority
// order.
func (r *Registry) CloseByID(id string) bool {
	o, ok := r.overlays[id]
	if !ok {
		return false
	}
	delete(r.overlays, id)
	if o.OnClose != nil {
		o.OnClose()
	}
	return true
}
