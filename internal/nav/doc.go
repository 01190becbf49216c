// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package nav coordinates hardware back navigation for storyloom.
//
// The host shell delivers a single "back" signal with no structure of its
// own. This package layers a logical overlay stack on top of a flat,
// append-only history of tagged entries, so that one back gesture closes
// the right transient overlay (help, settings, export preview, ...) and,
// only once no overlay remains, drives a two-phase exit confirmation.
//
// The moving parts:
//
//   - History: the append/notify/terminate primitives of the host shell.
//   - Registry: the set of currently open overlays, ordered for closing
//     by priority (descending) with most-recently-registered winning ties.
//   - ExitGate: the Hidden/Visible confirmation machine that must be
//     satisfied before the session may terminate from a back gesture.
//   - Coordinator: the single back subscriber that arbitrates between them.
//   - Scope: mount/unmount-coupled registration for overlay components.
//
// All operations run synchronously on the host event loop; back gestures
// are processed one at a time and never concurrently.
//
// Known asymmetry: Unregister removes an overlay from the registry but
// deliberately leaves its history entry in place. Only an actual back
// gesture consumes an entry, so an overlay closed programmatically while
// others remain open leaves an entry behind that a later gesture will
// consume without closing anything visible. Callers that close overlays
// by non-back means should expect one extra back press per such closure.
package nav
