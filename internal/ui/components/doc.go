// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the storyloom TUI.
//
// Overlay components (help, settings, project picker, export preview) each
// own a nav.Scope so the hardware back gesture and the Esc key dismiss them
// in stacking order. The exit dialog is different: it mirrors the nav
// package's exit gate instead of registering as an overlay, because it is
// the surface the back gesture falls through to when nothing else is open.
package components
