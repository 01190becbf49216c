// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/storyloom/internal/nav"
	"github.com/jeranaias/storyloom/internal/ui/styles"
)

// =============================================================================
// EXIT CONFIRMATION DIALOG
// =============================================================================

// ExitDialog renders the quit confirmation driven by the nav exit gate.
// It never registers as an overlay: visibility follows the gate's state,
// and key presses translate into gate transitions.
type ExitDialog struct {
	gate  *nav.ExitGate
	theme *styles.Theme

	width  int
	height int
}

// NewExitDialog creates a dialog bound to gate.
func NewExitDialog(gate *nav.ExitGate, theme *styles.Theme) *ExitDialog {
	return &ExitDialog{gate: gate, theme: theme}
}

// SetSize sets the dialog's centering area.
func (d *ExitDialog) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// IsVisible reports whether the dialog should be drawn.
func (d *ExitDialog) IsVisible() bool {
	return d.gate.State() == nav.GateVisible
}

// Update handles key presses while the dialog is visible.
func (d *ExitDialog) Update(msg tea.Msg) tea.Cmd {
	if !d.IsVisible() {
		return nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	// Esc is the back chord: while the gate is visible it confirms the
	// exit, so it is routed through the history adapter by the app rather
	// than handled here.
	switch key.String() {
	case "y", "Y", "enter":
		d.gate.Confirm()
	case "n", "N":
		d.gate.Cancel()
	}
	return nil
}

// View renders the dialog centered in the available area.
func (d *ExitDialog) View() string {
	if !d.IsVisible() {
		return ""
	}

	width := d.width
	if width == 0 {
		width = 60
	}
	height := d.height
	if height == 0 {
		height = 24
	}

	title := d.theme.DangerTitle.Render(styles.StatusIndicators.Warning + " Quit storyloom?")
	body := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Render("Unsaved chapters are written on exit.")
	hint := d.theme.OverlayHint.Render("y / enter / esc to quit, n to stay")

	content := lipgloss.JoinVertical(lipgloss.Center, title, "", body, "", hint)
	box := d.theme.DangerBox.Render(content)

	return lipgloss.Place(
		width, height,
		lipgloss.Center, lipgloss.Center,
		box,
		lipgloss.WithWhitespaceBackground(styles.SurfaceDim),
	)
}
