// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/storyloom/internal/nav"
	"github.com/jeranaias/storyloom/internal/ui/styles"
)

// =============================================================================
// HELP OVERLAY
// =============================================================================

// helpPriority stacks help above every other overlay, so a back gesture
// dismisses it first even when it was opened from inside another panel.
const helpPriority = 10

// HelpOverlay shows the keybinding reference.
type HelpOverlay struct {
	scope *nav.Scope
	theme *styles.Theme

	visible bool
	width   int
	height  int
}

// NewHelpOverlay creates the overlay and binds its lifetime to coord.
func NewHelpOverlay(coord *nav.Coordinator, theme *styles.Theme) *HelpOverlay {
	o := &HelpOverlay{theme: theme}
	o.scope = nav.NewScope(coord, "help", helpPriority, func() {
		o.visible = false
	})
	return o
}

// SetSize sets the overlay's centering area.
func (o *HelpOverlay) SetSize(width, height int) {
	o.width = width
	o.height = height
}

// Show displays the overlay.
func (o *HelpOverlay) Show() {
	o.visible = true
	o.scope.SetOpen(true)
}

// Hide dismisses the overlay.
func (o *HelpOverlay) Hide() {
	o.visible = false
	o.scope.SetOpen(false)
}

// IsVisible reports whether the overlay is currently shown.
func (o *HelpOverlay) IsVisible() bool {
	return o.visible
}

// Close releases the overlay's back-navigation registration for good.
func (o *HelpOverlay) Close() {
	o.scope.Close()
}

// Update handles key presses while the overlay is visible.
func (o *HelpOverlay) Update(msg tea.Msg) tea.Cmd {
	if !o.visible {
		return nil
	}
	// Esc is the back chord and is routed through the history adapter by
	// the app; only the direct dismiss keys are handled here.
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "?":
			o.Hide()
		}
	}
	return nil
}

var helpBindings = []struct {
	key  string
	desc string
}{
	{"ctrl+n", "new project"},
	{"ctrl+o", "open project"},
	{"ctrl+s", "save project"},
	{"ctrl+g", "generate prose at cursor"},
	{"ctrl+e", "export preview"},
	{"ctrl+t", "new chapter"},
	{"ctrl+left/right", "previous / next chapter"},
	{"f2", "settings"},
	{"?", "toggle this help"},
	{"esc", "back / close topmost panel"},
	{"ctrl+q", "quit"},
}

// View renders the keybinding reference.
func (o *HelpOverlay) View() string {
	if !o.visible {
		return ""
	}

	var rows []string
	rows = append(rows, o.theme.OverlayTitle.Render("Keybindings"), "")
	keyStyle := lipgloss.NewStyle().Foreground(styles.Cyan).Width(10)
	for _, b := range helpBindings {
		rows = append(rows, keyStyle.Render(b.key)+"  "+b.desc)
	}
	rows = append(rows, "", o.theme.OverlayHint.Render("esc to close"))

	box := o.theme.OverlayBox.Render(strings.Join(rows, "\n"))

	width, height := o.width, o.height
	if width == 0 {
		width = 60
	}
	if height == 0 {
		height = 24
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
