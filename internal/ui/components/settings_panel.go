// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/storyloom/internal/config"
	"github.com/jeranaias/storyloom/internal/nav"
	"github.com/jeranaias/storyloom/internal/ui/styles"
)

// =============================================================================
// SETTINGS PANEL
// =============================================================================

// settingsPriority sits below help, so "? inside settings" then back
// dismisses the help first.
const settingsPriority = 5

// SettingsSavedMsg signals the edited config should be persisted.
type SettingsSavedMsg struct {
	Config *config.Config
}

// SettingsPanel edits the generation and UI settings in place.
type SettingsPanel struct {
	scope *nav.Scope
	theme *styles.Theme

	cfg     *config.Config
	cursor  int
	visible bool
	width   int
	height  int
}

var settingsFields = []string{
	"Provider",
	"Model",
	"Temperature",
	"Theme",
	"Confirm on exit",
	"Word wrap",
}

// NewSettingsPanel creates the panel and binds its lifetime to coord.
func NewSettingsPanel(coord *nav.Coordinator, theme *styles.Theme) *SettingsPanel {
	p := &SettingsPanel{theme: theme}
	p.scope = nav.NewScope(coord, "settings", settingsPriority, func() {
		p.visible = false
	})
	return p
}

// SetSize sets the panel's centering area.
func (p *SettingsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Show opens the panel over a copy of cfg; edits stay local until saved.
func (p *SettingsPanel) Show(cfg config.Config) {
	p.cfg = &cfg
	p.cursor = 0
	p.visible = true
	p.scope.SetOpen(true)
}

// Hide dismisses the panel, discarding unsaved edits.
func (p *SettingsPanel) Hide() {
	p.visible = false
	p.scope.SetOpen(false)
}

// IsVisible reports whether the panel is currently shown.
func (p *SettingsPanel) IsVisible() bool {
	return p.visible
}

// Close releases the panel's back-navigation registration for good.
func (p *SettingsPanel) Close() {
	p.scope.Close()
}

// Update handles key presses while the panel is visible.
func (p *SettingsPanel) Update(msg tea.Msg) tea.Cmd {
	if !p.visible || p.cfg == nil {
		return nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	// Esc (the back chord) is routed through the history adapter by the
	// app; the coordinator closes the panel from there.
	switch key.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(settingsFields)-1 {
			p.cursor++
		}
	case "left", "h":
		p.cycle(-1)
	case "right", "l", " ":
		p.cycle(1)
	case "enter", "ctrl+s":
		cfg := *p.cfg
		p.Hide()
		return func() tea.Msg { return SettingsSavedMsg{Config: &cfg} }
	}
	return nil
}

// cycle steps the selected field through its allowed values.
func (p *SettingsPanel) cycle(dir int) {
	switch settingsFields[p.cursor] {
	case "Provider":
		p.cfg.Generation.Provider = cycleString(p.cfg.Generation.Provider,
			[]string{"local", "openai", "anthropic"}, dir)
	case "Temperature":
		t := math.Round((p.cfg.Generation.Temperature+0.1*float64(dir))*10) / 10
		if t >= 0 && t <= 2 {
			p.cfg.Generation.Temperature = t
		}
	case "Theme":
		p.cfg.UI.Theme = cycleString(p.cfg.UI.Theme,
			[]string{"auto", "dark", "light"}, dir)
	case "Confirm on exit":
		p.cfg.UI.ConfirmOnExit = !p.cfg.UI.ConfirmOnExit
	case "Word wrap":
		// Wrap column in steps of ten; zero means terminal width.
		w := p.cfg.UI.WordWrap + 10*dir
		if w >= 0 && w <= 200 {
			p.cfg.UI.WordWrap = w
		}
	}
	// Model is free text, edited in the config file directly.
}

func cycleString(current string, values []string, dir int) string {
	for i, v := range values {
		if v == current {
			return values[(i+dir+len(values))%len(values)]
		}
	}
	return values[0]
}

// View renders the settings panel.
func (p *SettingsPanel) View() string {
	if !p.visible || p.cfg == nil {
		return ""
	}

	values := []string{
		p.cfg.Generation.Provider,
		p.cfg.Generation.Model,
		fmt.Sprintf("%.1f", p.cfg.Generation.Temperature),
		p.cfg.UI.Theme,
		onOff(p.cfg.UI.ConfirmOnExit),
		wrapLabel(p.cfg.UI.WordWrap),
	}

	var rows []string
	rows = append(rows, p.theme.OverlayTitle.Render("Settings"), "")
	for i, field := range settingsFields {
		label := p.theme.SettingsLabel.Render(field)
		value := p.theme.SettingsValue.Render(values[i])
		line := label + " " + value
		if i == p.cursor {
			line = p.theme.SelectedItem.Render("> ") + line
		} else {
			line = "  " + line
		}
		rows = append(rows, line)
	}
	rows = append(rows, "", p.theme.OverlayHint.Render("arrows to change, enter to save, esc to discard"))

	box := p.theme.OverlayBox.Render(strings.Join(rows, "\n"))

	width, height := p.width, p.height
	if width == 0 {
		width = 70
	}
	if height == 0 {
		height = 24
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func wrapLabel(w int) string {
	if w == 0 {
		return "terminal width"
	}
	return fmt.Sprintf("%d columns", w)
}
