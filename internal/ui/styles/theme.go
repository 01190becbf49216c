// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// THEME
// =============================================================================

// Theme holds every configured style plus the detected terminal capabilities.
type Theme struct {
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout
	App       lipgloss.Style
	Header    lipgloss.Style
	StatusBar lipgloss.Style

	// Editor
	ChapterTitle lipgloss.Style
	Prose        lipgloss.Style
	Generated    lipgloss.Style
	WordCount    lipgloss.Style

	// Overlays
	OverlayBox    lipgloss.Style
	OverlayTitle  lipgloss.Style
	DangerBox     lipgloss.Style
	DangerTitle   lipgloss.Style
	OverlayHint   lipgloss.Style
	SelectedItem  lipgloss.Style
	ListItem      lipgloss.Style
	SettingsLabel lipgloss.Style
	SettingsValue lipgloss.Style

	// Status
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
}

// NewTheme creates a theme with all styles configured for the current
// terminal.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()

	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 2)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.ChapterTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.Prose = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.Generated = lipgloss.NewStyle().
		Foreground(Purple).
		Italic(true)

	t.WordCount = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.OverlayBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 3)

	t.OverlayTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.DangerBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Rose).
		Padding(1, 3)

	t.DangerTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose)

	t.OverlayHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.SelectedItem = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Purple).
		Bold(true)

	t.ListItem = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.SettingsLabel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Width(18)

	t.SettingsValue = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.SuccessStyle = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	t.ErrorStyle = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.WarningStyle = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	t.InfoStyle = lipgloss.NewStyle().Foreground(Cyan)
}
