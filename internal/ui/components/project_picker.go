// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/storyloom/internal/nav"
	"github.com/jeranaias/storyloom/internal/project"
	"github.com/jeranaias/storyloom/internal/ui/styles"
	"github.com/jeranaias/storyloom/internal/util"
)

// =============================================================================
// PROJECT PICKER
// =============================================================================

const pickerPriority = 15

// ProjectChosenMsg signals a project was selected from the picker.
type ProjectChosenMsg struct {
	ID string
}

// PickerQueryMsg asks the app to re-run the search with a new query.
type PickerQueryMsg struct {
	Query string
}

// ProjectPicker lists stored projects with incremental title search.
type ProjectPicker struct {
	scope *nav.Scope
	theme *styles.Theme

	filter  textinput.Model
	items   []project.Meta
	cursor  int
	visible bool
	width   int
	height  int
}

// NewProjectPicker creates the picker and binds its lifetime to coord.
func NewProjectPicker(coord *nav.Coordinator, theme *styles.Theme) *ProjectPicker {
	ti := textinput.New()
	ti.Placeholder = "search projects"
	ti.CharLimit = 80

	p := &ProjectPicker{theme: theme, filter: ti}
	p.scope = nav.NewScope(coord, "project-picker", pickerPriority, func() {
		p.visible = false
	})
	return p
}

// SetSize sets the picker's centering area.
func (p *ProjectPicker) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Show opens the picker over the given project list.
func (p *ProjectPicker) Show(items []project.Meta) {
	p.items = items
	p.cursor = 0
	p.filter.SetValue("")
	p.filter.Focus()
	p.visible = true
	p.scope.SetOpen(true)
}

// SetItems replaces the listing, clamping the cursor.
func (p *ProjectPicker) SetItems(items []project.Meta) {
	p.items = items
	if p.cursor >= len(items) {
		p.cursor = len(items) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// Hide dismisses the picker.
func (p *ProjectPicker) Hide() {
	p.visible = false
	p.filter.Blur()
	p.scope.SetOpen(false)
}

// IsVisible reports whether the picker is currently shown.
func (p *ProjectPicker) IsVisible() bool {
	return p.visible
}

// Close releases the picker's back-navigation registration for good.
func (p *ProjectPicker) Close() {
	p.scope.Close()
}

// Update handles key presses while the picker is visible.
func (p *ProjectPicker) Update(msg tea.Msg) tea.Cmd {
	if !p.visible {
		return nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	// Esc (the back chord) is routed through the history adapter by the
	// app; the coordinator closes the picker from there.
	switch key.String() {
	case "up", "ctrl+p":
		if p.cursor > 0 {
			p.cursor--
		}
		return nil
	case "down", "ctrl+n":
		if p.cursor < len(p.items)-1 {
			p.cursor++
		}
		return nil
	case "enter":
		if p.cursor < len(p.items) {
			id := p.items[p.cursor].ID
			p.Hide()
			return func() tea.Msg { return ProjectChosenMsg{ID: id} }
		}
		return nil
	}

	// Everything else edits the filter and triggers a fresh search.
	before := p.filter.Value()
	var cmd tea.Cmd
	p.filter, cmd = p.filter.Update(msg)
	if q := p.filter.Value(); q != before {
		query := q
		return tea.Batch(cmd, func() tea.Msg { return PickerQueryMsg{Query: query} })
	}
	return cmd
}

// View renders the picker.
func (p *ProjectPicker) View() string {
	if !p.visible {
		return ""
	}

	var rows []string
	rows = append(rows, p.theme.OverlayTitle.Render("Open Project"), "")
	rows = append(rows, p.filter.View(), "")

	if len(p.items) == 0 {
		rows = append(rows, p.theme.OverlayHint.Render("no projects found"))
	}
	for i, m := range p.items {
		line := fmt.Sprintf("%s  %s",
			util.PadRight(m.Title, 32),
			p.theme.WordCount.Render(fmt.Sprintf("%d chapters, %s",
				m.ChapterCount, m.UpdatedAt.Format("2006-01-02"))))
		if i == p.cursor {
			line = p.theme.SelectedItem.Render("> ") + line
		} else {
			line = "  " + line
		}
		rows = append(rows, line)
	}
	rows = append(rows, "", p.theme.OverlayHint.Render("enter to open, esc to close"))

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
