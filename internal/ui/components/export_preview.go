// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/storyloom/internal/export"
	"github.com/jeranaias/storyloom/internal/nav"
	"github.com/jeranaias/storyloom/internal/project"
	"github.com/jeranaias/storyloom/internal/ui/styles"
)

// =============================================================================
// EXPORT PREVIEW
// =============================================================================

// exportPreviewPriority stacks the preview above the picker and settings:
// it is always the most deliberate, most recently opened surface.
const exportPreviewPriority = 20

// ExportRequestedMsg signals the previewed project should be written to disk.
type ExportRequestedMsg struct {
	ProjectID string
	Format    string
}

// ExportPreview renders the Markdown rendition of a project in a scrollable
// viewport before it is written to disk.
type ExportPreview struct {
	scope *nav.Scope
	theme *styles.Theme

	vp        viewport.Model
	projectID string
	visible   bool
	renderErr error
	width     int
	height    int
	wrap      int

	// Rendered views, toggled with tab.
	markdownView string
	jsonView     string
	showingJSON  bool
}

// NewExportPreview creates the preview and binds its lifetime to coord.
func NewExportPreview(coord *nav.Coordinator, theme *styles.Theme) *ExportPreview {
	p := &ExportPreview{theme: theme, vp: viewport.New(72, 20)}
	p.scope = nav.NewScope(coord, "export-preview", exportPreviewPriority, func() {
		p.visible = false
	})
	return p
}

// SetSize sets the preview dimensions.
func (p *ExportPreview) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.vp.Width = min(width-8, 100)
	p.vp.Height = max(height-8, 5)
}

// SetWrap sets the rendering wrap column; zero uses the viewport width.
func (p *ExportPreview) SetWrap(wrap int) {
	p.wrap = wrap
}

// Show renders proj to Markdown and opens the preview. The JSON rendition
// is prepared alongside so tab can switch views without re-exporting.
func (p *ExportPreview) Show(proj *project.Project) {
	p.visible = true
	p.renderErr = nil
	p.projectID = ""
	p.showingJSON = false
	p.scope.SetOpen(true)

	raw, err := export.NewMarkdownExporter(nil).Export(proj)
	if err != nil {
		p.renderErr = err
		return
	}
	p.projectID = proj.ID

	wrap := p.wrap
	if wrap <= 0 {
		wrap = p.vp.Width
	}
	if wrap <= 0 {
		wrap = 72
	}
	p.markdownView = string(raw)
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err == nil {
		if out, rerr := renderer.Render(string(raw)); rerr == nil {
			p.markdownView = out
		}
	}
	p.jsonView = renderJSONView(proj)

	p.vp.SetContent(p.markdownView)
	p.vp.GotoTop()
}

// renderJSONView produces the syntax-highlighted JSON rendition, falling
// back to the plain document when highlighting fails.
func renderJSONView(proj *project.Project) string {
	raw, err := export.NewJSONExporter(nil).Export(proj)
	if err != nil {
		return ""
	}
	var hl strings.Builder
	if err := quick.Highlight(&hl, string(raw), "json", "terminal256", "monokai"); err != nil {
		return string(raw)
	}
	return hl.String()
}

// Hide dismisses the preview.
func (p *ExportPreview) Hide() {
	p.visible = false
	p.scope.SetOpen(false)
}

// IsVisible reports whether the preview is currently shown.
func (p *ExportPreview) IsVisible() bool {
	return p.visible
}

// Close releases the preview's back-navigation registration for good.
func (p *ExportPreview) Close() {
	p.scope.Close()
}

// Update handles scrolling and export-format keys.
func (p *ExportPreview) Update(msg tea.Msg) tea.Cmd {
	if !p.visible {
		return nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		// Esc is the back chord, handled by the app through the
		// history adapter.
		case "q":
			p.Hide()
			return nil
		case "tab":
			p.showingJSON = !p.showingJSON
			if p.showingJSON {
				p.vp.SetContent(p.jsonView)
			} else {
				p.vp.SetContent(p.markdownView)
			}
			p.vp.GotoTop()
			return nil
		case "t", "m", "j":
			if p.projectID != "" {
				id := p.projectID
				format := map[string]string{"t": "txt", "m": "markdown", "j": "json"}[key.String()]
				p.Hide()
				return func() tea.Msg { return ExportRequestedMsg{ProjectID: id, Format: format} }
			}
			return nil
		}
	}

	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	return cmd
}

// View renders the preview.
func (p *ExportPreview) View() string {
	if !p.visible {
		return ""
	}

	label := "markdown"
	if p.showingJSON {
		label = "json"
	}
	title := p.theme.OverlayTitle.Render("Export Preview (" + label + ")")
	hint := p.theme.OverlayHint.Render("tab: view  t: text  m: markdown  j: json  esc: close")

	body := p.vp.View()
	if p.renderErr != nil {
		body = p.theme.ErrorStyle.Render(
			fmt.Sprintf("%s cannot render preview: %v", styles.StatusIndicators.Error, p.renderErr))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", hint)
	box := p.theme.OverlayBox.Render(content)

	width, height := p.width, p.height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
