// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// storyloom is an AI-assisted story authoring tool for the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/storyloom/internal/cli"
	"github.com/jeranaias/storyloom/internal/config"
	"github.com/jeranaias/storyloom/internal/export"
	"github.com/jeranaias/storyloom/internal/generate"
	"github.com/jeranaias/storyloom/internal/nav"
	"github.com/jeranaias/storyloom/internal/project"
	"github.com/jeranaias/storyloom/internal/ui/components"
	"github.com/jeranaias/storyloom/internal/ui/styles"
	"github.com/jeranaias/storyloom/internal/util"
)

func main() {
	cmd, args := cli.Parse(os.Args[1:])

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		if err := cli.RunAsk(args); err != nil {
			cli.Fatalf("%v", err)
		}
	case cli.CmdList:
		if err := cli.RunList(args); err != nil {
			cli.Fatalf("%v", err)
		}
	case cli.CmdExport:
		if err := cli.RunExport(args); err != nil {
			cli.Fatalf("%v", err)
		}
	case cli.CmdDelete:
		if err := cli.RunDelete(args); err != nil {
			cli.Fatalf("%v", err)
		}
	case cli.CmdConfig:
		if err := cli.RunConfig(args); err != nil {
			cli.Fatalf("%v", err)
		}
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	}
}

// =============================================================================
// TUI STARTUP
// =============================================================================

func runTUI(args *cli.Args) {
	cfg := config.Global()

	store, err := project.Open(cfg.Storage.DatabasePath)
	if err != nil {
		cli.Fatalf("open project database: %v", err)
	}
	defer store.Close()

	client, err := cli.BuildClient(cfg, args.Model)
	if err != nil {
		cli.Fatalf("configure generation: %v", err)
	}

	shell := &programShell{}
	model := NewModel(cfg, store, client, shell)

	p := tea.NewProgram(model, tea.WithAltScreen())
	shell.program = p

	// Config edits on disk reach the running session.
	watcher, err := config.NewWatcher(func(updated *config.Config) {
		p.Send(configReloadedMsg{cfg: updated})
	})
	if err == nil {
		watcher.Start()
		defer watcher.Close()
	}

	if _, err := p.Run(); err != nil {
		cli.Fatalf("%v", err)
	}
}

// programShell terminates the session by quitting the running program.
// The rewind and close fallbacks only matter when quitting is impossible,
// which for a terminal app means the program was never started.
type programShell struct {
	program *tea.Program
}

func (s *programShell) Exit() error {
	if s.program == nil {
		return fmt.Errorf("program not running")
	}
	s.program.Quit()
	return nil
}

func (s *programShell) RewindToOrigin() error {
	return fmt.Errorf("terminal session has no origin to rewind to")
}

func (s *programShell) Close() error {
	os.Exit(0)
	return nil
}

// =============================================================================
// MODEL
// =============================================================================

// State represents the top-level screen.
type State int

const (
	StateWelcome State = iota
	StateEditor
)

// Model is the root bubbletea model.
type Model struct {
	state State
	theme *styles.Theme
	cfg   *config.Config

	store  *project.Store
	client *generate.Client

	// Back-navigation plumbing.
	hist  *nav.EntryHistory
	coord *nav.Coordinator

	// Overlays.
	help     *components.HelpOverlay
	settings *components.SettingsPanel
	picker   *components.ProjectPicker
	preview  *components.ExportPreview
	exit     *components.ExitDialog

	// Editor state.
	current    *project.Project
	chapterIdx int
	editor     textarea.Model
	dirty      bool
	generating bool

	status string
	width  int
	height int
}

// NewModel wires the application model together.
func NewModel(cfg *config.Config, store *project.Store, client *generate.Client, shell nav.Shell) *Model {
	theme := styles.NewTheme()

	hist := nav.NewEntryHistory(shell)
	coord := nav.NewCoordinator(hist)

	ed := textarea.New()
	ed.Placeholder = "Start writing, or press ctrl+g to generate..."
	ed.ShowLineNumbers = false
	ed.CharLimit = 0

	return &Model{
		state:    StateWelcome,
		theme:    theme,
		cfg:      cfg,
		store:    store,
		client:   client,
		hist:     hist,
		coord:    coord,
		help:     components.NewHelpOverlay(coord, theme),
		settings: components.NewSettingsPanel(coord, theme),
		picker:   components.NewProjectPicker(coord, theme),
		preview:  components.NewExportPreview(coord, theme),
		exit:     components.NewExitDialog(coord.Gate(), theme),
		editor:   ed,
		status:   "ctrl+n new, ctrl+o open, ? help",
	}
}

// =============================================================================
// MESSAGES
// =============================================================================

type projectsLoadedMsg struct {
	metas []project.Meta
	err   error
}

type projectOpenedMsg struct {
	proj *project.Project
	err  error
}

type projectSavedMsg struct {
	err error
}

type generateDoneMsg struct {
	text string
	err  error
}

type exportDoneMsg struct {
	path string
	err  error
}

type configReloadedMsg struct {
	cfg *config.Config
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m *Model) loadProjects(query string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		var (
			metas []project.Meta
			err   error
		)
		if query == "" {
			metas, err = store.List(ctx)
		} else {
			metas, err = store.Search(ctx, query)
		}
		return projectsLoadedMsg{metas: metas, err: err}
	}
}

func (m *Model) openProject(id string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		proj, err := store.Get(ctx, id)
		return projectOpenedMsg{proj: proj, err: err}
	}
}

func (m *Model) createProject() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		proj, err := store.Create(ctx, "Untitled Story", "")
		if err == nil {
			proj.Chapters = append(proj.Chapters, project.NewChapter("Chapter One", "", 1))
			proj, err = store.Update(ctx, proj)
		}
		return projectOpenedMsg{proj: proj, err: err}
	}
}

func (m *Model) saveProject() tea.Cmd {
	if m.current == nil {
		return nil
	}
	m.syncEditor()
	store, proj := m.store, m.current
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, err := store.Update(ctx, proj)
		return projectSavedMsg{err: err}
	}
}

func (m *Model) generateProse() tea.Cmd {
	if m.current == nil || len(m.current.Chapters) == 0 || m.generating {
		return nil
	}
	m.syncEditor()
	m.generating = true

	client := m.client
	proj := m.current
	chapter := proj.Chapters[m.chapterIdx]
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		resp, err := client.Generate(ctx, generate.Request{
			System: "You are a fiction co-author. Continue the story in the " +
				"established voice. Respond with prose only.",
			Prompt: buildContinuationPrompt(proj, chapter),
		})
		if err != nil {
			return generateDoneMsg{err: err}
		}
		return generateDoneMsg{text: resp.Text}
	}
}

// buildContinuationPrompt frames the project context and the chapter tail
// for the model.
func buildContinuationPrompt(proj *project.Project, chapter project.Chapter) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Story: %s\n", proj.Title)
	if proj.Synopsis != "" {
		fmt.Fprintf(&sb, "Synopsis: %s\n", proj.Synopsis)
	}
	for _, c := range proj.Characters {
		fmt.Fprintf(&sb, "Character: %s (%s)\n", c.Name, c.Role)
	}
	fmt.Fprintf(&sb, "\nChapter: %s\n\n", chapter.Title)

	// Send only the tail so long chapters stay inside the context window.
	content := chapter.Content
	const tailRunes = 4000
	if runes := []rune(content); len(runes) > tailRunes {
		content = string(runes[len(runes)-tailRunes:])
	}
	if content == "" {
		sb.WriteString("Write the opening of this chapter.")
	} else {
		fmt.Fprintf(&sb, "%s\n\nContinue from here.", content)
	}
	return sb.String()
}

func (m *Model) exportProject(id, format string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		proj, err := store.Get(ctx, id)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		opts := export.DefaultOptions()
		exporter, err := export.ForFormat(format, opts)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		path, err := export.ExportToFile(proj, exporter, opts)
		return exportDoneMsg{path: path, err: err}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.loadProjects("")
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.SetSize(msg.Width, msg.Height)
		m.settings.SetSize(msg.Width, msg.Height)
		m.picker.SetSize(msg.Width, msg.Height)
		m.preview.SetSize(msg.Width, msg.Height)
		m.exit.SetSize(msg.Width, msg.Height)
		m.editor.SetWidth(msg.Width - 4)
		m.editor.SetHeight(msg.Height - 6)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case projectsLoadedMsg:
		if msg.err != nil {
			m.status = "load failed: " + msg.err.Error()
			return m, nil
		}
		if m.picker.IsVisible() {
			m.picker.SetItems(msg.metas)
		}
		return m, nil

	case projectOpenedMsg:
		if msg.err != nil {
			m.status = "open failed: " + msg.err.Error()
			return m, nil
		}
		// Older projects may carry no chapters yet.
		if len(msg.proj.Chapters) == 0 {
			msg.proj.Chapters = append(msg.proj.Chapters,
				project.NewChapter("Chapter One", "", 1))
		}
		m.current = msg.proj
		m.chapterIdx = 0
		m.state = StateEditor
		m.loadChapterIntoEditor()
		m.status = fmt.Sprintf("opened %s", msg.proj.Title)
		return m, nil

	case projectSavedMsg:
		if msg.err != nil {
			m.status = "save failed: " + msg.err.Error()
		} else {
			m.dirty = false
			m.status = "saved"
		}
		return m, nil

	case generateDoneMsg:
		m.generating = false
		if msg.err != nil {
			m.status = "generation failed: " + msg.err.Error()
			return m, nil
		}
		m.appendGenerated(msg.text)
		m.status = fmt.Sprintf("generated %d words", project.CountWords(msg.text))
		return m, m.saveProject()

	case exportDoneMsg:
		if msg.err != nil {
			m.status = "export failed: " + msg.err.Error()
		} else {
			m.status = "exported to " + msg.path
		}
		return m, nil

	case configReloadedMsg:
		m.cfg = msg.cfg
		return m, nil

	case components.ProjectChosenMsg:
		return m, m.openProject(msg.ID)

	case components.PickerQueryMsg:
		return m, m.loadProjects(msg.Query)

	case components.SettingsSavedMsg:
		m.cfg = msg.Config
		if err := msg.Config.Save(); err != nil {
			m.status = "settings save failed: " + err.Error()
		} else {
			m.status = "settings saved"
		}
		return m, nil

	case components.ExportRequestedMsg:
		return m, m.exportProject(msg.ProjectID, msg.Format)
	}

	return m, nil
}

// handleKey routes keys to the topmost visible surface first.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The back chord always goes through the history adapter, no matter
	// what is on screen: the coordinator closes the topmost overlay,
	// shows the exit gate, or confirms it.
	if msg.String() == "esc" {
		m.hist.Back()
		return m, nil
	}

	// The exit dialog is modal over everything else.
	if m.exit.IsVisible() {
		return m, m.exit.Update(msg)
	}

	// Overlays consume keys in stacking order.
	switch {
	case m.preview.IsVisible():
		return m, m.preview.Update(msg)
	case m.picker.IsVisible():
		return m, m.picker.Update(msg)
	case m.help.IsVisible():
		return m, m.help.Update(msg)
	case m.settings.IsVisible():
		return m, m.settings.Update(msg)
	}

	switch msg.String() {
	case "ctrl+q":
		if m.cfg.UI.ConfirmOnExit {
			m.coord.Gate().Show()
			return m, nil
		}
		return m, tea.Quit

	case "ctrl+c":
		return m, tea.Quit

	case "ctrl+n":
		return m, m.createProject()

	case "ctrl+o":
		m.picker.Show(nil)
		return m, m.loadProjects("")

	case "ctrl+s":
		return m, m.saveProject()

	case "ctrl+g":
		cmd := m.generateProse()
		if cmd != nil {
			m.status = "generating..."
		}
		return m, cmd

	case "ctrl+e":
		if m.current != nil {
			m.syncEditor()
			m.preview.SetWrap(m.cfg.UI.WordWrap)
			m.preview.Show(m.current)
		}
		return m, nil

	case "f2":
		m.settings.Show(*m.cfg)
		return m, nil

	case "?":
		// In the editor "?" is prose; only the welcome screen treats it
		// as a shortcut.
		if m.state == StateWelcome {
			m.help.Show()
			return m, nil
		}

	case "f1":
		m.help.Show()
		return m, nil

	case "ctrl+right":
		m.switchChapter(m.chapterIdx + 1)
		return m, nil

	case "ctrl+left":
		m.switchChapter(m.chapterIdx - 1)
		return m, nil

	case "ctrl+t":
		if m.current != nil {
			m.syncEditor()
			order := len(m.current.Chapters) + 1
			m.current.Chapters = append(m.current.Chapters,
				project.NewChapter(fmt.Sprintf("Chapter %d", order), "", order))
			m.switchChapter(len(m.current.Chapters) - 1)
			m.dirty = true
		}
		return m, nil
	}

	if m.state == StateEditor {
		var cmd tea.Cmd
		before := m.editor.Value()
		m.editor, cmd = m.editor.Update(msg)
		if m.editor.Value() != before {
			m.dirty = true
		}
		return m, cmd
	}
	return m, nil
}

// =============================================================================
// EDITOR HELPERS
// =============================================================================

func (m *Model) loadChapterIntoEditor() {
	if m.current == nil || len(m.current.Chapters) == 0 {
		m.editor.SetValue("")
		return
	}
	m.editor.SetValue(m.current.Chapters[m.chapterIdx].Content)
	m.editor.Focus()
	m.editor.CursorEnd()
}

// syncEditor writes the editor buffer back into the current chapter.
func (m *Model) syncEditor() {
	if m.current == nil || len(m.current.Chapters) == 0 {
		return
	}
	ch := &m.current.Chapters[m.chapterIdx]
	ch.Content = m.editor.Value()
	ch.WordCount = project.CountWords(ch.Content)
}

func (m *Model) switchChapter(idx int) {
	if m.current == nil || idx < 0 || idx >= len(m.current.Chapters) {
		return
	}
	m.syncEditor()
	m.chapterIdx = idx
	m.loadChapterIntoEditor()
}

func (m *Model) appendGenerated(text string) {
	v := m.editor.Value()
	if v != "" && !strings.HasSuffix(v, "\n") {
		v += "\n\n"
	}
	m.editor.SetValue(v + strings.TrimSpace(text))
	m.editor.CursorEnd()
	m.syncEditor()
	m.dirty = true
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m *Model) View() string {
	// Modal surfaces replace the screen; they render their own backdrop.
	switch {
	case m.exit.IsVisible():
		return m.exit.View()
	case m.preview.IsVisible():
		return m.preview.View()
	case m.picker.IsVisible():
		return m.picker.View()
	case m.help.IsVisible():
		return m.help.View()
	case m.settings.IsVisible():
		return m.settings.View()
	}

	if m.state == StateWelcome {
		return m.viewWelcome()
	}
	return m.viewEditor()
}

func (m *Model) viewWelcome() string {
	title := m.theme.Header.Render("storyloom")
	body := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		m.theme.Prose.Render("AI-assisted story authoring"),
		"",
		m.theme.OverlayHint.Render("ctrl+n  new project"),
		m.theme.OverlayHint.Render("ctrl+o  open project"),
		m.theme.OverlayHint.Render("?       help"),
	)

	width, height := m.width, m.height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (m *Model) viewEditor() string {
	ch := m.current.Chapters[m.chapterIdx]

	header := m.theme.Header.Render(fmt.Sprintf("%s / %s (%d/%d)",
		util.TruncateWidth(m.current.Title, 40),
		util.TruncateWidth(ch.Title, 30),
		m.chapterIdx+1, len(m.current.Chapters)))

	dirtyMark := ""
	if m.dirty {
		dirtyMark = m.theme.WarningStyle.Render(" *")
	}
	busy := ""
	if m.generating {
		busy = m.theme.InfoStyle.Render("  generating...")
	}
	statusBar := m.theme.StatusBar.Render(fmt.Sprintf("%d words%s%s  |  %s",
		project.CountWords(m.editor.Value()), dirtyMark, busy, m.status))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.editor.View(),
		statusBar,
	)
}
