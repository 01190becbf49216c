// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/jeranaias/storyloom/internal/project"
)

func sampleProject() *project.Project {
	p := project.New("The Dragon's Path", "high fantasy debut")
	p.Synopsis = "A shepherd finds a dragon egg."
	p.Characters = []project.Character{
		{Name: "Mira", Role: "protagonist", Description: "a shepherd"},
	}
	p.Plot = &project.Plot{
		Genre:    "fantasy",
		Conflict: "the empire wants the egg",
		Acts: []project.Act{
			{Title: "The Egg", Description: "discovery", Order: 1},
		},
	}
	p.Chapters = []project.Chapter{
		project.NewChapter("Embers", "The hills were quiet that morning.", 2),
		project.NewChapter("The Find", "Mira almost stepped on it.", 1),
	}
	return p
}

// =============================================================================
// FORMAT TESTS
// =============================================================================

func TestTextExportOrdersChapters(t *testing.T) {
	out, err := NewTextExporter(nil).Export(sampleProject())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	s := string(out)

	first := strings.Index(s, "Chapter 1: The Find")
	second := strings.Index(s, "Chapter 2: Embers")
	if first == -1 || second == -1 || first > second {
		t.Errorf("chapters out of order:\n%s", s)
	}
	if !strings.Contains(s, "SYNOPSIS") || !strings.Contains(s, "Mira") {
		t.Error("missing front matter sections")
	}
}

func TestTextExportWithoutMetadata(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeMetadata = false
	out, err := NewTextExporter(opts).Export(sampleProject())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if strings.Contains(string(out), "SYNOPSIS") {
		t.Error("metadata rendered despite IncludeMetadata=false")
	}
}

func TestMarkdownExportFrontmatterAndEscaping(t *testing.T) {
	p := sampleProject()
	out, err := NewMarkdownExporter(nil).Export(p)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	s := string(out)

	if !strings.HasPrefix(s, "---\n") {
		t.Error("missing YAML frontmatter")
	}
	// Title contains an apostrophe, so YAML must quote it.
	if !strings.Contains(s, `title: "The Dragon's Path"`) {
		t.Errorf("title not quoted:\n%s", s[:200])
	}
	if !strings.Contains(s, "## Chapter 1: The Find") {
		t.Error("missing chapter heading")
	}
	if !strings.Contains(s, "### Act 1: The Egg") {
		t.Error("missing act heading")
	}
}

func TestJSONExportRoundTrips(t *testing.T) {
	p := sampleProject()
	out, err := NewJSONExporter(nil).Export(p)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var got project.Project
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if got.Title != p.Title || len(got.Chapters) != 2 {
		t.Errorf("round trip lost data: %+v", got)
	}
}

func TestExportRejectsNilAndUntitled(t *testing.T) {
	if _, err := NewTextExporter(nil).Export(nil); err == nil {
		t.Error("expected error for nil project")
	}
	if _, err := NewMarkdownExporter(nil).Export(&project.Project{}); err == nil {
		t.Error("expected error for untitled project")
	}
}

// =============================================================================
// FILE OUTPUT TESTS
// =============================================================================

func TestExportToFileSanitizesFilename(t *testing.T) {
	dir := t.TempDir()
	p := sampleProject()
	p.Title = "draft: <one/two>"

	opts := DefaultOptions()
	opts.OutputDir = dir
	opts.OpenAfterExport = false

	path, err := ExportToFile(p, NewTextExporter(opts), opts)
	if err != nil {
		t.Fatalf("ExportToFile: %v", err)
	}
	if strings.ContainsAny(path[len(dir):], "<>:") {
		t.Errorf("unsanitized path %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output file missing: %v", err)
	}
}

func TestForFormat(t *testing.T) {
	for _, format := range []string{"txt", "text", "md", "markdown", "json"} {
		if _, err := ForFormat(format, nil); err != nil {
			t.Errorf("ForFormat(%q): %v", format, err)
		}
	}
	if _, err := ForFormat("docx", nil); err == nil {
		t.Error("expected error for unknown format")
	}
}
