// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jeranaias/storyloom/internal/project"
)

// =============================================================================
// PLAIN TEXT EXPORTER
// =============================================================================

// TextExporter renders a project as a plain text manuscript.
type TextExporter struct {
	options *Options
}

// NewTextExporter creates a new plain text exporter.
func NewTextExporter(opts *Options) *TextExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &TextExporter{options: opts}
}

// Export renders a project to plain text.
func (e *TextExporter) Export(p *project.Project) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("project is nil")
	}
	if p.Title == "" {
		return nil, fmt.Errorf("project has no title")
	}

	var sb strings.Builder

	sb.WriteString(p.Title + "\n")
	sb.WriteString(strings.Repeat("=", len([]rune(p.Title))) + "\n\n")

	if e.options.IncludeMetadata {
		if p.Description != "" {
			sb.WriteString(p.Description + "\n\n")
		}
		if p.Synopsis != "" {
			sb.WriteString("SYNOPSIS\n\n")
			sb.WriteString(p.Synopsis + "\n\n")
		}
		if len(p.Characters) > 0 {
			sb.WriteString("CHARACTERS\n\n")
			for _, c := range p.Characters {
				sb.WriteString(fmt.Sprintf("  %s", c.Name))
				if c.Role != "" {
					sb.WriteString(fmt.Sprintf(" (%s)", c.Role))
				}
				sb.WriteString("\n")
				if c.Description != "" {
					sb.WriteString("    " + c.Description + "\n")
				}
			}
			sb.WriteString("\n")
		}
		if p.Plot != nil {
			writePlotText(&sb, p.Plot)
		}
	}

	for _, ch := range sortedChapters(p.Chapters) {
		sb.WriteString(fmt.Sprintf("Chapter %d: %s\n\n", ch.Order, ch.Title))
		sb.WriteString(strings.TrimSpace(ch.Content))
		sb.WriteString("\n\n")
	}

	sb.WriteString(fmt.Sprintf("--\n%d words, exported %s\n",
		p.WordCount(), formatTimestamp(p.UpdatedAt)))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for plain text.
func (e *TextExporter) FileExtension() string {
	return ".txt"
}

// MimeType returns the MIME type for plain text.
func (e *TextExporter) MimeType() string {
	return "text/plain"
}

func writePlotText(sb *strings.Builder, plot *project.Plot) {
	sb.WriteString("PLOT\n\n")
	if plot.Genre != "" {
		sb.WriteString("  Genre:      " + plot.Genre + "\n")
	}
	if plot.Theme != "" {
		sb.WriteString("  Theme:      " + plot.Theme + "\n")
	}
	if plot.Setting != "" {
		sb.WriteString("  Setting:    " + plot.Setting + "\n")
	}
	if plot.Conflict != "" {
		sb.WriteString("  Conflict:   " + plot.Conflict + "\n")
	}
	if plot.Resolution != "" {
		sb.WriteString("  Resolution: " + plot.Resolution + "\n")
	}
	for _, act := range plot.Acts {
		sb.WriteString(fmt.Sprintf("  Act %d: %s\n", act.Order, act.Title))
		if act.Description != "" {
			sb.WriteString("    " + act.Description + "\n")
		}
	}
	sb.WriteString("\n")
}

// sortedChapters returns chapters ordered by their Order field without
// mutating the project.
func sortedChapters(chapters []project.Chapter) []project.Chapter {
	out := make([]project.Chapter, len(chapters))
	copy(out, chapters)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
