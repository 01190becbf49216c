// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/storyloom/internal/project"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter renders a project to Markdown with YAML frontmatter.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export renders a project to Markdown.
func (e *MarkdownExporter) Export(p *project.Project) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("project is nil")
	}
	if p.Title == "" {
		return nil, fmt.Errorf("project has no title")
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(p.Title)))
		sb.WriteString(fmt.Sprintf("created: %s\n", p.CreatedAt.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("updated: %s\n", p.UpdatedAt.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("chapters: %d\n", len(p.Chapters)))
		sb.WriteString(fmt.Sprintf("words: %d\n", p.WordCount()))
		sb.WriteString(fmt.Sprintf("exported: %s\n", time.Now().Format(time.RFC3339)))
		sb.WriteString("generator: storyloom\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(p.Title)))

	if e.options.IncludeMetadata {
		if p.Description != "" {
			sb.WriteString(p.Description + "\n\n")
		}
		if p.Synopsis != "" {
			sb.WriteString("## Synopsis\n\n")
			sb.WriteString(p.Synopsis + "\n\n")
		}
		if len(p.Characters) > 0 {
			sb.WriteString("## Characters\n\n")
			for _, c := range p.Characters {
				sb.WriteString(fmt.Sprintf("- **%s**", escapeMarkdown(c.Name)))
				if c.Role != "" {
					sb.WriteString(fmt.Sprintf(" (%s)", c.Role))
				}
				if c.Description != "" {
					sb.WriteString(": " + c.Description)
				}
				sb.WriteString("\n")
			}
			sb.WriteString("\n")
		}
		if p.Plot != nil {
			writePlotMarkdown(&sb, p.Plot)
		}
	}

	for i, ch := range sortedChapters(p.Chapters) {
		sb.WriteString(fmt.Sprintf("## Chapter %d: %s\n\n", ch.Order, escapeMarkdown(ch.Title)))
		sb.WriteString(strings.TrimSpace(ch.Content))
		sb.WriteString("\n\n")
		if i < len(p.Chapters)-1 {
			sb.WriteString("---\n\n")
		}
	}

	sb.WriteString(fmt.Sprintf("\n*Exported from storyloom on %s*\n",
		time.Now().Format("January 2, 2006 at 3:04 PM")))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

func writePlotMarkdown(sb *strings.Builder, plot *project.Plot) {
	sb.WriteString("## Plot\n\n")
	if plot.Genre != "" {
		sb.WriteString(fmt.Sprintf("- **Genre**: %s\n", plot.Genre))
	}
	if plot.Theme != "" {
		sb.WriteString(fmt.Sprintf("- **Theme**: %s\n", plot.Theme))
	}
	if plot.Setting != "" {
		sb.WriteString(fmt.Sprintf("- **Setting**: %s\n", plot.Setting))
	}
	if plot.Conflict != "" {
		sb.WriteString(fmt.Sprintf("- **Conflict**: %s\n", plot.Conflict))
	}
	if plot.Resolution != "" {
		sb.WriteString(fmt.Sprintf("- **Resolution**: %s\n", plot.Resolution))
	}
	sb.WriteString("\n")
	for _, act := range plot.Acts {
		sb.WriteString(fmt.Sprintf("### Act %d: %s\n\n", act.Order, escapeMarkdown(act.Title)))
		if act.Description != "" {
			sb.WriteString(act.Description + "\n\n")
		}
	}
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes characters that would break formatting in headings.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}

// escapeYAML escapes special YAML characters in values.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		s = strings.ReplaceAll(s, "\r", "\\r")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}
