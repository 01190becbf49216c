// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"

	"github.com/jeranaias/storyloom/internal/project"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports a project as indented JSON.
// NOTE: JSON exports always include the complete project document and do not
// respect filtering options, so the output can be re-imported faithfully.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter. The options parameter is
// accepted for consistency with other exporters but does not filter output.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// Export converts a project to JSON.
func (e *JSONExporter) Export(p *project.Project) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("project is nil")
	}
	return json.MarshalIndent(p, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
