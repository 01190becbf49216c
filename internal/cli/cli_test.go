// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jeranaias/storyloom/internal/project"
)

// =============================================================================
// ARGUMENT PARSING TESTS
// =============================================================================

func TestParseDefaultsToTUI(t *testing.T) {
	cmd, _ := Parse(nil)
	if cmd != CmdTUI {
		t.Errorf("cmd = %v, want CmdTUI", cmd)
	}
}

func TestParseAsk(t *testing.T) {
	cmd, args := Parse([]string{"ask", "write", "an", "opening", "line", "--model", "gpt-4o", "-v"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v", cmd)
	}
	if args.Query != "write an opening line" {
		t.Errorf("query = %q", args.Query)
	}
	if args.Model != "gpt-4o" || !args.Verbose {
		t.Errorf("flags not parsed: %+v", args)
	}
}

func TestParseExport(t *testing.T) {
	cmd, args := Parse([]string{"export", "4f1c2e", "--format=txt", "-o", "/tmp/out"})
	if cmd != CmdExport {
		t.Fatalf("cmd = %v", cmd)
	}
	if args.Project != "4f1c2e" || args.Format != "txt" || args.Output != "/tmp/out" {
		t.Errorf("args = %+v", args)
	}
}

func TestParseDelete(t *testing.T) {
	cmd, args := Parse([]string{"delete", "4f1c2e", "-q"})
	if cmd != CmdDelete {
		t.Fatalf("cmd = %v", cmd)
	}
	if args.Project != "4f1c2e" || !args.Quiet {
		t.Errorf("args = %+v", args)
	}
	if cmd, _ := Parse([]string{"rm", "x"}); cmd != CmdDelete {
		t.Error("rm alias not recognized")
	}
}

func TestParseConfigKeyValue(t *testing.T) {
	cmd, args := Parse([]string{"config", "ui.theme", "light"})
	if cmd != CmdConfig {
		t.Fatalf("cmd = %v", cmd)
	}
	if args.ConfigKey != "ui.theme" || args.ConfigVal != "light" {
		t.Errorf("args = %+v", args)
	}
}

func TestParseHelpAndVersion(t *testing.T) {
	if cmd, _ := Parse([]string{"--help"}); cmd != CmdHelp {
		t.Error("--help not recognized")
	}
	if cmd, _ := Parse([]string{"version"}); cmd != CmdVersion {
		t.Error("version not recognized")
	}
	if cmd, _ := Parse([]string{"ask", "-h"}); cmd != CmdHelp {
		t.Error("-h after subcommand not recognized")
	}
}

// =============================================================================
// PROJECT RESOLUTION TESTS
// =============================================================================

func TestResolveProject(t *testing.T) {
	store, err := project.Open(filepath.Join(t.TempDir(), "projects.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	created, err := store.Create(ctx, "The Dragon's Path", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Full id.
	p, err := resolveProject(ctx, store, created.ID)
	if err != nil || p.ID != created.ID {
		t.Errorf("full id lookup failed: %v", err)
	}

	// Id prefix.
	p, err = resolveProject(ctx, store, created.ID[:8])
	if err != nil || p.ID != created.ID {
		t.Errorf("prefix lookup failed: %v", err)
	}

	// Case-insensitive title.
	p, err = resolveProject(ctx, store, "the dragon's path")
	if err != nil || p.ID != created.ID {
		t.Errorf("title lookup failed: %v", err)
	}

	// Misses report cleanly.
	if _, err := resolveProject(ctx, store, "nope"); err == nil {
		t.Error("expected error for unknown ref")
	}
}

func TestDeleteProject(t *testing.T) {
	store, err := project.Open(filepath.Join(t.TempDir(), "projects.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	created, err := store.Create(ctx, "Doomed Draft", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := deleteProject(ctx, store, created, true); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, created.ID); err == nil {
		t.Error("project still present after delete")
	}
}

func TestParseListJSON(t *testing.T) {
	cmd, args := Parse([]string{"list", "--json"})
	if cmd != CmdList || !args.JSON {
		t.Errorf("list --json not parsed: %v %+v", cmd, args)
	}
}
