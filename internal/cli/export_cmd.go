// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jeranaias/storyloom/internal/export"
	"github.com/jeranaias/storyloom/internal/project"
)

// RunExport handles the "storyloom export" command.
func RunExport(args *Args) error {
	if args.Project == "" {
		return errors.New("export requires a project id or title (see 'storyloom list')")
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	proj, err := resolveProject(ctx, store, args.Project)
	if err != nil {
		return err
	}

	opts := export.DefaultOptions()
	opts.OutputDir = args.Output
	exporter, err := export.ForFormat(args.Format, opts)
	if err != nil {
		return err
	}

	path, err := export.ExportToFile(proj, exporter, opts)
	if err != nil {
		return err
	}
	if !args.Quiet {
		fmt.Println(path)
	}
	return nil
}

// resolveProject finds a project by full id, unique id prefix, or unique
// title match.
func resolveProject(ctx context.Context, store *project.Store, ref string) (*project.Project, error) {
	if p, err := store.Get(ctx, ref); err == nil {
		return p, nil
	}

	metas, err := store.List(ctx)
	if err != nil {
		return nil, err
	}

	var matches []project.Meta
	for _, m := range metas {
		if strings.HasPrefix(m.ID, ref) || strings.EqualFold(m.Title, ref) {
			matches = append(matches, m)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no project matches %q", ref)
	case 1:
		return store.Get(ctx, matches[0].ID)
	default:
		return nil, fmt.Errorf("%q is ambiguous: %d projects match", ref, len(matches))
	}
}
