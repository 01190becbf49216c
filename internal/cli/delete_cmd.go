// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeranaias/storyloom/internal/project"
)

// RunDelete handles the "storyloom delete" command.
func RunDelete(args *Args) error {
	if args.Project == "" {
		return errors.New("delete requires a project id or title (see 'storyloom list')")
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
	return deleteProject(ctx, store, proj, args.Quiet)
}

func deleteProject(ctx context.Context, store *project.Store, proj *project.Project, quiet bool) error {
	if err := store.Delete(ctx, proj.ID); err != nil {
		return err
	}
	if !quiet {
		fmt.Printf("deleted %s (%s)\n", proj.Title, proj.ID[:8])
	}
	return nil
}
