// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jeranaias/storyloom/internal/config"
	"github.com/jeranaias/storyloom/internal/project"
	"github.com/jeranaias/storyloom/internal/util"
)

// RunList handles the "storyloom list" command.
func RunList(args *Args) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	metas, err := store.List(context.Background())
	if err != nil {
		return err
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(metas)
	}

	if len(metas) == 0 {
		fmt.Println("no projects yet; run storyloom to create one")
		return nil
	}

	width := TerminalWidth()
	titleWidth := width - 50
	if titleWidth < 16 {
		titleWidth = 16
	}

	fmt.Printf("%s %-8s %-10s %s\n",
		util.PadRight("TITLE", titleWidth), "ID", "CHAPTERS", "UPDATED")
	for _, m := range metas {
		fmt.Printf("%s %-8s %-10d %s\n",
			util.PadRight(m.Title, titleWidth),
			m.ID[:8],
			m.ChapterCount,
			m.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// openStore opens the project database configured in the global config.
func openStore() (*project.Store, error) {
	cfg := config.Global()
	return project.Open(cfg.Storage.DatabasePath)
}
