// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !windows

package nav

import (
	"os"

	"golang.org/x/sys/unix"
)

// exitProcess asks the process to terminate cleanly via SIGTERM, giving
// deferred cleanup a chance to run before the default handler exits.
func exitProcess() error {
	return unix.Kill(os.Getpid(), unix.SIGTERM)
}
