// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package nav

import (
	"errors"
	"os"
)

// =============================================================================
// PROCESS SHELL
// =============================================================================

// ProcessShell implements Shell directly against the operating system.
// It is the default for non-hosted environments; the TUI installs its own
// shell that quits the event loop instead.
type ProcessShell struct{}

// Exit requests clean process termination (platform dependent).
func (ProcessShell) Exit() error {
	return exitProcess()
}

// RewindToOrigin has no process-level meaning, so the chain moves on to
// the generic close primitive.
func (ProcessShell) RewindToOrigin() error {
	return errors.New("process shell has no history to rewind")
}

// Close hard-exits the process. Last resort only.
func (ProcessShell) Close() error {
	os.Exit(0)
	return nil
}
