// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build windows

package nav

import "errors"

// exitProcess has no clean signal-based termination on Windows; report
// failure so the caller falls through to its remaining primitives.
func exitProcess() error {
	return errors.New("signal-based termination not supported on windows")
}
