// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses arguments and runs storyloom's non-TUI commands.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.3.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdList
	CmdExport
	CmdDelete
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	Model   string
	JSON    bool

	// Command-specific
	Query   string // ask: the prompt text
	Project string // export: project id or title prefix
	Format  string // export: txt|markdown|json
	Output  string // export: output directory

	ConfigKey string
	ConfigVal string

	// Raw args remaining after flag parsing
	Raw []string
}

const usageText = `storyloom - AI-assisted story authoring in the terminal

Usage:
  storyloom                 Launch the TUI editor
  storyloom ask [prompt]    One-shot prose generation (interactive with no prompt)
  storyloom list            List stored projects
  storyloom export <id>     Export a project (--format txt|markdown|json)
  storyloom delete <id>     Delete a project
  storyloom config [k] [v]  Show or set a config value
  storyloom version         Print version information

Flags:
  -m, --model NAME    Override the configured model
  --format FORMAT     Export format (default: markdown)
  -o, --output DIR    Export output directory (default: .)
  --json              Machine-readable output where supported
  -q, --quiet         Minimal output
  -v, --verbose       Verbose output
  -h, --help          Show this help

Examples:
  storyloom ask "Write an opening line for a heist story"
  storyloom export 4f1c2e --format txt -o ~/manuscripts
`

// Parse parses argv (without the program name) into a command and arguments.
func Parse(argv []string) (Command, *Args) {
	args := &Args{Format: "markdown", Output: "."}

	if len(argv) == 0 {
		return CmdTUI, args
	}

	cmd := CmdTUI
	rest := argv
	switch argv[0] {
	case "ask":
		cmd, rest = CmdAsk, argv[1:]
	case "list", "ls":
		cmd, rest = CmdList, argv[1:]
	case "export":
		cmd, rest = CmdExport, argv[1:]
	case "delete", "rm":
		cmd, rest = CmdDelete, argv[1:]
	case "config":
		cmd, rest = CmdConfig, argv[1:]
	case "version", "--version":
		return CmdVersion, args
	case "help", "--help", "-h":
		return CmdHelp, args
	}

	var positional []string
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		if !strings.HasPrefix(arg, "-") {
			positional = append(positional, arg)
			continue
		}

		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		next := func() string {
			if hasValue {
				return value
			}
			if i+1 < len(rest) {
				i++
				return rest[i]
			}
			return ""
		}

		switch name {
		case "m", "model":
			args.Model = next()
		case "format":
			args.Format = next()
		case "o", "output":
			args.Output = next()
		case "json":
			args.JSON = true
		case "q", "quiet":
			args.Quiet = true
		case "v", "verbose":
			args.Verbose = true
		case "h", "help":
			return CmdHelp, args
		default:
			args.Raw = append(args.Raw, arg)
		}
	}

	switch cmd {
	case CmdAsk:
		args.Query = strings.Join(positional, " ")
	case CmdExport, CmdDelete:
		if len(positional) > 0 {
			args.Project = positional[0]
		}
	case CmdConfig:
		if len(positional) > 0 {
			args.ConfigKey = positional[0]
		}
		if len(positional) > 1 {
			args.ConfigVal = positional[1]
		}
	}
	args.Raw = append(args.Raw, positional...)

	return cmd, args
}

// PrintUsage writes the usage text to stdout.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion writes version information to stdout.
func PrintVersion() {
	fmt.Printf("storyloom %s (%s, built %s, %s/%s)\n",
		Version, GitCommit, BuildDate, runtime.GOOS, runtime.GOARCH)
}

// Fatalf prints an error to stderr and exits nonzero.
func Fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "storyloom: "+format+"\n", a...)
	os.Exit(1)
}
