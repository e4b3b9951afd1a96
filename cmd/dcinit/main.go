// Package main is the entry point for the dcinit CLI.
//
// dcinit configures this host as an Active Directory domain controller on
// first boot or on demand: it creates a new domain or joins an existing
// one, updates the host's network identity files, and drives the
// provisioning toolchain, rolling back and re-prompting on failure.
//
// For detailed usage information, run:
//
//	dcinit --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/dcinit/cmd/dcinit/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
