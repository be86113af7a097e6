// Package main is the entry point for the Satchel CLI.
package main

import (
	"os"

	"github.com/satchelwallet/satchel/internal/cli"
)

// Build metadata injected via -ldflags at release time.
//
//nolint:gochecknoglobals // ldflags targets must be package-level variables
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	if err := cli.Execute(info); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
