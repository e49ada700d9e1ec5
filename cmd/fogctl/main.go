// Package main is the entry point for the fogctl CLI.
//
// fogctl reimages bare-metal test machines through a network imaging
// service: it resolves the target host and image, schedules a deploy
// task, power-cycles the machine, waits for the network install to
// finish, and repairs the host's identity afterwards.
//
// Commands: reimage, images, check, version, completion.
//
// For detailed usage information, run:
//
//	fogctl --help
package main

import (
	"fmt"
	"os"

	"github.com/metalfog/fogctl/cmd/fogctl/commands"
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
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
