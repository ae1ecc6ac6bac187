// Package main is the entry point for the Tavnit CLI.
package main

import (
	"os"

	"github.com/TavnitForms/tavnit-cli/internal/cmd"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersion(version, commit, date)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
