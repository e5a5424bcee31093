// Package main provides the entry point for the contactmerger CLI tool.
package main

import (
	"github.com/moazmaksod/YourContactMerger/cmd/contactmerger/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	cmd.Execute(version, commit, date, builtBy)
}
