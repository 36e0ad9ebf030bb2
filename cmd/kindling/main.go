// Package main is the entry point for the kindling CLI.
//
// kindling stands up a complete local Kubernetes development environment:
// a kind cluster, a local image registry, namespaces, an observability
// stack installed from Helm charts, and your own application deployments.
// Every operation is idempotent, so re-running 'kindling up' only performs
// the work that is actually missing.
//
// Commands: init, up, deploy, status, down, doctor, secrets.
//
// For detailed usage information, run:
//
//	kindling --help
package main

import (
	"fmt"
	"os"

	"github.com/calebmb/kindling/cmd/kindling/commands"
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
