// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated to
// handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the kindling CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kindling",
		Short: "Stand up a local Kubernetes development environment on kind",
	}

	// Core commands
	cmd.AddCommand(Init())
	cmd.AddCommand(Up())
	cmd.AddCommand(Deploy())
	cmd.AddCommand(Status())
	cmd.AddCommand(Down())

	// Utility commands
	cmd.AddCommand(Doctor())
	cmd.AddCommand(Secrets())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
