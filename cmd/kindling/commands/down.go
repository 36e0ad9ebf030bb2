package commands

import (
	"github.com/spf13/cobra"

	"github.com/calebmb/kindling/cmd/kindling/handlers"
)

// Down returns the command for tearing down the local environment.
//
// Teardown steps are best-effort: a resource that is already gone, or one
// that fails to delete, never blocks the rest of the cleanup.
func Down() *cobra.Command {
	var configPath string
	var skipConfirmation bool

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Tear down the local environment",
		Long: `Tear down the local Kubernetes development environment.

Uninstalls the chart releases, deletes the kind cluster, and removes the
local registry container. Resources that do not exist are skipped, so the
command is safe to run against a partially provisioned environment.

Examples:
  # Tear down with a confirmation prompt
  kindling down

  # Tear down without prompting
  kindling down --yes`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Down(cmd.Context(), configPath, skipConfirmation)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: kindling.yaml)")
	cmd.Flags().BoolVarP(&skipConfirmation, "yes", "y", false, "Skip confirmation prompt")

	return cmd
}
