package commands

import (
	"github.com/spf13/cobra"

	"github.com/calebmb/kindling/cmd/kindling/handlers"
)

// Status returns the command for showing the environment's current state.
//
// Optional flags:
//
//	--config, -c: Path to environment configuration YAML file (default: auto-detect kindling.yaml)
//	--json: Output in JSON format
func Status() *cobra.Command {
	var configPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the environment's current state",
		Long: `Show the current state of the local environment.

Reports whether the kind cluster exists, whether the registry container is
running and attached to the cluster network, which chart releases are
installed, and which application deployments are ready.

Examples:
  # Show environment status
  kindling status

  # Get status in JSON format
  kindling status --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Status(cmd.Context(), configPath, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: kindling.yaml)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
