package commands

import (
	"github.com/spf13/cobra"

	"github.com/calebmb/kindling/cmd/kindling/handlers"
)

// Doctor returns the command for diagnosing the local setup.
//
// Optional flags:
//
//	--config, -c: Path to environment configuration YAML file (default: auto-detect kindling.yaml)
//	--json: Output in JSON format
func Doctor() *cobra.Command {
	var configPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the local setup",
		Long: `Diagnose the local setup before provisioning.

Checks that the required client tools (docker, kind) and the optional ones
(kubectl, helm) are installed, that the docker daemon is reachable, and
that the configuration file is valid.

Examples:
  # Diagnose the local setup
  kindling doctor

  # Get the diagnosis in JSON format
  kindling doctor --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), configPath, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: kindling.yaml)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
