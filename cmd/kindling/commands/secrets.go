package commands

import (
	"github.com/spf13/cobra"

	"github.com/calebmb/kindling/cmd/kindling/handlers"
)

// Secrets returns the command for retrieving environment credentials.
func Secrets() *cobra.Command {
	var configPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Retrieve environment credentials",
		Long: `Retrieve credentials from the running environment.

Shows access details for installed services:
  - Grafana admin username and password
  - The local registry address

Requires a provisioned environment; run 'kindling up' first.
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Secrets(cmd.Context(), configPath, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: kindling.yaml)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
