package commands

import (
	"github.com/spf13/cobra"

	"github.com/calebmb/kindling/cmd/kindling/handlers"
	"github.com/calebmb/kindling/internal/config"
)

// Init returns the command for interactively creating a configuration.
//
// This command guides users through creating an environment configuration
// YAML file using an interactive wizard.
//
// Flags:
//
//	--output, -o: Path to output file (default "kindling.yaml")
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create an environment configuration",
		Long: `Interactively create an environment configuration file.

This command asks a few questions about your environment:

  - Cluster name
  - Local registry port
  - Which observability stacks to install (monitoring, logging)

and writes a complete configuration with sensible defaults. Application
deployments are added to the generated file by hand; see the apps section
in the written YAML.

Examples:
  # Create kindling.yaml in the current directory
  kindling init

  # Write to a different file
  kindling init -o staging.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigFile, "Output file path")

	return cmd
}
