package commands

import (
	"github.com/spf13/cobra"

	"github.com/calebmb/kindling/cmd/kindling/handlers"
)

// Up returns the command for provisioning the local environment.
//
// This command walks the full provisioning graph: client tool checks, the
// kind cluster, the local registry, namespaces, chart releases, image
// builds, and application deployments. Steps whose desired state already
// holds are skipped, so re-running is cheap and safe.
//
// Optional flags:
//
//	--config, -c: Path to environment configuration YAML file (default: auto-detect kindling.yaml)
//	--only: Run only the named steps and their dependencies
func Up() *cobra.Command {
	var configPath string
	var only []string

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Create or update the local environment",
		Long: `Create or update your local Kubernetes development environment.

This command creates a kind cluster with a local image registry, ensures
the configured namespaces, installs the observability charts, and builds
and deploys your applications. Each step checks whether its desired state
already holds and is skipped if so, making the command safe to re-run.

If no config file is specified, it looks for kindling.yaml in the current
directory. Use 'kindling init' to create a configuration file.

Examples:
  # Bring up the environment from kindling.yaml
  kindling up

  # Use a specific config file
  kindling up -c staging.yaml

  # Re-run only the registry step (and its dependencies)
  kindling up --only registry`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Up(cmd.Context(), configPath, only)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: kindling.yaml)")
	cmd.Flags().StringSliceVar(&only, "only", nil, "Run only the named steps and their dependencies")

	return cmd
}
