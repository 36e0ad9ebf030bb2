package commands

import (
	"github.com/spf13/cobra"

	"github.com/calebmb/kindling/cmd/kindling/handlers"
)

// Deploy returns the command for building and deploying applications.
//
// This is a focused subset of 'up': it rebuilds the app images, pushes
// them to the local registry, applies the app manifests, and waits for the
// rollouts. Infrastructure steps run only if their state is missing.
func Deploy() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "deploy [app...]",
		Short: "Build and deploy applications to the environment",
		Long: `Build and deploy application images to the local environment.

Rebuilds each app's image, pushes it to the local registry, applies the
app's Kubernetes manifests, and waits for the deployment to roll out.
Without arguments, all configured apps are deployed.

Examples:
  # Deploy all configured apps
  kindling deploy

  # Deploy a single app
  kindling deploy backend`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Deploy(cmd.Context(), configPath, args)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: kindling.yaml)")

	return cmd
}
