package wizard

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/charmbracelet/huh"
)

// clusterNameRegex validates cluster name format: 1-32 lowercase alphanumeric with hyphens.
var clusterNameRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,30}[a-z0-9])?$`)

// runIdentityGroup prompts for the environment name and registry port.
func runIdentityGroup(ctx context.Context, result *Result) error {
	portInput := strconv.Itoa(result.RegistryPort)

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Environment Name").
				Description("Names the kind cluster and registry container. 1-32 lowercase alphanumeric characters or hyphens.").
				Placeholder("kindling").
				Value(&result.ClusterName).
				Validate(validateClusterName),
			huh.NewInput().
				Title("Registry Port").
				Description("Host port for the local image registry").
				Value(&portInput).
				Validate(validatePort),
		).Title("Environment"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	port, err := strconv.Atoi(portInput)
	if err != nil {
		return fmt.Errorf("invalid port: %w", err)
	}
	result.RegistryPort = port
	return nil
}

// runStacksGroup prompts for which observability stacks to install.
func runStacksGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Observability Stacks").
				Description("Chart releases installed into the cluster").
				Options(
					huh.NewOption("Monitoring (kube-prometheus-stack)", StackMonitoring).Selected(true),
					huh.NewOption("Logging (Loki + Fluent Bit)", StackLogging).Selected(true),
				).
				Value(&result.EnabledStacks),
		).Title("Stacks"),
	).RunWithContext(ctx)
}

// validateClusterName checks the environment name answer.
func validateClusterName(name string) error {
	if !clusterNameRegex.MatchString(name) {
		return fmt.Errorf("must be 1-32 lowercase alphanumeric characters or hyphens")
	}
	return nil
}
