package steps

import (
	"context"

	"github.com/calebmb/kindling/internal/config"
	"github.com/calebmb/kindling/internal/sequencer"
)

// Step names for the fixed teardown steps.
const (
	StepClusterDelete  = "cluster-delete"
	StepRegistryRemove = "registry-remove"
)

// ReleaseUninstallStepName returns the step name that uninstalls a release.
func ReleaseUninstallStepName(release string) string {
	return "release-uninstall:" + release
}

// BuildTeardown assembles the teardown step graph. Every step is
// best-effort so a partially provisioned environment still tears down as
// far as possible.
func BuildTeardown(cfg *config.Config, clients *Clients) (*sequencer.Registry, error) {
	reg := sequencer.NewRegistry()

	var uninstalls []string
	for i := range cfg.Releases {
		step := releaseUninstallStep(cfg, &cfg.Releases[i], clients)
		uninstalls = append(uninstalls, step.Name)
		if err := reg.Register(step); err != nil {
			return nil, err
		}
	}

	if err := reg.Register(clusterDeleteStep(cfg, uninstalls, clients)); err != nil {
		return nil, err
	}
	if err := reg.Register(registryRemoveStep(cfg, clients)); err != nil {
		return nil, err
	}

	return reg, nil
}

// releaseUninstallStep uninstalls a chart release. A missing cluster means
// there is nothing to uninstall, so the step reports satisfied.
func releaseUninstallStep(cfg *config.Config, rel *config.ReleaseConfig, clients *Clients) *sequencer.Step {
	return &sequencer.Step{
		Name:      ReleaseUninstallStepName(rel.Name),
		OnFailure: sequencer.BestEffort,
		IsSatisfied: func(ctx context.Context) (bool, error) {
			exists, err := clients.Kind.ClusterExists(ctx, cfg.ClusterName)
			if err != nil || !exists {
				return true, err
			}
			client, err := clients.Helm(ctx, rel.Namespace)
			if err != nil {
				return false, err
			}
			installed, err := client.ReleaseInstalled(rel.Name)
			return !installed, err
		},
		Action: func(ctx context.Context) error {
			client, err := clients.Helm(ctx, rel.Namespace)
			if err != nil {
				return err
			}
			return client.Uninstall(rel.Name, clients.Timeouts.Teardown)
		},
	}
}

// clusterDeleteStep removes the kind cluster after release uninstalls have
// had their chance. Uninstall failures do not block deletion: best-effort
// failures never propagate to dependents.
func clusterDeleteStep(cfg *config.Config, uninstalls []string, clients *Clients) *sequencer.Step {
	return &sequencer.Step{
		Name:      StepClusterDelete,
		DependsOn: uninstalls,
		OnFailure: sequencer.BestEffort,
		IsSatisfied: func(ctx context.Context) (bool, error) {
			exists, err := clients.Kind.ClusterExists(ctx, cfg.ClusterName)
			return !exists, err
		},
		Action: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, clients.Timeouts.Teardown)
			defer cancel()
			return clients.Kind.DeleteCluster(ctx, cfg.ClusterName)
		},
	}
}

func registryRemoveStep(cfg *config.Config, clients *Clients) *sequencer.Step {
	return &sequencer.Step{
		Name:      StepRegistryRemove,
		OnFailure: sequencer.BestEffort,
		IsSatisfied: func(ctx context.Context) (bool, error) {
			exists, err := clients.Docker.ContainerExists(ctx, cfg.Registry.Name)
			return !exists, err
		},
		Action: func(ctx context.Context) error {
			return clients.Docker.RemoveContainer(ctx, cfg.Registry.Name)
		},
	}
}
