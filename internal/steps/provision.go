package steps

import (
	"context"
	"fmt"
	"os"

	"github.com/calebmb/kindling/internal/config"
	"github.com/calebmb/kindling/internal/helm"
	"github.com/calebmb/kindling/internal/platform/kind"
	"github.com/calebmb/kindling/internal/retry"
	"github.com/calebmb/kindling/internal/sequencer"
	"github.com/calebmb/kindling/internal/util/prerequisites"
)

// Step names for the fixed infrastructure steps. Per-resource steps derive
// their names with the *StepName helpers.
const (
	StepPrerequisites   = "prerequisites"
	StepCluster         = "cluster"
	StepRegistry        = "registry"
	StepRegistryNetwork = "registry-network"
)

// NamespaceStepName returns the step name that ensures a namespace.
func NamespaceStepName(namespace string) string {
	return "namespace:" + namespace
}

// ReleaseStepName returns the step name that installs a chart release.
func ReleaseStepName(release string) string {
	return "release:" + release
}

// ImageStepName returns the step name that builds and pushes an app image.
func ImageStepName(app string) string {
	return "image:" + app
}

// DeployStepName returns the step name that applies an app's manifests.
func DeployStepName(app string) string {
	return "deploy:" + app
}

// BuildProvision assembles the provisioning step graph for a configuration:
// prerequisites, cluster, registry, registry network attachment, namespaces,
// chart releases, image builds, and app deployments.
func BuildProvision(cfg *config.Config, clients *Clients) (*sequencer.Registry, error) {
	reg := sequencer.NewRegistry()

	if err := reg.Register(prerequisitesStep(cfg, clients)); err != nil {
		return nil, err
	}
	if err := reg.Register(clusterStep(cfg, clients)); err != nil {
		return nil, err
	}
	if err := reg.Register(registryStep(cfg, clients)); err != nil {
		return nil, err
	}
	if err := reg.Register(registryNetworkStep(cfg, clients)); err != nil {
		return nil, err
	}

	namespaces := append(append([]string{}, cfg.Namespaces...), cfg.ReleaseNamespaces()...)
	managed := make(map[string]bool, len(namespaces))
	for _, ns := range namespaces {
		managed[ns] = true
		if err := reg.Register(namespaceStep(ns, clients)); err != nil {
			return nil, err
		}
	}

	for i := range cfg.Releases {
		if err := reg.Register(releaseStep(&cfg.Releases[i], managed, clients)); err != nil {
			return nil, err
		}
	}

	for i := range cfg.Apps {
		app := &cfg.Apps[i]
		if err := reg.Register(imageStep(app, clients)); err != nil {
			return nil, err
		}
		if err := reg.Register(deployStep(app, managed, clients)); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// prerequisitesStep fails the run early when a required client tool or the
// docker daemon is unavailable. When the check is disabled in config, the
// step is always satisfied.
func prerequisitesStep(cfg *config.Config, clients *Clients) *sequencer.Step {
	return &sequencer.Step{
		Name: StepPrerequisites,
		IsSatisfied: func(ctx context.Context) (bool, error) {
			if !cfg.PrerequisitesEnabled() {
				return true, nil
			}
			if prerequisites.CheckDefault().HasErrors() {
				return false, nil
			}
			if err := clients.Docker.Info(ctx); err != nil {
				return false, nil
			}
			return true, nil
		},
		Action: func(ctx context.Context) error {
			if err := prerequisites.CheckDefault().Error(); err != nil {
				return err
			}
			return clients.Docker.Info(ctx)
		},
	}
}

func clusterStep(cfg *config.Config, clients *Clients) *sequencer.Step {
	return &sequencer.Step{
		Name:      StepCluster,
		DependsOn: []string{StepPrerequisites},
		IsSatisfied: func(ctx context.Context) (bool, error) {
			return clients.Kind.ClusterExists(ctx, cfg.ClusterName)
		},
		Action: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, clients.Timeouts.ClusterCreate)
			defer cancel()
			return clients.Kind.CreateCluster(ctx, cfg.ClusterName, kind.ClusterOptions{
				NodeImage:    cfg.NodeImage,
				RegistryName: cfg.Registry.Name,
				RegistryPort: cfg.Registry.Port,
			})
		},
	}
}

// registryStep starts the local registry container and waits until it
// reports running, retrying because the container takes a moment to come up.
func registryStep(cfg *config.Config, clients *Clients) *sequencer.Step {
	return &sequencer.Step{
		Name:      StepRegistry,
		DependsOn: []string{StepPrerequisites},
		IsSatisfied: func(ctx context.Context) (bool, error) {
			return clients.Docker.ContainerRunning(ctx, cfg.Registry.Name)
		},
		Action: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, clients.Timeouts.RegistryStart)
			defer cancel()

			// A stopped container with the same name would make docker run
			// fail on a name conflict.
			if err := clients.Docker.RemoveContainer(ctx, cfg.Registry.Name); err != nil {
				return err
			}
			if err := clients.Docker.RunRegistry(ctx, cfg.Registry.Name, cfg.Registry.Port); err != nil {
				return err
			}
			return retry.WithExponentialBackoff(ctx, func() error {
				running, err := clients.Docker.ContainerRunning(ctx, cfg.Registry.Name)
				if err != nil {
					return retry.Fatal(err)
				}
				if !running {
					return fmt.Errorf("registry container %s not running yet", cfg.Registry.Name)
				}
				return nil
			},
				retry.WithMaxRetries(clients.Timeouts.RetryMaxAttempts),
				retry.WithInitialDelay(clients.Timeouts.RetryInitialDelay),
			)
		},
	}
}

// registryNetworkStep attaches the registry container to the cluster's
// docker network so nodes can resolve the containerd mirror endpoint.
func registryNetworkStep(cfg *config.Config, clients *Clients) *sequencer.Step {
	return &sequencer.Step{
		Name:      StepRegistryNetwork,
		DependsOn: []string{StepCluster, StepRegistry},
		IsSatisfied: func(ctx context.Context) (bool, error) {
			return clients.Docker.NetworkContains(ctx, cfg.Registry.Network, cfg.Registry.Name)
		},
		Action: func(ctx context.Context) error {
			return clients.Docker.NetworkConnect(ctx, cfg.Registry.Network, cfg.Registry.Name)
		},
	}
}

func namespaceStep(namespace string, clients *Clients) *sequencer.Step {
	return &sequencer.Step{
		Name:      NamespaceStepName(namespace),
		DependsOn: []string{StepCluster},
		IsSatisfied: func(ctx context.Context) (bool, error) {
			client, err := clients.K8s(ctx)
			if err != nil {
				return false, err
			}
			return client.NamespaceExists(ctx, namespace)
		},
		Action: func(ctx context.Context) error {
			client, err := clients.K8s(ctx)
			if err != nil {
				return err
			}
			return client.EnsureNamespace(ctx, namespace)
		},
	}
}

func releaseStep(rel *config.ReleaseConfig, managed map[string]bool, clients *Clients) *sequencer.Step {
	dependsOn := []string{StepCluster}
	if managed[rel.Namespace] {
		dependsOn = append(dependsOn, NamespaceStepName(rel.Namespace))
	}
	return &sequencer.Step{
		Name:      ReleaseStepName(rel.Name),
		DependsOn: dependsOn,
		IsSatisfied: func(ctx context.Context) (bool, error) {
			client, err := clients.Helm(ctx, rel.Namespace)
			if err != nil {
				return false, err
			}
			return client.ReleaseInstalled(rel.Name)
		},
		Action: func(ctx context.Context) error {
			client, err := clients.Helm(ctx, rel.Namespace)
			if err != nil {
				return err
			}
			values, err := helm.ResolveValues(rel.Values, rel.ValuesFile)
			if err != nil {
				return err
			}
			_, err = client.InstallOrUpgrade(ctx, rel.Name, rel.RepoURL, rel.Chart, rel.Version, values, clients.Timeouts.ChartInstall)
			return err
		},
	}
}

// imageStep builds and pushes an app image. It is never satisfied: builds
// must pick up source changes, and the docker build cache keeps unchanged
// rebuilds cheap.
func imageStep(app *config.AppConfig, clients *Clients) *sequencer.Step {
	return &sequencer.Step{
		Name:      ImageStepName(app.Name),
		DependsOn: []string{StepRegistry},
		IsSatisfied: func(ctx context.Context) (bool, error) {
			return false, nil
		},
		Action: func(ctx context.Context) error {
			if err := clients.Docker.Build(ctx, app.BuildContext, app.Image); err != nil {
				return err
			}
			return clients.Docker.Push(ctx, app.Image)
		},
	}
}

// deployStep applies the app's manifests and waits for the deployment to
// roll out. Server-side apply is idempotent, so the step always applies
// rather than probing; a fresh image would otherwise never reach the
// cluster.
func deployStep(app *config.AppConfig, managed map[string]bool, clients *Clients) *sequencer.Step {
	dependsOn := []string{ImageStepName(app.Name), StepRegistryNetwork}
	if managed[app.Namespace] {
		dependsOn = append(dependsOn, NamespaceStepName(app.Namespace))
	}
	return &sequencer.Step{
		Name:      DeployStepName(app.Name),
		DependsOn: dependsOn,
		IsSatisfied: func(ctx context.Context) (bool, error) {
			return false, nil
		},
		Action: func(ctx context.Context) error {
			client, err := clients.K8s(ctx)
			if err != nil {
				return err
			}
			manifests, err := os.ReadFile(app.Manifest)
			if err != nil {
				return fmt.Errorf("failed to read manifest for app %s: %w", app.Name, err)
			}
			if err := client.ApplyManifests(ctx, manifests, app.Namespace, FieldManager); err != nil {
				return err
			}
			return client.WaitForDeployment(ctx, app.Namespace, app.Name, clients.Timeouts.Deploy)
		},
	}
}
