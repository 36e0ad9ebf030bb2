// Package steps assembles the provisioning and teardown step graphs from a
// loaded configuration. The step definitions bind the platform clients
// (docker, kind, client-go, helm) to the sequencer's probe/action model.
package steps

import (
	"context"
	"fmt"
	"sync"
	"time"

	"helm.sh/helm/v3/pkg/release"

	"github.com/calebmb/kindling/internal/config"
	"github.com/calebmb/kindling/internal/helm"
	"github.com/calebmb/kindling/internal/k8s"
	"github.com/calebmb/kindling/internal/platform/docker"
	"github.com/calebmb/kindling/internal/platform/kind"
)

// FieldManager is the server-side apply field manager for all manifests
// kindling applies.
const FieldManager = "kindling"

// KubeClient is the subset of the Kubernetes client the steps need.
type KubeClient interface {
	NamespaceExists(ctx context.Context, name string) (bool, error)
	EnsureNamespace(ctx context.Context, name string) error
	ApplyManifests(ctx context.Context, manifests []byte, defaultNamespace, fieldManager string) error
	DeploymentReady(ctx context.Context, namespace, name string) (bool, error)
	PodsReady(ctx context.Context, namespace, labelSelector string) (ready, total int, err error)
	WaitForDeployment(ctx context.Context, namespace, name string, timeout time.Duration) error
}

// HelmClient is the subset of the Helm client the steps need. Each client
// is bound to one namespace.
type HelmClient interface {
	ReleaseInstalled(releaseName string) (bool, error)
	InstallOrUpgrade(ctx context.Context, releaseName, repoURL, chartName, version string, values map[string]interface{}, timeout time.Duration) (*release.Release, error)
	Uninstall(releaseName string, timeout time.Duration) error
}

// Clients bundles everything the step graphs touch. The K8s and Helm
// factories are lazy because the cluster (and hence its kubeconfig) may not
// exist until the cluster step has run.
type Clients struct {
	Docker   *docker.Client
	Kind     *kind.Client
	Timeouts *config.Timeouts

	K8s  func(ctx context.Context) (KubeClient, error)
	Helm func(ctx context.Context, namespace string) (HelmClient, error)
}

// NewClients wires the production clients for a cluster. Kubeconfig fetch
// and client construction are memoized; helm clients are cached per
// namespace because helm actions are namespace-scoped.
func NewClients(clusterName string, dockerClient *docker.Client, kindClient *kind.Client, timeouts *config.Timeouts) *Clients {
	cache := &clientCache{
		clusterName: clusterName,
		kind:        kindClient,
		helmByNS:    make(map[string]HelmClient),
	}
	return &Clients{
		Docker:   dockerClient,
		Kind:     kindClient,
		Timeouts: timeouts,
		K8s:      cache.k8sClient,
		Helm:     cache.helmClient,
	}
}

type clientCache struct {
	clusterName string
	kind        *kind.Client

	mu         sync.Mutex
	kubeconfig []byte
	k8s        KubeClient
	helmByNS   map[string]HelmClient
}

func (c *clientCache) kubeconfigBytes(ctx context.Context) ([]byte, error) {
	if c.kubeconfig != nil {
		return c.kubeconfig, nil
	}
	kubeconfig, err := c.kind.Kubeconfig(ctx, c.clusterName)
	if err != nil {
		return nil, fmt.Errorf("failed to get kubeconfig for cluster %s: %w", c.clusterName, err)
	}
	c.kubeconfig = kubeconfig
	return kubeconfig, nil
}

func (c *clientCache) k8sClient(ctx context.Context) (KubeClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.k8s != nil {
		return c.k8s, nil
	}
	kubeconfig, err := c.kubeconfigBytes(ctx)
	if err != nil {
		return nil, err
	}
	client, err := k8s.NewFromKubeconfig(kubeconfig)
	if err != nil {
		return nil, err
	}
	c.k8s = client
	return client, nil
}

func (c *clientCache) helmClient(ctx context.Context, namespace string) (HelmClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.helmByNS[namespace]; ok {
		return client, nil
	}
	kubeconfig, err := c.kubeconfigBytes(ctx)
	if err != nil {
		return nil, err
	}
	client, err := helm.NewClient(kubeconfig, namespace)
	if err != nil {
		return nil, err
	}
	c.helmByNS[namespace] = client
	return client, nil
}
