package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"helm.sh/helm/v3/pkg/release"

	"github.com/calebmb/kindling/internal/config"
	"github.com/calebmb/kindling/internal/platform/docker"
	"github.com/calebmb/kindling/internal/platform/kind"
	"github.com/calebmb/kindling/internal/steps"
)

// fakeEnv simulates the external systems behind the platform clients.
type fakeEnv struct {
	clusterExists    bool
	registryExists   bool
	registryRunning  bool
	registryAttached bool

	namespaces       map[string]bool
	releases         map[string]bool
	deploymentsReady map[string]bool

	readyPods int
	totalPods int

	applied    []string
	installs   []string
	uninstalls []string
	installErr error
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{
		namespaces:       make(map[string]bool),
		releases:         make(map[string]bool),
		deploymentsReady: make(map[string]bool),
	}
}

func (e *fakeEnv) runDocker(_ context.Context, name string, args ...string) (string, error) {
	cmdline := name + " " + strings.Join(args, " ")
	switch {
	case cmdline == "docker info":
		return "", nil
	case strings.HasPrefix(cmdline, "docker inspect -f {{.State.Running}}"):
		if !e.registryExists {
			return "", errors.New("Error: No such object")
		}
		if e.registryRunning {
			return "true", nil
		}
		return "false", nil
	case strings.HasPrefix(cmdline, "docker inspect -f {{.Name}}"):
		if !e.registryExists {
			return "", errors.New("Error: No such object")
		}
		return "/reg", nil
	case strings.HasPrefix(cmdline, "docker run"):
		e.registryExists = true
		e.registryRunning = true
		return "", nil
	case strings.HasPrefix(cmdline, "docker rm -f"):
		if !e.registryExists {
			return "", errors.New("Error: No such container")
		}
		e.registryExists = false
		e.registryRunning = false
		return "", nil
	case strings.HasPrefix(cmdline, "docker network inspect"):
		if e.registryAttached {
			return "kind-control-plane test-registry", nil
		}
		return "kind-control-plane", nil
	case strings.HasPrefix(cmdline, "docker network connect"):
		e.registryAttached = true
		return "", nil
	case strings.HasPrefix(cmdline, "docker build"), strings.HasPrefix(cmdline, "docker push"):
		return "", nil
	}
	return "", errors.New("unexpected docker command: " + cmdline)
}

func (e *fakeEnv) runKind(_ context.Context, name string, args ...string) (string, error) {
	cmdline := name + " " + strings.Join(args, " ")
	switch {
	case cmdline == "kind get clusters":
		if e.clusterExists {
			return "test\n", nil
		}
		return "", nil
	case strings.HasPrefix(cmdline, "kind create cluster"):
		e.clusterExists = true
		return "", nil
	case strings.HasPrefix(cmdline, "kind delete cluster"):
		e.clusterExists = false
		return "", nil
	case strings.HasPrefix(cmdline, "kind get kubeconfig"):
		return "apiVersion: v1\nkind: Config\n", nil
	}
	return "", errors.New("unexpected kind command: " + cmdline)
}

func (e *fakeEnv) NamespaceExists(_ context.Context, name string) (bool, error) {
	return e.namespaces[name], nil
}

func (e *fakeEnv) EnsureNamespace(_ context.Context, name string) error {
	e.namespaces[name] = true
	return nil
}

func (e *fakeEnv) ApplyManifests(_ context.Context, _ []byte, defaultNamespace, _ string) error {
	e.applied = append(e.applied, defaultNamespace)
	return nil
}

func (e *fakeEnv) DeploymentReady(_ context.Context, namespace, name string) (bool, error) {
	return e.deploymentsReady[namespace+"/"+name], nil
}

func (e *fakeEnv) PodsReady(_ context.Context, _, _ string) (int, int, error) {
	return e.readyPods, e.totalPods, nil
}

func (e *fakeEnv) WaitForDeployment(_ context.Context, namespace, name string, _ time.Duration) error {
	e.deploymentsReady[namespace+"/"+name] = true
	return nil
}

func (e *fakeEnv) ReleaseInstalled(releaseName string) (bool, error) {
	return e.releases[releaseName], nil
}

func (e *fakeEnv) InstallOrUpgrade(_ context.Context, releaseName, _, _, _ string, _ map[string]interface{}, _ time.Duration) (*release.Release, error) {
	if e.installErr != nil {
		return nil, e.installErr
	}
	e.releases[releaseName] = true
	e.installs = append(e.installs, releaseName)
	return nil, nil
}

func (e *fakeEnv) Uninstall(releaseName string, _ time.Duration) error {
	delete(e.releases, releaseName)
	e.uninstalls = append(e.uninstalls, releaseName)
	return nil
}

func (e *fakeEnv) clients() *steps.Clients {
	return &steps.Clients{
		Docker: docker.NewClientWithRunner(e.runDocker),
		Kind:   kind.NewClientWithRunner(e.runKind),
		Timeouts: &config.Timeouts{
			ClusterCreate:     time.Minute,
			RegistryStart:     time.Minute,
			ChartInstall:      time.Minute,
			Deploy:            time.Minute,
			Teardown:          time.Minute,
			RetryMaxAttempts:  2,
			RetryInitialDelay: time.Millisecond,
		},
		K8s: func(ctx context.Context) (steps.KubeClient, error) {
			return e, nil
		},
		Helm: func(ctx context.Context, namespace string) (steps.HelmClient, error) {
			return e, nil
		},
	}
}

func testEnvConfig() *config.Config {
	disabled := false
	return &config.Config{
		ClusterName: "test",
		Registry: config.RegistryConfig{
			Name:    "test-registry",
			Port:    5001,
			Network: "kind",
		},
		Namespaces: []string{"monitoring"},
		Releases: []config.ReleaseConfig{
			{
				Name:      "loki",
				RepoURL:   "https://grafana.github.io/helm-charts",
				Chart:     "loki",
				Namespace: "logging",
			},
		},
		PrerequisitesCheck: &disabled,
	}
}

// swapEnvFactories injects a canned config and fake clients, restoring the
// real factories after the test.
func swapEnvFactories(t *testing.T, cfg *config.Config, env *fakeEnv) {
	t.Helper()

	origFind := findConfigFile
	origLoad := loadConfigFile
	origClients := newEnvClients
	t.Cleanup(func() {
		findConfigFile = origFind
		loadConfigFile = origLoad
		newEnvClients = origClients
	})

	findConfigFile = func(explicit string) (string, error) {
		if explicit != "" {
			return explicit, nil
		}
		return config.DefaultConfigFile, nil
	}
	loadConfigFile = func(string) (*config.Config, error) {
		return cfg, nil
	}
	newEnvClients = func(*config.Config) *steps.Clients {
		return env.clients()
	}
}

// captureOutput captures stdout during f.
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}
