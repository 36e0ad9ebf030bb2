package steps

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebmb/kindling/internal/sequencer"
)

func TestBuildTeardown_Graph(t *testing.T) {
	t.Parallel()
	cfg := testConfig()

	reg, err := BuildTeardown(cfg, newFakeClients(newFakeWorld()))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"release-uninstall:loki",
		"cluster-delete",
		"registry-remove",
	}, reg.Names())

	assert.Equal(t, []string{"release-uninstall:loki"}, reg.Get(StepClusterDelete).DependsOn)

	for _, name := range reg.Names() {
		assert.Equal(t, sequencer.BestEffort, reg.Get(name).OnFailure, name)
	}
}

func TestTeardown_RemovesEverything(t *testing.T) {
	t.Parallel()
	w := newFakeWorld()
	w.clusterExists = true
	w.registryExists = true
	w.registryRunning = true
	w.releases["loki"] = true
	cfg := testConfig()

	reg, err := BuildTeardown(cfg, newFakeClients(w))
	require.NoError(t, err)

	run, err := sequencer.Execute(context.Background(), reg, sequencer.NopObserver{})
	require.NoError(t, err)
	require.NoError(t, run.Err())

	assert.False(t, w.clusterExists)
	assert.False(t, w.registryExists)
	assert.Equal(t, []string{"loki"}, w.uninstalls)
}

func TestTeardown_NothingProvisioned(t *testing.T) {
	t.Parallel()
	w := newFakeWorld()
	cfg := testConfig()

	reg, err := BuildTeardown(cfg, newFakeClients(w))
	require.NoError(t, err)

	run, err := sequencer.Execute(context.Background(), reg, sequencer.NopObserver{})
	require.NoError(t, err)
	require.NoError(t, run.Err())

	for _, name := range reg.Names() {
		assert.Equal(t, sequencer.Skipped, run.Results[name].Status, name)
	}
	assert.Empty(t, w.uninstalls)
}

func TestTeardown_UninstallFailureDoesNotBlockClusterDelete(t *testing.T) {
	t.Parallel()
	w := newFakeWorld()
	w.clusterExists = true
	w.registryExists = true
	w.releases["loki"] = true
	cfg := testConfig()

	clients := newFakeClients(w)
	clients.Helm = func(ctx context.Context, namespace string) (HelmClient, error) {
		return failingHelm{}, nil
	}

	reg, err := BuildTeardown(cfg, clients)
	require.NoError(t, err)

	run, err := sequencer.Execute(context.Background(), reg, sequencer.NopObserver{})
	require.NoError(t, err)

	assert.Equal(t, sequencer.Failed, run.Results["release-uninstall:loki"].Status)
	assert.Equal(t, sequencer.Succeeded, run.Results[StepClusterDelete].Status)
	assert.Equal(t, sequencer.Succeeded, run.Results[StepRegistryRemove].Status)
	assert.False(t, w.clusterExists)
	assert.False(t, w.registryExists)
}

// failingHelm reports every release as installed and fails every uninstall.
type failingHelm struct {
	HelmClient
}

func (failingHelm) ReleaseInstalled(string) (bool, error) {
	return true, nil
}

func (failingHelm) Uninstall(string, time.Duration) error {
	return assert.AnError
}
