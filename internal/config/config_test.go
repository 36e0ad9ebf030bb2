package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		ClusterName: "dev",
		Registry:    RegistryConfig{Name: "dev-registry", Port: 5001, Network: "kind"},
		Namespaces:  []string{"monitoring"},
		Releases: []ReleaseConfig{
			{Name: "loki", RepoURL: "https://grafana.github.io/helm-charts", Chart: "loki", Namespace: "logging"},
		},
		Apps: []AppConfig{
			{Name: "backend", Image: "localhost:5001/backend", BuildContext: "./backend", Manifest: "deploy/backend.yaml", Namespace: "apps"},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	t.Parallel()
	require.NoError(t, validConfig().Validate())
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing cluster name",
			mutate:  func(c *Config) { c.ClusterName = "" },
			wantErr: "cluster_name is required",
		},
		{
			name:    "invalid cluster name",
			mutate:  func(c *Config) { c.ClusterName = "Not Valid" },
			wantErr: "lowercase",
		},
		{
			name:    "registry port out of range",
			mutate:  func(c *Config) { c.Registry.Port = 70000 },
			wantErr: "out of range",
		},
		{
			name: "duplicate release",
			mutate: func(c *Config) {
				c.Releases = append(c.Releases, c.Releases[0])
			},
			wantErr: "duplicate release name",
		},
		{
			name:    "release missing chart",
			mutate:  func(c *Config) { c.Releases[0].Chart = "" },
			wantErr: "repo_url and chart",
		},
		{
			name:    "release missing namespace",
			mutate:  func(c *Config) { c.Releases[0].Namespace = "" },
			wantErr: "needs a namespace",
		},
		{
			name:    "app missing image",
			mutate:  func(c *Config) { c.Apps[0].Image = "" },
			wantErr: "needs an image reference",
		},
		{
			name:    "app missing manifest",
			mutate:  func(c *Config) { c.Apps[0].Manifest = "" },
			wantErr: "needs a manifest path",
		},
		{
			name: "duplicate app",
			mutate: func(c *Config) {
				c.Apps = append(c.Apps, c.Apps[0])
			},
			wantErr: "duplicate app name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReleaseNamespaces(t *testing.T) {
	t.Parallel()
	cfg := validConfig()

	extra := cfg.ReleaseNamespaces()

	// logging (from the loki release) and apps (from backend) are not in
	// Namespaces and must be surfaced exactly once, in first-seen order.
	assert.Equal(t, []string{"logging", "apps"}, extra)
}

func TestReleaseNamespaces_IgnoresDefault(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Apps[0].Namespace = "default"

	assert.Equal(t, []string{"logging"}, cfg.ReleaseNamespaces())
}

func TestPrerequisitesEnabled(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	assert.True(t, cfg.PrerequisitesEnabled())

	disabled := false
	cfg.PrerequisitesCheck = &disabled
	assert.False(t, cfg.PrerequisitesEnabled())
}

func TestDefault(t *testing.T) {
	t.Parallel()
	cfg := Default("")

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "kindling", cfg.ClusterName)
	assert.Equal(t, "kindling-registry", cfg.Registry.Name)
	assert.Equal(t, 5001, cfg.Registry.Port)

	names := make([]string, 0, len(cfg.Releases))
	for _, rel := range cfg.Releases {
		names = append(names, rel.Name)
	}
	assert.Equal(t, []string{"kube-prometheus-stack", "loki", "fluent-bit"}, names)
}

func TestRegistryHost(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	assert.Equal(t, "localhost:5001", cfg.RegistryHost())
}

func TestApp(t *testing.T) {
	t.Parallel()
	cfg := validConfig()

	require.NotNil(t, cfg.App("backend"))
	assert.Nil(t, cfg.App("frontend"))
	assert.Equal(t, []string{"backend"}, cfg.AppNames())
}
