// Package config loads and validates the kindling environment configuration.
package config

import (
	"fmt"
	"regexp"
)

// DefaultConfigFile is the config file name looked up in the working directory.
const DefaultConfigFile = "kindling.yaml"

// clusterNameRegex validates cluster name format: 1-32 lowercase alphanumeric with hyphens.
var clusterNameRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,30}[a-z0-9])?$`)

// Config holds the full environment definition: the kind cluster, the local
// registry, namespaces, chart releases, and application deployments.
type Config struct {
	ClusterName string `mapstructure:"cluster_name" yaml:"cluster_name"`

	// NodeImage is the kind node image. Empty means kind's default.
	NodeImage string `mapstructure:"node_image" yaml:"node_image,omitempty"`

	Registry   RegistryConfig  `mapstructure:"registry" yaml:"registry"`
	Namespaces []string        `mapstructure:"namespaces" yaml:"namespaces"`
	Releases   []ReleaseConfig `mapstructure:"releases" yaml:"releases"`
	Apps       []AppConfig     `mapstructure:"apps" yaml:"apps"`

	// PrerequisitesCheck controls the tool availability check before
	// provisioning. Defaults to enabled.
	PrerequisitesCheck *bool `mapstructure:"prerequisites_check" yaml:"prerequisites_check,omitempty"`
}

// RegistryConfig describes the local image registry container.
type RegistryConfig struct {
	// Name is the container name.
	Name string `mapstructure:"name" yaml:"name"`

	// Port is the host port the registry listens on.
	Port int `mapstructure:"port" yaml:"port"`

	// Network is the docker network the registry is attached to so
	// cluster nodes can pull from it. kind creates the "kind" network.
	Network string `mapstructure:"network" yaml:"network"`
}

// ReleaseConfig describes one Helm chart release.
type ReleaseConfig struct {
	Name      string `mapstructure:"name" yaml:"name"`
	RepoURL   string `mapstructure:"repo_url" yaml:"repo_url"`
	Chart     string `mapstructure:"chart" yaml:"chart"`
	Version   string `mapstructure:"version" yaml:"version,omitempty"`
	Namespace string `mapstructure:"namespace" yaml:"namespace"`

	// Values holds inline chart values. ValuesFile, when set, is loaded
	// first and inline values are merged over it.
	Values     map[string]any `mapstructure:"values" yaml:"values,omitempty"`
	ValuesFile string         `mapstructure:"values_file" yaml:"values_file,omitempty"`
}

// AppConfig describes one application image and its deployment manifests.
type AppConfig struct {
	Name string `mapstructure:"name" yaml:"name"`

	// Image is the image reference the build is tagged with, typically
	// pointing at the local registry (localhost:<port>/<name>).
	Image string `mapstructure:"image" yaml:"image"`

	// BuildContext is the docker build context directory.
	BuildContext string `mapstructure:"build_context" yaml:"build_context"`

	// Manifest is the path to the Kubernetes manifests to apply.
	Manifest string `mapstructure:"manifest" yaml:"manifest"`

	Namespace string `mapstructure:"namespace" yaml:"namespace"`
}

// PrerequisitesEnabled reports whether the tool check should run.
func (c *Config) PrerequisitesEnabled() bool {
	return c.PrerequisitesCheck == nil || *c.PrerequisitesCheck
}

// ReleaseNamespaces returns the set of namespaces referenced by releases and
// apps that are not already in Namespaces, preserving first-seen order.
func (c *Config) ReleaseNamespaces() []string {
	seen := make(map[string]bool, len(c.Namespaces))
	for _, ns := range c.Namespaces {
		seen[ns] = true
	}

	var extra []string
	add := func(ns string) {
		if ns != "" && ns != "default" && !seen[ns] {
			seen[ns] = true
			extra = append(extra, ns)
		}
	}
	for _, rel := range c.Releases {
		add(rel.Namespace)
	}
	for _, app := range c.Apps {
		add(app.Namespace)
	}
	return extra
}

// Validate checks the configuration for structural errors.
func (c *Config) Validate() error {
	if c.ClusterName == "" {
		return fmt.Errorf("cluster_name is required")
	}
	if !clusterNameRegex.MatchString(c.ClusterName) {
		return fmt.Errorf("cluster_name %q must be 1-32 lowercase alphanumeric characters or hyphens", c.ClusterName)
	}
	if c.Registry.Port <= 0 || c.Registry.Port > 65535 {
		return fmt.Errorf("registry.port %d is out of range", c.Registry.Port)
	}

	seen := make(map[string]bool, len(c.Releases))
	for _, rel := range c.Releases {
		if rel.Name == "" {
			return fmt.Errorf("release has no name")
		}
		if seen[rel.Name] {
			return fmt.Errorf("duplicate release name: %s", rel.Name)
		}
		seen[rel.Name] = true
		if rel.RepoURL == "" || rel.Chart == "" {
			return fmt.Errorf("release %s needs repo_url and chart", rel.Name)
		}
		if rel.Namespace == "" {
			return fmt.Errorf("release %s needs a namespace", rel.Name)
		}
	}

	seenApps := make(map[string]bool, len(c.Apps))
	for _, app := range c.Apps {
		if app.Name == "" {
			return fmt.Errorf("app has no name")
		}
		if seenApps[app.Name] {
			return fmt.Errorf("duplicate app name: %s", app.Name)
		}
		seenApps[app.Name] = true
		if app.Image == "" {
			return fmt.Errorf("app %s needs an image reference", app.Name)
		}
		if app.Manifest == "" {
			return fmt.Errorf("app %s needs a manifest path", app.Name)
		}
	}

	return nil
}

// RegistryHost returns the registry address as seen from the host.
func (c *Config) RegistryHost() string {
	return fmt.Sprintf("localhost:%d", c.Registry.Port)
}

// App returns the app config with the given name, or nil.
func (c *Config) App(name string) *AppConfig {
	for i := range c.Apps {
		if c.Apps[i].Name == name {
			return &c.Apps[i]
		}
	}
	return nil
}

// AppNames returns the configured app names in declaration order.
func (c *Config) AppNames() []string {
	names := make([]string, len(c.Apps))
	for i, app := range c.Apps {
		names[i] = app.Name
	}
	return names
}

// Default returns a configuration with the standard local environment:
// a single-node cluster, a registry on port 5001, and the observability
// stack (kube-prometheus-stack, Loki, Fluent Bit).
func Default(clusterName string) *Config {
	if clusterName == "" {
		clusterName = "kindling"
	}
	return &Config{
		ClusterName: clusterName,
		Registry: RegistryConfig{
			Name:    clusterName + "-registry",
			Port:    5001,
			Network: "kind",
		},
		Namespaces: []string{"monitoring", "logging", "apps"},
		Releases: []ReleaseConfig{
			{
				Name:      "kube-prometheus-stack",
				RepoURL:   "https://prometheus-community.github.io/helm-charts",
				Chart:     "kube-prometheus-stack",
				Namespace: "monitoring",
			},
			{
				Name:      "loki",
				RepoURL:   "https://grafana.github.io/helm-charts",
				Chart:     "loki",
				Namespace: "logging",
				Values: map[string]any{
					"deploymentMode": "SingleBinary",
				},
			},
			{
				Name:      "fluent-bit",
				RepoURL:   "https://fluent.github.io/helm-charts",
				Chart:     "fluent-bit",
				Namespace: "logging",
			},
		},
	}
}
