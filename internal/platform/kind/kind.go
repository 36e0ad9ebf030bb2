// Package kind wraps the kind CLI for cluster lifecycle operations.
package kind

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ClusterOptions configures cluster creation.
type ClusterOptions struct {
	// NodeImage pins the kind node image. Empty uses kind's default.
	NodeImage string

	// RegistryName and RegistryPort wire the local registry into the
	// cluster's containerd config so nodes can pull from it.
	RegistryName string
	RegistryPort int
}

// runner executes a command and returns trimmed stdout. Replaceable in tests.
type runner func(ctx context.Context, name string, args ...string) (string, error)

// Client shells out to the kind CLI.
type Client struct {
	run runner
}

// NewClient creates a kind client using the real CLI.
func NewClient() *Client {
	return &Client{run: runCommand}
}

// NewClientWithRunner creates a client with a custom command runner.
// Used in tests.
func NewClientWithRunner(run func(ctx context.Context, name string, args ...string) (string, error)) *Client {
	return &Client{run: run}
}

// ClusterExists reports whether a kind cluster with the given name exists.
func (c *Client) ClusterExists(ctx context.Context, name string) (bool, error) {
	out, err := c.run(ctx, "kind", "get", "clusters")
	if err != nil {
		return false, fmt.Errorf("kind get clusters: %w", err)
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == name {
			return true, nil
		}
	}
	return false, nil
}

// CreateCluster creates a kind cluster with the registry mirror configured.
func (c *Client) CreateCluster(ctx context.Context, name string, opts ClusterOptions) error {
	configFile, err := writeClusterConfig(RenderClusterConfig(opts))
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(configFile) }()

	args := []string{"create", "cluster", "--name", name, "--config", configFile}
	if opts.NodeImage != "" {
		args = append(args, "--image", opts.NodeImage)
	}

	if _, err := c.run(ctx, "kind", args...); err != nil {
		return fmt.Errorf("kind create cluster %s: %w", name, err)
	}
	return nil
}

// DeleteCluster deletes a kind cluster. Deleting a missing cluster is not an
// error; kind itself treats it as a no-op.
func (c *Client) DeleteCluster(ctx context.Context, name string) error {
	if _, err := c.run(ctx, "kind", "delete", "cluster", "--name", name); err != nil {
		return fmt.Errorf("kind delete cluster %s: %w", name, err)
	}
	return nil
}

// Kubeconfig returns the kubeconfig for a cluster as bytes.
func (c *Client) Kubeconfig(ctx context.Context, name string) ([]byte, error) {
	out, err := c.run(ctx, "kind", "get", "kubeconfig", "--name", name)
	if err != nil {
		return nil, fmt.Errorf("kind get kubeconfig %s: %w", name, err)
	}
	return []byte(out), nil
}

// RenderClusterConfig renders the kind cluster config YAML. When a registry
// is configured, a containerd mirror entry lets cluster nodes resolve
// localhost:<port> image references to the registry container.
func RenderClusterConfig(opts ClusterOptions) string {
	var config strings.Builder
	config.WriteString("kind: Cluster\n")
	config.WriteString("apiVersion: kind.x-k8s.io/v1alpha4\n")

	if opts.RegistryName != "" && opts.RegistryPort > 0 {
		config.WriteString("containerdConfigPatches:\n")
		config.WriteString("- |-\n")
		config.WriteString(fmt.Sprintf("  [plugins.\"io.containerd.grpc.v1.cri\".registry.mirrors.\"localhost:%d\"]\n", opts.RegistryPort))
		config.WriteString(fmt.Sprintf("    endpoint = [\"http://%s:5000\"]\n", opts.RegistryName))
	}

	config.WriteString("nodes:\n")
	config.WriteString("- role: control-plane\n")
	return config.String()
}

// writeClusterConfig writes the rendered config to a temp file for --config.
func writeClusterConfig(content string) (string, error) {
	f, err := os.CreateTemp("", "kindling-cluster-*.yaml")
	if err != nil {
		return "", fmt.Errorf("failed to create cluster config: %w", err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write cluster config: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close cluster config: %w", err)
	}
	return f.Name(), nil
}

// runCommand executes a command, returning stdout and folding stderr into
// the error for diagnostics.
func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	// #nosec G204 -- command names and arguments come from static step definitions
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s %s: %v: %s", name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
