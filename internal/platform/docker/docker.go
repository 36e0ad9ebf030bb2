// Package docker wraps the docker CLI for the operations kindling needs:
// building and pushing application images, and managing the local registry
// container.
package docker

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// registryImage is the upstream image used for the local registry container.
const registryImage = "registry:2"

// runner executes a command and returns combined trimmed stdout.
// Replaceable in tests.
type runner func(ctx context.Context, name string, args ...string) (string, error)

// Client shells out to the docker CLI.
type Client struct {
	run runner
}

// NewClient creates a docker client using the real CLI.
func NewClient() *Client {
	return &Client{run: runCommand}
}

// NewClientWithRunner creates a client with a custom command runner.
// Used in tests.
func NewClientWithRunner(run func(ctx context.Context, name string, args ...string) (string, error)) *Client {
	return &Client{run: run}
}

// Info probes whether the docker daemon is reachable.
func (c *Client) Info(ctx context.Context) error {
	if _, err := c.run(ctx, "docker", "info"); err != nil {
		return fmt.Errorf("docker daemon not reachable: %w", err)
	}
	return nil
}

// Build builds an image from the given context directory and tags it.
func (c *Client) Build(ctx context.Context, buildContext, tag string) error {
	if _, err := c.run(ctx, "docker", "build", "-t", tag, buildContext); err != nil {
		return fmt.Errorf("docker build %s: %w", tag, err)
	}
	return nil
}

// Push pushes a tagged image, typically to the local registry.
func (c *Client) Push(ctx context.Context, tag string) error {
	if _, err := c.run(ctx, "docker", "push", tag); err != nil {
		return fmt.Errorf("docker push %s: %w", tag, err)
	}
	return nil
}

// ContainerRunning reports whether a container with the given name is
// currently running. A missing container is not an error.
func (c *Client) ContainerRunning(ctx context.Context, name string) (bool, error) {
	out, err := c.run(ctx, "docker", "inspect", "-f", "{{.State.Running}}", name)
	if err != nil {
		if strings.Contains(err.Error(), "No such object") {
			return false, nil
		}
		return false, fmt.Errorf("docker inspect %s: %w", name, err)
	}
	return strings.TrimSpace(out) == "true", nil
}

// ContainerExists reports whether a container with the given name exists in
// any state.
func (c *Client) ContainerExists(ctx context.Context, name string) (bool, error) {
	_, err := c.run(ctx, "docker", "inspect", "-f", "{{.Name}}", name)
	if err != nil {
		if strings.Contains(err.Error(), "No such object") {
			return false, nil
		}
		return false, fmt.Errorf("docker inspect %s: %w", name, err)
	}
	return true, nil
}

// RunRegistry starts the local registry container, restarting with the
// daemon so it survives host reboots.
func (c *Client) RunRegistry(ctx context.Context, name string, port int) error {
	_, err := c.run(ctx, "docker", "run", "-d", "--restart=always",
		"-p", fmt.Sprintf("127.0.0.1:%d:5000", port),
		"--name", name, registryImage)
	if err != nil {
		return fmt.Errorf("failed to start registry container %s: %w", name, err)
	}
	return nil
}

// NetworkConnect attaches a container to a docker network. Reconnecting an
// already-attached container is not an error.
func (c *Client) NetworkConnect(ctx context.Context, network, container string) error {
	_, err := c.run(ctx, "docker", "network", "connect", network, container)
	if err != nil {
		if strings.Contains(err.Error(), "already exists in network") {
			return nil
		}
		return fmt.Errorf("failed to connect %s to network %s: %w", container, network, err)
	}
	return nil
}

// NetworkContains reports whether a container is attached to a network.
func (c *Client) NetworkContains(ctx context.Context, network, container string) (bool, error) {
	out, err := c.run(ctx, "docker", "network", "inspect", network,
		"-f", "{{range .Containers}}{{.Name}} {{end}}")
	if err != nil {
		if strings.Contains(err.Error(), "No such network") {
			return false, nil
		}
		return false, fmt.Errorf("docker network inspect %s: %w", network, err)
	}
	for _, name := range strings.Fields(out) {
		if name == container {
			return true, nil
		}
	}
	return false, nil
}

// RemoveContainer force-removes a container. A missing container is not an
// error.
func (c *Client) RemoveContainer(ctx context.Context, name string) error {
	if _, err := c.run(ctx, "docker", "rm", "-f", name); err != nil {
		if strings.Contains(err.Error(), "No such container") {
			return nil
		}
		return fmt.Errorf("docker rm %s: %w", name, err)
	}
	return nil
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
