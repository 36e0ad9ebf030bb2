package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/calebmb/kindling/internal/config"
	"github.com/calebmb/kindling/internal/steps"
)

// EnvStatus represents the environment's current state.
type EnvStatus struct {
	ClusterName   string          `json:"clusterName"`
	ClusterExists bool            `json:"clusterExists"`
	Registry      RegistryStatus  `json:"registry"`
	Releases      []ReleaseStatus `json:"releases,omitempty"`
	Apps          []AppStatus     `json:"apps,omitempty"`
}

// RegistryStatus represents the local registry container state.
type RegistryStatus struct {
	Address  string `json:"address"`
	Running  bool   `json:"running"`
	Attached bool   `json:"attached"`
}

// ReleaseStatus represents one chart release's state.
type ReleaseStatus struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	Installed bool   `json:"installed"`
}

// AppStatus represents one application deployment's state.
type AppStatus struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	Ready     bool   `json:"ready"`
	ReadyPods int    `json:"readyPods"`
	TotalPods int    `json:"totalPods"`
}

// Status reports the current state of the environment: cluster, registry,
// chart releases, and application rollouts.
func Status(ctx context.Context, configPath string, jsonOutput bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	clients := newEnvClients(cfg)
	status := collectStatus(ctx, cfg, clients)

	if jsonOutput {
		b, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		fmt.Println(string(b))
		return nil
	}

	printStatus(status)
	return nil
}

// collectStatus probes the external systems. Probe errors degrade to
// "absent" rather than failing the whole status report: a stopped docker
// daemon is exactly the situation status should describe.
func collectStatus(ctx context.Context, cfg *config.Config, clients *steps.Clients) *EnvStatus {
	status := &EnvStatus{
		ClusterName: cfg.ClusterName,
		Registry:    RegistryStatus{Address: cfg.RegistryHost()},
	}

	status.ClusterExists, _ = clients.Kind.ClusterExists(ctx, cfg.ClusterName)
	status.Registry.Running, _ = clients.Docker.ContainerRunning(ctx, cfg.Registry.Name)
	status.Registry.Attached, _ = clients.Docker.NetworkContains(ctx, cfg.Registry.Network, cfg.Registry.Name)

	for _, rel := range cfg.Releases {
		installed := false
		if status.ClusterExists {
			if client, err := clients.Helm(ctx, rel.Namespace); err == nil {
				installed, _ = client.ReleaseInstalled(rel.Name)
			}
		}
		status.Releases = append(status.Releases, ReleaseStatus{
			Name:      rel.Name,
			Namespace: rel.Namespace,
			Installed: installed,
		})
	}

	for _, app := range cfg.Apps {
		ready := false
		var readyPods, totalPods int
		if status.ClusterExists {
			if client, err := clients.K8s(ctx); err == nil {
				ready, _ = client.DeploymentReady(ctx, app.Namespace, app.Name)
				readyPods, totalPods, _ = client.PodsReady(ctx, app.Namespace, "app="+app.Name)
			}
		}
		status.Apps = append(status.Apps, AppStatus{
			Name:      app.Name,
			Namespace: app.Namespace,
			Ready:     ready,
			ReadyPods: readyPods,
			TotalPods: totalPods,
		})
	}

	return status
}

func printStatus(status *EnvStatus) {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f9fafb"))
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3b82f6"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))

	fmt.Println()
	fmt.Println(titleStyle.Render(fmt.Sprintf("  kindling status: %s", status.ClusterName)))
	fmt.Println(dimStyle.Render("  " + strings.Repeat("=", 30)))
	fmt.Println()

	fmt.Println(sectionStyle.Render("  Infrastructure"))
	fmt.Printf("  %-24s %s\n", "cluster", mark(status.ClusterExists))
	fmt.Printf("  %-24s %s (%s)\n", "registry", mark(status.Registry.Running), status.Registry.Address)
	fmt.Printf("  %-24s %s\n", "registry network", mark(status.Registry.Attached))

	if len(status.Releases) > 0 {
		fmt.Println()
		fmt.Println(sectionStyle.Render("  Releases"))
		for _, rel := range status.Releases {
			fmt.Printf("  %-24s %s (%s)\n", rel.Name, mark(rel.Installed), rel.Namespace)
		}
	}

	if len(status.Apps) > 0 {
		fmt.Println()
		fmt.Println(sectionStyle.Render("  Apps"))
		for _, app := range status.Apps {
			fmt.Printf("  %-24s %s (%s, pods %d/%d)\n",
				app.Name, mark(app.Ready), app.Namespace, app.ReadyPods, app.TotalPods)
		}
	}

	fmt.Println()
}

// mark renders a presence indicator, with glyphs only on a real terminal
// so piped output stays grep-friendly.
func mark(ok bool) string {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		if ok {
			return lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")).Render("✓")
		}
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Render("✗")
	}
	if ok {
		return "ok"
	}
	return "absent"
}
