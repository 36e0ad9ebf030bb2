package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/calebmb/kindling/internal/config"
	"github.com/calebmb/kindling/internal/k8s"
)

// secretReader is the slice of the Kubernetes client the secrets handler
// needs.
type secretReader interface {
	GetSecretData(ctx context.Context, namespace, name, key string) ([]byte, error)
}

// newSecretReader builds a Kubernetes client from kubeconfig bytes.
// Replaceable in tests.
var newSecretReader = func(kubeconfig []byte) (secretReader, error) {
	return k8s.NewFromKubeconfig(kubeconfig)
}

// secretEntry represents a single credential for display.
type secretEntry struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Value    string `json:"value"`
}

// Secrets retrieves and displays environment credentials, such as the
// Grafana admin password created by the kube-prometheus-stack chart.
func Secrets(ctx context.Context, configPath string, jsonOutput bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	clients := newEnvClients(cfg)
	exists, err := clients.Kind.ClusterExists(ctx, cfg.ClusterName)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("cluster %s not found. Run 'kindling up' first to create the environment", cfg.ClusterName)
	}

	kubeconfig, err := clients.Kind.Kubeconfig(ctx, cfg.ClusterName)
	if err != nil {
		return err
	}
	reader, err := newSecretReader(kubeconfig)
	if err != nil {
		return fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	entries := collectSecrets(ctx, cfg, reader)

	if jsonOutput {
		b, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		fmt.Println(string(b))
		return nil
	}

	printSecretsStyled(cfg.ClusterName, entries)
	return nil
}

// collectSecrets gathers credentials from the cluster and the config.
func collectSecrets(ctx context.Context, cfg *config.Config, reader secretReader) []secretEntry {
	entries := []secretEntry{
		{Category: "Registry", Name: "address", Value: cfg.RegistryHost()},
		{Category: "Cluster", Name: "kubeconfig", Value: fmt.Sprintf("kind get kubeconfig --name %s", cfg.ClusterName)},
	}

	// The kube-prometheus-stack chart stores Grafana's admin credentials
	// in a <release>-grafana secret.
	for _, rel := range cfg.Releases {
		if rel.Chart != "kube-prometheus-stack" {
			continue
		}
		secretName := rel.Name + "-grafana"
		if username, err := reader.GetSecretData(ctx, rel.Namespace, secretName, "admin-user"); err == nil {
			entries = append(entries, secretEntry{
				Category: "Grafana",
				Name:     "admin username",
				Value:    string(username),
			})
		}
		if password, err := reader.GetSecretData(ctx, rel.Namespace, secretName, "admin-password"); err == nil {
			entries = append(entries, secretEntry{
				Category: "Grafana",
				Name:     "admin password",
				Value:    string(password),
			})
		}
	}

	return entries
}

func printSecretsStyled(clusterName string, entries []secretEntry) {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f9fafb"))
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3b82f6"))
	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))

	fmt.Println()
	fmt.Println(titleStyle.Render(fmt.Sprintf("  kindling secrets: %s", clusterName)))
	fmt.Println(dimStyle.Render("  " + strings.Repeat("=", 30)))
	fmt.Println()

	currentCategory := ""
	for _, entry := range entries {
		if entry.Category != currentCategory {
			if currentCategory != "" {
				fmt.Println()
			}
			fmt.Println(sectionStyle.Render("  " + entry.Category))
			fmt.Println(dimStyle.Render("  " + strings.Repeat("-", 35)))
			currentCategory = entry.Category
		}
		fmt.Printf("  %s  %s\n", nameStyle.Render(fmt.Sprintf("%-18s", entry.Name)), valueStyle.Render(entry.Value))
	}

	if len(entries) == 0 {
		fmt.Println(dimStyle.Render("  No credentials found. Is the environment running?"))
	}

	fmt.Println()
}
