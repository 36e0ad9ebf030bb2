package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/calebmb/kindling/internal/config"
	"github.com/calebmb/kindling/internal/sequencer"
	"github.com/calebmb/kindling/internal/steps"
)

// Up provisions the local development environment.
//
// The handler assembles the provisioning step graph from the configuration
// and executes it in dependency order:
//  1. Client tool and docker daemon checks
//  2. kind cluster with the registry mirror wired into containerd
//  3. Local registry container, attached to the cluster network
//  4. Namespaces
//  5. Chart releases (observability stack)
//  6. Application image builds and deployments
//
// Steps whose desired state already holds are skipped, so a second run on
// a healthy environment performs no work. When only is non-empty, just the
// named steps and their transitive dependencies run.
func Up(ctx context.Context, configPath string, only []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	log.Printf("Bringing up environment: %s", cfg.ClusterName)

	clients := newEnvClients(cfg)
	reg, err := steps.BuildProvision(cfg, clients)
	if err != nil {
		return fmt.Errorf("failed to assemble step graph: %w", err)
	}

	run, err := executeSteps(ctx, reg, sequencer.NewConsoleObserver(), only...)
	if err != nil {
		return err
	}
	if err := run.Err(); err != nil {
		return err
	}

	printUpSuccess(cfg, run)
	return nil
}

// printUpSuccess outputs the completion message and next steps.
func printUpSuccess(cfg *config.Config, run *sequencer.Run) {
	var executed, skipped int
	for _, res := range run.Results {
		if res.Status == sequencer.Skipped {
			skipped++
		} else {
			executed++
		}
	}

	fmt.Printf("\nEnvironment ready!\n")
	fmt.Printf("  Cluster:  %s (kind)\n", cfg.ClusterName)
	fmt.Printf("  Registry: %s\n", cfg.RegistryHost())
	fmt.Printf("  Steps:    %d executed, %d already satisfied\n", executed, skipped)
	fmt.Printf("\nNext steps:\n")
	fmt.Printf("  kubectl get pods -A\n")
	fmt.Printf("  kindling status\n")
}
