package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/calebmb/kindling/internal/config"
	"github.com/calebmb/kindling/internal/sequencer"
	"github.com/calebmb/kindling/internal/steps"
)

// Deploy builds and deploys application images.
//
// It requests only the deploy steps for the named apps; the sequencer
// pulls in their dependencies (image build, registry, cluster) and skips
// the ones whose state already holds. With no apps named, all configured
// apps are deployed.
func Deploy(ctx context.Context, configPath string, apps []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if len(cfg.Apps) == 0 {
		return fmt.Errorf("no apps configured; add an apps section to %s", config.DefaultConfigFile)
	}
	if len(apps) == 0 {
		apps = cfg.AppNames()
	}

	requested := make([]string, 0, len(apps))
	for _, name := range apps {
		if cfg.App(name) == nil {
			return fmt.Errorf("unknown app %q (configured apps: %s)", name, strings.Join(cfg.AppNames(), ", "))
		}
		requested = append(requested, steps.DeployStepName(name))
	}

	log.Printf("Deploying apps: %s", strings.Join(apps, ", "))

	clients := newEnvClients(cfg)
	reg, err := steps.BuildProvision(cfg, clients)
	if err != nil {
		return fmt.Errorf("failed to assemble step graph: %w", err)
	}

	run, err := executeSteps(ctx, reg, sequencer.NewConsoleObserver(), requested...)
	if err != nil {
		return err
	}
	if err := run.Err(); err != nil {
		return err
	}

	fmt.Printf("\nDeployed %d app(s) to cluster %s\n", len(apps), cfg.ClusterName)
	return nil
}
