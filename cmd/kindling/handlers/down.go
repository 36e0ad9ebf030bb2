package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/charmbracelet/huh"

	"github.com/calebmb/kindling/internal/sequencer"
	"github.com/calebmb/kindling/internal/steps"
)

// confirmTeardown asks the user to confirm the teardown. Replaceable in
// tests.
var confirmTeardown = func(clusterName string) (bool, error) {
	var confirmed bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Tear down environment %q?", clusterName)).
		Description("The kind cluster and the local registry container will be deleted.").
		Value(&confirmed).
		Run()
	return confirmed, err
}

// Down tears down the local development environment.
//
// Teardown steps are best-effort: a release that fails to uninstall does
// not block the cluster deletion, and resources that are already gone are
// skipped.
func Down(ctx context.Context, configPath string, skipConfirmation bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if !skipConfirmation {
		confirmed, err := confirmTeardown(cfg.ClusterName)
		if err != nil {
			return fmt.Errorf("confirmation aborted: %w", err)
		}
		if !confirmed {
			fmt.Println("Teardown canceled.")
			return nil
		}
	}

	log.Printf("Tearing down environment: %s", cfg.ClusterName)

	clients := newEnvClients(cfg)
	reg, err := steps.BuildTeardown(cfg, clients)
	if err != nil {
		return fmt.Errorf("failed to assemble step graph: %w", err)
	}

	run, err := executeSteps(ctx, reg, sequencer.NewConsoleObserver())
	if err != nil {
		return err
	}
	if err := run.Err(); err != nil {
		return fmt.Errorf("teardown finished with errors: %w", err)
	}

	log.Printf("Environment %s torn down", cfg.ClusterName)
	return nil
}
