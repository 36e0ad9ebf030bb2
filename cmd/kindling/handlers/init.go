package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/calebmb/kindling/internal/config"
	"github.com/calebmb/kindling/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the interactive wizard.
	runWizard = wizard.RunWizard

	// writeConfigFile writes the config to a file.
	writeConfigFile = config.WriteFile
)

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string) error {
	if fileExists(outputPath) {
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg := result.ToConfig()

	if err := writeConfigFile(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)
	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("kindling - local Kubernetes development environments")
	fmt.Println("====================================================")
	fmt.Println()
	fmt.Println("This wizard creates an environment configuration with sensible defaults.")
	fmt.Println("Just answer a few questions.")
	fmt.Println()
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Environment Summary")
	fmt.Println("-------------------")
	fmt.Printf("  Cluster:    %s (kind)\n", cfg.ClusterName)
	fmt.Printf("  Registry:   %s\n", cfg.RegistryHost())
	fmt.Printf("  Namespaces: %d\n", len(cfg.Namespaces))
	fmt.Printf("  Releases:   %d\n", len(cfg.Releases))
	fmt.Println()

	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Printf("  1. Review %s; add your apps under the apps section\n", outputPath)
	fmt.Println()
	fmt.Println("  2. Bring up the environment:")
	fmt.Println("     kindling up")
	fmt.Println()
}
