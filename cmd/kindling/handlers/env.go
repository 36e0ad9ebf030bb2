// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic and
// can be tested independently of the CLI framework.
package handlers

import (
	"fmt"
	"log"

	"github.com/calebmb/kindling/internal/config"
	"github.com/calebmb/kindling/internal/platform/docker"
	"github.com/calebmb/kindling/internal/platform/kind"
	"github.com/calebmb/kindling/internal/sequencer"
	"github.com/calebmb/kindling/internal/steps"
)

// Factory function variables - can be replaced in tests for dependency
// injection.
var (
	// findConfigFile resolves the config file path.
	findConfigFile = config.FindConfigFile

	// loadConfigFile loads config from file.
	loadConfigFile = config.LoadFile

	// loadTimeouts loads timeout configuration from the environment.
	loadTimeouts = config.LoadTimeouts

	// newDockerClient creates the production docker client.
	newDockerClient = docker.NewClient

	// newEnvClients wires the production platform clients for a config.
	newEnvClients = func(cfg *config.Config) *steps.Clients {
		return steps.NewClients(cfg.ClusterName, docker.NewClient(), kind.NewClient(), loadTimeouts())
	}

	// executeSteps runs a step graph.
	executeSteps = sequencer.Execute
)

// loadConfig resolves and loads the environment configuration. If
// configPath is empty, it looks for kindling.yaml in the current directory.
func loadConfig(configPath string) (*config.Config, error) {
	path, err := findConfigFile(configPath)
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log.Printf("Using config: %s", path)
	return cfg, nil
}
