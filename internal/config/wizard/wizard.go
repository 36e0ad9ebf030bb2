// Package wizard implements the interactive questionnaire behind
// 'kindling init'. It collects a handful of answers and expands them into a
// full configuration with sensible defaults.
package wizard

import (
	"context"
	"fmt"
	"strconv"

	"github.com/calebmb/kindling/internal/config"
)

// Stack names offered by the wizard.
const (
	StackMonitoring = "monitoring"
	StackLogging    = "logging"
)

// Result holds all the answers from the interactive wizard.
type Result struct {
	ClusterName   string
	RegistryPort  int
	EnabledStacks []string
}

// RunWizard runs the interactive configuration wizard.
// The context is used for cancellation support (e.g., Ctrl+C).
func RunWizard(ctx context.Context) (*Result, error) {
	result := &Result{
		ClusterName:   "kindling",
		RegistryPort:  5001,
		EnabledStacks: []string{StackMonitoring, StackLogging},
	}

	if err := runIdentityGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("environment identity: %w", err)
	}
	if err := runStacksGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("observability stacks: %w", err)
	}

	return result, nil
}

// ToConfig expands the wizard answers into a full configuration.
func (r *Result) ToConfig() *config.Config {
	cfg := config.Default(r.ClusterName)
	if r.RegistryPort != 0 {
		cfg.Registry.Port = r.RegistryPort
	}

	enabled := make(map[string]bool, len(r.EnabledStacks))
	for _, stack := range r.EnabledStacks {
		enabled[stack] = true
	}

	var releases []config.ReleaseConfig
	var namespaces []string
	for _, rel := range cfg.Releases {
		switch rel.Namespace {
		case StackMonitoring:
			if !enabled[StackMonitoring] {
				continue
			}
		case StackLogging:
			if !enabled[StackLogging] {
				continue
			}
		}
		releases = append(releases, rel)
	}
	for _, ns := range cfg.Namespaces {
		if (ns == StackMonitoring || ns == StackLogging) && !enabled[ns] {
			continue
		}
		namespaces = append(namespaces, ns)
	}

	cfg.Releases = releases
	cfg.Namespaces = namespaces
	return cfg
}

// validatePort checks a port answer before the form accepts it.
func validatePort(raw string) error {
	port, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("port must be a number")
	}
	if port <= 0 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}
