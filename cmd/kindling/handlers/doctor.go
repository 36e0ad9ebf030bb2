package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/calebmb/kindling/internal/util/prerequisites"
)

// checkAllPrereqs checks required and optional tools. Replaceable in tests.
var checkAllPrereqs = prerequisites.CheckAll

// Diagnosis represents the local setup diagnostic result.
type Diagnosis struct {
	Tools        []ToolStatus `json:"tools"`
	DockerDaemon bool         `json:"dockerDaemon"`
	Config       ConfigStatus `json:"config"`
}

// ToolStatus represents one client tool's availability.
type ToolStatus struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
	Found    bool   `json:"found"`
	Version  string `json:"version,omitempty"`
}

// ConfigStatus represents the configuration file diagnostic.
type ConfigStatus struct {
	Path  string `json:"path,omitempty"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// Doctor diagnoses the local setup: client tools, the docker daemon, and
// the configuration file. A missing config file is reported rather than
// fatal, so doctor is useful before 'kindling init' has run.
func Doctor(ctx context.Context, configPath string, jsonOutput bool) error {
	diagnosis := &Diagnosis{}

	results := checkAllPrereqs()
	for _, r := range results.Results {
		diagnosis.Tools = append(diagnosis.Tools, ToolStatus{
			Name:     r.Tool.Name,
			Required: r.Tool.Required,
			Found:    r.Found,
			Version:  r.Version,
		})
	}

	dockerFound := false
	for _, r := range results.Results {
		if r.Tool.Name == "docker" && r.Found {
			dockerFound = true
		}
	}
	if dockerFound {
		diagnosis.DockerDaemon = newDockerClient().Info(ctx) == nil
	}

	diagnosis.Config = diagnoseConfig(configPath)

	if jsonOutput {
		b, err := json.MarshalIndent(diagnosis, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		fmt.Println(string(b))
	} else {
		printDiagnosis(diagnosis)
	}

	if err := results.Error(); err != nil {
		return err
	}
	if dockerFound && !diagnosis.DockerDaemon {
		return fmt.Errorf("docker daemon not reachable")
	}
	return nil
}

// diagnoseConfig checks the config file without treating absence as fatal.
func diagnoseConfig(configPath string) ConfigStatus {
	path, err := findConfigFile(configPath)
	if err != nil {
		return ConfigStatus{Error: err.Error()}
	}
	if _, err := loadConfigFile(path); err != nil {
		return ConfigStatus{Path: path, Error: err.Error()}
	}
	return ConfigStatus{Path: path, Valid: true}
}

func printDiagnosis(d *Diagnosis) {
	fmt.Println()
	fmt.Println("kindling doctor")
	fmt.Println("===============")
	fmt.Println()

	fmt.Println("Client tools:")
	for _, tool := range d.Tools {
		state := "missing"
		if tool.Found {
			state = "found"
			if tool.Version != "" {
				state = tool.Version
			}
		}
		kind := "optional"
		if tool.Required {
			kind = "required"
		}
		fmt.Printf("  %-10s %-9s %s\n", tool.Name, kind, state)
	}

	fmt.Println()
	fmt.Printf("Docker daemon: %s\n", mark(d.DockerDaemon))

	fmt.Println()
	switch {
	case d.Config.Valid:
		fmt.Printf("Config: %s %s\n", d.Config.Path, mark(true))
	case d.Config.Path != "":
		fmt.Printf("Config: %s invalid: %s\n", d.Config.Path, d.Config.Error)
	default:
		fmt.Printf("Config: %s\n", d.Config.Error)
	}
	fmt.Println()
}
