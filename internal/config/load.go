package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// LoadFile reads and parses the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &cfg,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := decoder.Decode(rawConfig); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills in values the file may omit.
func applyDefaults(cfg *Config) {
	if cfg.Registry.Name == "" && cfg.ClusterName != "" {
		cfg.Registry.Name = cfg.ClusterName + "-registry"
	}
	if cfg.Registry.Port == 0 {
		cfg.Registry.Port = 5001
	}
	if cfg.Registry.Network == "" {
		cfg.Registry.Network = "kind"
	}
	for i := range cfg.Apps {
		if cfg.Apps[i].BuildContext == "" {
			cfg.Apps[i].BuildContext = "."
		}
		if cfg.Apps[i].Namespace == "" {
			cfg.Apps[i].Namespace = "apps"
		}
	}
}

// FindConfigFile returns the config path to use: the explicit path when
// given, otherwise kindling.yaml in the working directory.
func FindConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s not found: %w", explicit, err)
		}
		return explicit, nil
	}
	if _, err := os.Stat(DefaultConfigFile); err != nil {
		return "", fmt.Errorf("no config file found; run 'kindling init' to create %s", DefaultConfigFile)
	}
	return DefaultConfigFile, nil
}

// WriteFile serializes the configuration to a YAML file.
func WriteFile(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
