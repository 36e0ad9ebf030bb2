package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	ClusterCreate     time.Duration // Timeout for kind cluster creation
	RegistryStart     time.Duration // Timeout for the registry container to accept connections
	ChartInstall      time.Duration // Timeout for a single Helm install/upgrade
	Deploy            time.Duration // Timeout for application rollout
	Teardown          time.Duration // Timeout for delete/uninstall operations
	RetryMaxAttempts  int           // Maximum number of retry attempts
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - KINDLING_TIMEOUT_CLUSTER_CREATE (default: 5m)
//   - KINDLING_TIMEOUT_REGISTRY_START (default: 60s)
//   - KINDLING_TIMEOUT_CHART_INSTALL (default: 10m)
//   - KINDLING_TIMEOUT_DEPLOY (default: 5m)
//   - KINDLING_TIMEOUT_TEARDOWN (default: 5m)
//   - KINDLING_RETRY_MAX_ATTEMPTS (default: 5)
//   - KINDLING_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		ClusterCreate:     parseDuration("KINDLING_TIMEOUT_CLUSTER_CREATE", 5*time.Minute),
		RegistryStart:     parseDuration("KINDLING_TIMEOUT_REGISTRY_START", 60*time.Second),
		ChartInstall:      parseDuration("KINDLING_TIMEOUT_CHART_INSTALL", 10*time.Minute),
		Deploy:            parseDuration("KINDLING_TIMEOUT_DEPLOY", 5*time.Minute),
		Teardown:          parseDuration("KINDLING_TIMEOUT_TEARDOWN", 5*time.Minute),
		RetryMaxAttempts:  parseInt("KINDLING_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("KINDLING_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
