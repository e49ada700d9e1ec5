package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable polling budgets.
// These values can be customized via environment variables.
type Timeouts struct {
	DeployWait           time.Duration // Overall budget for a deploy task to finish
	DeployPollInterval   time.Duration // Interval between active-task checks
	DeployMaxAttempts    int           // Attempt cap for active-task checks
	SSHWait              time.Duration // Overall budget for SSH reachability after power-cycle
	SSHPollInterval      time.Duration // Interval between SSH connection attempts
	SentinelWait         time.Duration // Overall budget for the sentinel file to appear
	SentinelPollInterval time.Duration // Interval between sentinel check attempts
	SentinelRunTimeout   time.Duration // Per-attempt budget for the remote sentinel command
	FreshnessWindow      time.Duration // Max age for a just-scheduled task to count as ours
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - FOG_TIMEOUT_DEPLOY (default: 30m)
//   - FOG_DEPLOY_POLL_INTERVAL (default: 15s)
//   - FOG_DEPLOY_MAX_ATTEMPTS (default: 120)
//   - FOG_TIMEOUT_SSH (default: 20m)
//   - FOG_SSH_POLL_INTERVAL (default: 6s)
//   - FOG_TIMEOUT_SENTINEL (default: 30m)
//   - FOG_SENTINEL_POLL_INTERVAL (default: 3s)
//   - FOG_SENTINEL_RUN_TIMEOUT (default: 10m)
//   - FOG_FRESHNESS_WINDOW (default: 5s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		DeployWait:           parseDuration("FOG_TIMEOUT_DEPLOY", 30*time.Minute),
		DeployPollInterval:   parseDuration("FOG_DEPLOY_POLL_INTERVAL", 15*time.Second),
		DeployMaxAttempts:    parseInt("FOG_DEPLOY_MAX_ATTEMPTS", 120),
		SSHWait:              parseDuration("FOG_TIMEOUT_SSH", 20*time.Minute),
		SSHPollInterval:      parseDuration("FOG_SSH_POLL_INTERVAL", 6*time.Second),
		SentinelWait:         parseDuration("FOG_TIMEOUT_SENTINEL", 30*time.Minute),
		SentinelPollInterval: parseDuration("FOG_SENTINEL_POLL_INTERVAL", 3*time.Second),
		SentinelRunTimeout:   parseDuration("FOG_SENTINEL_RUN_TIMEOUT", 10*time.Minute),
		FreshnessWindow:      parseDuration("FOG_FRESHNESS_WINDOW", 5*time.Second),
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

	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return n
}
