package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadTimeouts_Defaults(t *testing.T) {
	timeouts := LoadTimeouts()

	assert.Equal(t, 30*time.Minute, timeouts.DeployWait)
	assert.Equal(t, 15*time.Second, timeouts.DeployPollInterval)
	assert.Equal(t, 120, timeouts.DeployMaxAttempts)
	assert.Equal(t, 6*time.Second, timeouts.SSHPollInterval)
	assert.Equal(t, 5*time.Second, timeouts.FreshnessWindow)
}

func TestLoadTimeouts_EnvOverride(t *testing.T) {
	t.Setenv("FOG_TIMEOUT_DEPLOY", "90m")
	t.Setenv("FOG_DEPLOY_MAX_ATTEMPTS", "10")
	t.Setenv("FOG_FRESHNESS_WINDOW", "2s")

	timeouts := LoadTimeouts()

	assert.Equal(t, 90*time.Minute, timeouts.DeployWait)
	assert.Equal(t, 10, timeouts.DeployMaxAttempts)
	assert.Equal(t, 2*time.Second, timeouts.FreshnessWindow)
}

func TestLoadTimeouts_InvalidEnvFallsBack(t *testing.T) {
	t.Setenv("FOG_TIMEOUT_SSH", "not-a-duration")
	t.Setenv("FOG_DEPLOY_MAX_ATTEMPTS", "many")

	timeouts := LoadTimeouts()

	assert.Equal(t, 20*time.Minute, timeouts.SSHWait)
	assert.Equal(t, 120, timeouts.DeployMaxAttempts)
}
