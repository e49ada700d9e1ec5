package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fogctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
endpoint: https://fog.example.com/fog
api_token: abc
user_token: def
machine_types:
  - smithi
  - mira
sentinel_file: /ceph-qa-ready
domain: front.sepia.ceph.com
ssh:
  user: ubuntu
  private_key_path: /home/ubuntu/.ssh/id_rsa
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://fog.example.com/fog", cfg.Endpoint)
	assert.Equal(t, "abc", cfg.APIToken)
	assert.Equal(t, "def", cfg.UserToken)
	assert.Equal(t, []string{"smithi", "mira"}, cfg.MachineTypeList())
	assert.Equal(t, "/ceph-qa-ready", cfg.SentinelFile)
	assert.Equal(t, "ubuntu", cfg.SSH.User)
	assert.NotNil(t, cfg.Timeouts)
	assert.True(t, cfg.Enabled())
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestMachineTypeList(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  []string
	}{
		{name: "nil", value: nil, want: nil},
		{name: "comma-joined string", value: "smithi,mira", want: []string{"smithi", "mira"}},
		{name: "string with spaces", value: "smithi, mira , ", want: []string{"smithi", "mira"}},
		{name: "string list", value: []string{"smithi"}, want: []string{"smithi"}},
		{name: "yaml sequence", value: []any{"smithi", "mira"}, want: []string{"smithi", "mira"}},
		{name: "empty string", value: "", want: nil},
		{name: "unsupported type", value: 7, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{MachineTypes: tt.value}
			assert.Equal(t, tt.want, cfg.MachineTypeList())
		})
	}
}

func TestEnabled(t *testing.T) {
	full := &Config{
		Endpoint:     "https://fog.example.com/fog",
		APIToken:     "a",
		UserToken:    "u",
		MachineTypes: "smithi",
	}
	assert.True(t, full.Enabled())
	assert.Empty(t, full.MissingKeys())

	tests := []struct {
		name   string
		mutate func(*Config)
		unset  string
	}{
		{name: "no endpoint", mutate: func(c *Config) { c.Endpoint = "" }, unset: "endpoint"},
		{name: "no api token", mutate: func(c *Config) { c.APIToken = "" }, unset: "api_token"},
		{name: "no user token", mutate: func(c *Config) { c.UserToken = "" }, unset: "user_token"},
		{name: "no machine types", mutate: func(c *Config) { c.MachineTypes = nil }, unset: "machine_types"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *full
			tt.mutate(&cfg)
			assert.False(t, cfg.Enabled())
			assert.Contains(t, cfg.MissingKeys(), tt.unset)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Endpoint:     "ftp://fog.example.com",
		APIToken:     "a",
		UserToken:    "u",
		MachineTypes: "smithi",
	}
	assert.Error(t, cfg.Validate())

	cfg.Endpoint = "https://fog.example.com/fog"
	assert.NoError(t, cfg.Validate())

	disabled := &Config{}
	err := disabled.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint")
	assert.Contains(t, err.Error(), "machine_types")
}
