// Package config holds the explicit configuration for the reimaging tool.
//
// All components receive a *Config at construction; there is no process-wide
// settings object. Enabled() is the single gate for whether the imaging
// service can be used at all.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// RequiredKeys are the configuration keys that must be non-empty for the
// imaging service to be considered usable.
var RequiredKeys = []string{"endpoint", "api_token", "user_token", "machine_types"}

// Config holds the application configuration.
type Config struct {
	// Endpoint is the base URL of the imaging service API.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// APIToken and UserToken are the two static credentials attached as
	// headers to every imaging-service request.
	APIToken  string `mapstructure:"api_token" yaml:"api_token"`
	UserToken string `mapstructure:"user_token" yaml:"user_token"`

	// MachineTypes is either a list of strings or a comma-joined string
	// naming the machine types the imaging service manages.
	MachineTypes any `mapstructure:"machine_types" yaml:"machine_types"`

	// SentinelFile, when set, is a remote path whose existence marks the end
	// of post-boot provisioning. Empty disables the sentinel wait.
	SentinelFile string `mapstructure:"sentinel_file" yaml:"sentinel_file"`

	// Domain is appended to short hostnames during canonicalization.
	Domain string `mapstructure:"domain" yaml:"domain"`

	// SSH configures the remote executor used for readiness checks and
	// identity reconciliation.
	SSH SSHConfig `mapstructure:"ssh" yaml:"ssh"`

	// Timeouts holds all polling budgets. Populated from LoadTimeouts when
	// left nil.
	Timeouts *Timeouts `mapstructure:"-" yaml:"-"`
}

// SSHConfig holds SSH connection settings for the remote executor.
type SSHConfig struct {
	User           string `mapstructure:"user" yaml:"user"`
	PrivateKeyPath string `mapstructure:"private_key_path" yaml:"private_key_path"`
	Port           int    `mapstructure:"port" yaml:"port"`
}

// LoadFile reads and parses the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var cfg Config
	if err := mapstructure.Decode(rawConfig, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Timeouts = LoadTimeouts()
	return &cfg, nil
}

// Enabled reports whether every required configuration key is present.
// A disabled configuration means the imaging service cannot be driven and
// any reimage attempt must fail fast.
func (c *Config) Enabled() bool {
	return len(c.unsetKeys()) == 0
}

// MissingKeys returns the names of required keys that are unset. Used by the
// check command to tell the operator exactly what to configure.
func (c *Config) MissingKeys() []string {
	return c.unsetKeys()
}

func (c *Config) unsetKeys() []string {
	var unset []string
	if c.Endpoint == "" {
		unset = append(unset, "endpoint")
	}
	if c.APIToken == "" {
		unset = append(unset, "api_token")
	}
	if c.UserToken == "" {
		unset = append(unset, "user_token")
	}
	if len(c.MachineTypeList()) == 0 {
		unset = append(unset, "machine_types")
	}
	return unset
}

// MachineTypeList normalizes MachineTypes into a list. It accepts either a
// YAML sequence or a comma-joined string, and drops empty entries. Returns
// an empty list when the configuration is disabled.
func (c *Config) MachineTypeList() []string {
	var raw []string
	switch v := c.MachineTypes.(type) {
	case nil:
		return nil
	case string:
		raw = strings.Split(v, ",")
	case []string:
		raw = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	default:
		return nil
	}

	var types []string
	for _, t := range raw {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	return types
}

// Validate checks the configuration for common errors.
func (c *Config) Validate() error {
	if unset := c.unsetKeys(); len(unset) > 0 {
		return fmt.Errorf("imaging service disabled; set the following config options to enable: %s",
			strings.Join(unset, " "))
	}
	if !strings.HasPrefix(c.Endpoint, "http://") && !strings.HasPrefix(c.Endpoint, "https://") {
		return fmt.Errorf("endpoint %q must be an http(s) URL", c.Endpoint)
	}
	return nil
}
