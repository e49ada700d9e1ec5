package handlers

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/metalfog/fogctl/internal/config"
	"github.com/metalfog/fogctl/internal/platform/fog"
	"github.com/metalfog/fogctl/internal/platform/ssh"
	"github.com/metalfog/fogctl/internal/reimage"
	"github.com/metalfog/fogctl/internal/remote"
)

const defaultConfigFile = "fogctl.yaml"

// reimager is the slice of reimage.Reimager the handler needs.
type reimager interface {
	Create(ctx context.Context) error
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	loadConfigFile = config.LoadFile

	newService = func(cfg *config.Config, log logr.Logger) reimage.Service {
		return fog.NewClient(cfg, fog.WithLogger(log))
	}

	newExecutor = func(cfg *ssh.Config) (remote.Executor, error) {
		return ssh.NewExecutor(cfg)
	}

	newPower = func(offCmd, onCmd string) (remote.PowerController, error) {
		return remote.NewShellPower(offCmd, onCmd)
	}

	newReimager = func(p reimage.Params) (reimager, error) {
		return reimage.New(p)
	}
)

// ReimageOptions carries the reimage command's flag values.
type ReimageOptions struct {
	ConfigPath  string
	Host        string
	MachineType string
	OSType      string
	OSVersion   string
	SSHUser     string
	SSHKeyPath  string
	PowerOffCmd string
	PowerOnCmd  string
	Verbose     bool
}

// Reimage wires the imaging-service client, the SSH executor, and the power
// controller together and runs one reimage cycle for the target host.
func Reimage(ctx context.Context, opts ReimageOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	if !containsMachineType(cfg.MachineTypeList(), opts.MachineType) {
		return fmt.Errorf("machine type %q is not managed by this service (configured: %v)",
			opts.MachineType, cfg.MachineTypeList())
	}

	log := newLogger(opts.Verbose)

	sshUser := opts.SSHUser
	if sshUser == "" {
		sshUser = cfg.SSH.User
	}
	if sshUser == "" {
		sshUser = "root"
	}
	sshKey := opts.SSHKeyPath
	if sshKey == "" {
		sshKey = cfg.SSH.PrivateKeyPath
	}

	executor, err := newExecutor(&ssh.Config{
		Hostname:       remote.CanonicalizeHostname(opts.Host, cfg.Domain),
		User:           sshUser,
		PrivateKeyPath: sshKey,
		Port:           cfg.SSH.Port,
	})
	if err != nil {
		return fmt.Errorf("failed to create ssh executor: %w", err)
	}

	power, err := newPower(opts.PowerOffCmd, opts.PowerOnCmd)
	if err != nil {
		return fmt.Errorf("failed to create power controller: %w", err)
	}

	r, err := newReimager(reimage.Params{
		Config:      cfg,
		Service:     newService(cfg, log),
		Executor:    executor,
		Power:       power,
		MachineType: opts.MachineType,
		OSType:      opts.OSType,
		OSVersion:   opts.OSVersion,
		Log:         log,
	})
	if err != nil {
		return err
	}

	return r.Create(ctx)
}

// loadConfig loads the configuration file, defaulting to fogctl.yaml in the
// current directory.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	cfg, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func containsMachineType(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}
