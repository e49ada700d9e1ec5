package remote

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ShellPower drives machine power through operator-supplied shell commands,
// typically ipmitool or a PDU CLI wrapper. It implements PowerController.
type ShellPower struct {
	offCommand string
	onCommand  string

	// run is swappable for tests.
	run func(ctx context.Context, command string) ([]byte, error)
}

// NewShellPower creates a ShellPower from off/on command lines.
func NewShellPower(offCommand, onCommand string) (*ShellPower, error) {
	if strings.TrimSpace(offCommand) == "" {
		return nil, fmt.Errorf("power-off command cannot be empty")
	}
	if strings.TrimSpace(onCommand) == "" {
		return nil, fmt.Errorf("power-on command cannot be empty")
	}
	return &ShellPower{
		offCommand: offCommand,
		onCommand:  onCommand,
		run: func(ctx context.Context, command string) ([]byte, error) {
			return exec.CommandContext(ctx, "sh", "-c", command).CombinedOutput()
		},
	}, nil
}

// PowerOff runs the configured power-off command.
func (p *ShellPower) PowerOff(ctx context.Context) error {
	if out, err := p.run(ctx, p.offCommand); err != nil {
		return fmt.Errorf("power off failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// PowerOn runs the configured power-on command.
func (p *ShellPower) PowerOn(ctx context.Context) error {
	if out, err := p.run(ctx, p.onCommand); err != nil {
		return fmt.Errorf("power on failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
