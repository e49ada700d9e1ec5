package commands

import (
	"github.com/spf13/cobra"

	"github.com/metalfog/fogctl/cmd/fogctl/handlers"
)

// Reimage returns the command that drives one full reimage cycle for one
// host.
//
// Required flags:
//
//	--host: short name of the target machine
//	--machine-type: machine type the target belongs to
//	--os-type, --os-version: operating system to deploy
//	--power-cmd-off, --power-cmd-on: shell commands that cut and restore power
//
// Optional flags:
//
//	--config, -c: path to the configuration YAML file (default: fogctl.yaml)
//	--ssh-user: remote user for post-deploy checks (default: from config, then root)
//	--ssh-key: private key path for the SSH executor
//	--verbose, -v: enable debug logging
func Reimage() *cobra.Command {
	var opts handlers.ReimageOptions

	cmd := &cobra.Command{
		Use:   "reimage",
		Short: "Reimage a machine and wait until it is ready",
		Long: `Reimage a machine through the imaging service.

The target host's image association is updated, a deploy task is scheduled,
and the machine is power-cycled so it network-boots into the installer. The
command then waits for the deploy task to finish, for SSH to come back, and
(when configured) for a sentinel file marking the end of post-boot
provisioning, before repairing the host's hostname and verifying the
installed OS.

Examples:
  # Reimage node7 with CentOS Stream 9
  fogctl reimage --host node7 --machine-type smithi \
    --os-type centos --os-version 9.stream \
    --power-cmd-off 'ipmitool -H node7-ipmi chassis power off' \
    --power-cmd-on  'ipmitool -H node7-ipmi chassis power on'`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Reimage(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (default: fogctl.yaml)")
	cmd.Flags().StringVar(&opts.Host, "host", "", "Short hostname of the target machine")
	cmd.Flags().StringVar(&opts.MachineType, "machine-type", "", "Machine type of the target")
	cmd.Flags().StringVar(&opts.OSType, "os-type", "", "OS to deploy, e.g. centos, ubuntu, rhel")
	cmd.Flags().StringVar(&opts.OSVersion, "os-version", "", "OS version to deploy, e.g. 9.stream, 22.04")
	cmd.Flags().StringVar(&opts.PowerOffCmd, "power-cmd-off", "", "Shell command that powers the machine off")
	cmd.Flags().StringVar(&opts.PowerOnCmd, "power-cmd-on", "", "Shell command that powers the machine on")
	cmd.Flags().StringVar(&opts.SSHUser, "ssh-user", "", "SSH user for readiness checks (overrides config)")
	cmd.Flags().StringVar(&opts.SSHKeyPath, "ssh-key", "", "SSH private key path (overrides config)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")

	for _, f := range []string{"host", "machine-type", "os-type", "os-version", "power-cmd-off", "power-cmd-on"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}
