package commands

import (
	"github.com/spf13/cobra"

	"github.com/metalfog/fogctl/cmd/fogctl/handlers"
)

// Check returns the command that reports whether the provisioner is
// configured, naming any missing settings.
func Check() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the imaging-service configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Check(configPath, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: fogctl.yaml)")

	return cmd
}
