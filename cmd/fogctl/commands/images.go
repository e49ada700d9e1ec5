package commands

import (
	"github.com/spf13/cobra"

	"github.com/metalfog/fogctl/cmd/fogctl/handlers"
)

// Images returns the command that lists deployable image names for a machine
// type, useful when a reimage fails with an unknown image.
func Images() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "images MACHINE_TYPE",
		Short: "List deployable images for a machine type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Images(cmd.Context(), configPath, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: fogctl.yaml)")

	return cmd
}
