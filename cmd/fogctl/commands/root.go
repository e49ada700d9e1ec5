// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated to
// handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the fogctl CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fogctl",
		Short: "Reimage bare-metal machines through a network imaging service",
	}

	cmd.AddCommand(Reimage())
	cmd.AddCommand(Images())
	cmd.AddCommand(Check())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
