package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "monorel",
		Short:        "Release orchestrator for package monorepos",
		Version:      toolVersion,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("root", ".", "Workspace root directory")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newReleaseCmd(),
		newNextCmd(),
		newBumpCmd(),
		newStatusCmd(),
		newDoctorCmd(),
	)

	return cmd
}
