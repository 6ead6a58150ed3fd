package main

import (
	"github.com/spf13/cobra"

	"github.com/fbkclanna/monorel/internal/ui"
	"github.com/fbkclanna/monorel/internal/version"
)

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the versions each increment would produce",
		Args:  cobra.NoArgs,
		RunE:  runNext,
	}
	cmd.Flags().String("preid", "", "Pre-release identifier (e.g. beta)")
	return cmd
}

func runNext(cmd *cobra.Command, _ []string) error {
	preID, _ := cmd.Flags().GetString("preid")

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	current, err := s.currentVersion()
	if err != nil {
		return err
	}
	candidates, err := version.Candidates(current, preID)
	if err != nil {
		return err
	}

	tbl := ui.NewTable(cmd.OutOrStdout(), "INCREMENT", "VERSION")
	for _, c := range candidates {
		tbl.Row(c.Increment, c.Version)
	}
	return tbl.Flush()
}
