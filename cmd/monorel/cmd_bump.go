package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/monorel/internal/propagate"
)

func newBumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bump <version>",
		Short: "Rewrite every manifest to a version without releasing",
		Args:  cobra.ExactArgs(1),
		RunE:  runBump,
	}
}

func runBump(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	p := &propagate.Propagator{
		Catalog: s.Catalog,
		Scope:   s.Config.Scope,
		Log:     s.Log,
		Notify: func(e propagate.Event) {
			_, _ = fmt.Fprintf(out, "  %s: %s %s -> %s\n", e.Unit, e.Field, e.Dependency, e.Version)
		},
	}
	res, err := p.Apply(args[0])
	if err != nil {
		if len(res.Written) > 0 {
			printRewritten(cmd.ErrOrStderr(), s.Catalog, args[0], res.Paths())
		}
		return err
	}
	_, _ = fmt.Fprintf(out, "Updated %d manifests (%d dependency references) to %s.\n",
		len(res.Written), len(res.Events), args[0])
	return nil
}
