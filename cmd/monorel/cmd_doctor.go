package main

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/monorel/internal/config"
	"github.com/fbkclanna/monorel/internal/executor"
	"github.com/fbkclanna/monorel/internal/git"
	"github.com/fbkclanna/monorel/internal/workspace"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the environment for common release issues",
		Args:  cobra.NoArgs,
		RunE:  runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	root, _ := cmd.Flags().GetString("root")
	ok := true

	// Check git.
	_, _ = fmt.Fprint(out, "Checking git... ")
	if gitPath, err := exec.LookPath("git"); err != nil {
		_, _ = fmt.Fprintln(out, "NOT FOUND")
		_, _ = fmt.Fprintln(out, "  git is required. Install it from https://git-scm.com/")
		ok = false
	} else {
		_, _ = fmt.Fprintf(out, "found at %s\n", gitPath)
	}

	// Check configuration.
	_, _ = fmt.Fprint(out, "Checking configuration... ")
	cfg, err := config.Load(root)
	if err != nil {
		_, _ = fmt.Fprintf(out, "ERROR\n  %v\n", err)
		_, _ = fmt.Fprintln(out, "\nSome checks failed. See above for details.")
		return fmt.Errorf("doctor checks failed")
	}
	_, _ = fmt.Fprintf(out, "OK (registry client: %s)\n", cfg.Registry.Client)

	// Check the registry client.
	_, _ = fmt.Fprintf(out, "Checking %s... ", cfg.Registry.Client)
	if p, err := exec.LookPath(cfg.Registry.Client); err != nil {
		_, _ = fmt.Fprintln(out, "NOT FOUND")
		ok = false
	} else {
		_, _ = fmt.Fprintf(out, "found at %s\n", p)
	}

	// Check the workspace.
	_, _ = fmt.Fprint(out, "Checking workspace... ")
	c, err := workspace.Open(root, cfg.PackagesDir)
	if err != nil {
		_, _ = fmt.Fprintf(out, "ERROR\n  %v\n", err)
		ok = false
	} else if !checkManifests(cmd, c) {
		ok = false
	}

	// Check the working tree.
	if c != nil && git.IsRepo(c.Root) && git.IsGitInstalled() {
		repo := git.New(c.Root, &executor.Shell{Log: newLogger(cmd)}, nil)
		_, _ = fmt.Fprint(out, "Checking branch... ")
		branch, err := repo.CurrentBranch(cmd.Context())
		switch {
		case err != nil:
			_, _ = fmt.Fprintf(out, "ERROR\n  %v\n", err)
			ok = false
		case branch == "":
			_, _ = fmt.Fprintln(out, "DETACHED (releases push to the current branch)")
			ok = false
		default:
			_, _ = fmt.Fprintln(out, branch)
		}
		if dirty, err := repo.IsDirty(cmd.Context()); err == nil && dirty {
			_, _ = fmt.Fprintln(out, "  Warning: working tree has uncommitted changes; they will be part of the release commit")
		}
	} else if c != nil {
		_, _ = fmt.Fprintln(out, "Not a git repository (skipping branch checks)")
		ok = false
	}

	if ok {
		_, _ = fmt.Fprintln(out, "\nAll checks passed.")
		return nil
	}
	_, _ = fmt.Fprintln(out, "\nSome checks failed. See above for details.")
	return fmt.Errorf("doctor checks failed")
}

// checkManifests loads every manifest and reports parse errors.
func checkManifests(cmd *cobra.Command, c *workspace.Catalog) bool {
	out := cmd.OutOrStdout()
	units := append([]workspace.Unit{c.RootUnit()}, c.Units()...)
	var bad []string
	for _, u := range units {
		if _, err := c.LoadManifest(u); err != nil {
			bad = append(bad, fmt.Sprintf("  %s: %v", u.Label(), err))
		}
	}
	if len(bad) > 0 {
		_, _ = fmt.Fprintln(out, "ERROR")
		_, _ = fmt.Fprintln(out, strings.Join(bad, "\n"))
		return false
	}
	_, _ = fmt.Fprintf(out, "%d units\n", len(c.Units()))
	return true
}
