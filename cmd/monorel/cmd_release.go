package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fbkclanna/monorel/internal/executor"
	"github.com/fbkclanna/monorel/internal/git"
	"github.com/fbkclanna/monorel/internal/publish"
	"github.com/fbkclanna/monorel/internal/release"
	"github.com/fbkclanna/monorel/internal/version"
	"github.com/fbkclanna/monorel/internal/workspace"
)

// isInteractive reports whether prompts can be shown. Tests replace it.
var isInteractive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // fd fits in int
}

func newReleaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "release [version]",
		Short: "Propagate a new version, publish every package, tag and push",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRelease,
	}
	cmd.Flags().String("preid", "", "Pre-release identifier (e.g. beta)")
	cmd.Flags().String("increment", "", "Increment to apply without prompting (patch, minor, major, prepatch, preminor, premajor, prerelease)")
	cmd.Flags().Bool("dry", false, "Log external steps instead of running them")
	cmd.Flags().Bool("skip-tests", false, "Do not run the test command")
	cmd.Flags().Bool("skip-build", false, "Do not run the build command")
	cmd.Flags().String("tag", "", "Distribution tag for every published package")
	cmd.Flags().StringSlice("skip", nil, "Do not publish these units")
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func runRelease(cmd *cobra.Command, args []string) error {
	preID, _ := cmd.Flags().GetString("preid")
	increment, _ := cmd.Flags().GetString("increment")
	dry, _ := cmd.Flags().GetBool("dry")
	skipTests, _ := cmd.Flags().GetBool("skip-tests")
	skipBuild, _ := cmd.Flags().GetBool("skip-build")
	tagOverride, _ := cmd.Flags().GetString("tag")
	skip, _ := cmd.Flags().GetStringSlice("skip")
	yes, _ := cmd.Flags().GetBool("yes")

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	interactive := isInteractive()

	target, err := resolveTarget(s, args, increment, preID, interactive)
	if err != nil {
		return err
	}
	target, err = version.Validate(target)
	if err != nil {
		return err
	}

	skipNames := append(append([]string{}, s.Config.Skip...), skip...)
	warnUnknownUnits(cmd.ErrOrStderr(), s.Catalog, skipNames)

	var confirm release.Confirmer
	switch {
	case yes:
		confirm = release.AutoConfirm
	case interactive:
		confirm = confirmPrompt(func(v string) (bool, error) {
			return promptConfirm(fmt.Sprintf("Release %s?", s.Config.TagName(v)))
		})
	default:
		return fmt.Errorf("confirmation required: pass --yes when not running in a terminal")
	}

	run := release.NewRunContext(target)
	run.PreID = preID
	run.Skip = publish.NewSkipSet(skipNames...)
	run.DryRun = dry
	run.SkipTests = skipTests
	run.SkipBuild = skipBuild
	run.TagOverride = tagOverride

	log := s.Log.With().Str("run", run.RunID).Logger()
	errOut := cmd.ErrOrStderr()
	exec := executor.New(dry, errOut, errOut, log)
	registry, err := publish.NewCLIRegistry(s.Config.Registry.Client, exec)
	if err != nil {
		return err
	}

	p := &release.Pipeline{
		Catalog:     s.Catalog,
		Config:      s.Config,
		Exec:        exec,
		VCS:         git.New(s.Catalog.Root, exec, &executor.Shell{Log: log}),
		Registry:    registry,
		Confirm:     confirm,
		Log:         s.Log,
		Out:         cmd.OutOrStdout(),
		ToolVersion: toolVersion,
	}

	rep, err := p.Run(cmd.Context(), run)
	out := cmd.OutOrStdout()
	if err != nil {
		printRecoveryHint(errOut, s.Catalog, rep)
		return err
	}
	if rep.Declined {
		_, _ = fmt.Fprintln(out, "Release cancelled.")
		return nil
	}
	printSummary(out, s.Config.TagName(rep.Version), rep, dry)
	return nil
}

// resolveTarget picks the target version from, in order: the positional
// argument, --increment, or an interactive prompt.
func resolveTarget(s *session, args []string, increment, preID string, interactive bool) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	current, err := s.currentVersion()
	if err != nil {
		return "", err
	}
	if increment != "" {
		inc, err := version.ParseIncrement(increment)
		if err != nil {
			return "", err
		}
		return version.Next(current, inc, version.EffectivePreID(current, preID))
	}
	if !interactive {
		return "", fmt.Errorf("no version given: pass a version or --increment when not running in a terminal")
	}
	v, err := promptVersion(current, preID)
	if errors.Is(err, errAborted) {
		return "", fmt.Errorf("release aborted")
	}
	return v, err
}

// confirmPrompt adapts a yes/no prompt to a release.Confirmer. Aborting the
// prompt declines the release like answering no.
func confirmPrompt(ask func(target string) (bool, error)) release.Confirmer {
	return release.ConfirmFunc(func(_ context.Context, target string) (bool, error) {
		ok, err := ask(target)
		if errors.Is(err, errAborted) {
			return false, nil
		}
		return ok, err
	})
}

func warnUnknownUnits(w io.Writer, c *workspace.Catalog, names []string) {
	for _, n := range c.Unknown(names) {
		msg := fmt.Sprintf("Warning: skip entry %q is not a unit", n)
		if sug := workspace.Suggest(n, c.UnitNames()); sug != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", sug)
		}
		_, _ = fmt.Fprintln(w, msg)
	}
}

func printSummary(out io.Writer, tag string, rep *release.Report, dry bool) {
	_, _ = fmt.Fprintf(out, "Released %s: %d published, %d already published, %d not public, %d skipped.\n",
		tag,
		rep.Count(publish.StatusPublished),
		rep.Count(publish.StatusAlreadyPublished),
		rep.Count(publish.StatusNotPublic),
		rep.Count(publish.StatusSkipped))
	if len(rep.Skipped) > 0 {
		_, _ = fmt.Fprintf(out, "Skipped units: %s\n", strings.Join(rep.Skipped, ", "))
	}
	if dry {
		_, _ = fmt.Fprintln(out, "Dry run: manifests were rewritten; nothing was committed, published or pushed.")
	}
}

// printRecoveryHint lists the manifests a failed run left rewritten. They are
// not restored automatically.
func printRecoveryHint(w io.Writer, c *workspace.Catalog, rep *release.Report) {
	if rep == nil || len(rep.Written) == 0 {
		return
	}
	printRewritten(w, c, rep.Version, rep.Written)
	if n := rep.Count(publish.StatusPublished); n > 0 {
		_, _ = fmt.Fprintf(w, "%d packages were already published; re-running with the same version skips them.\n", n)
	}
}

func printRewritten(w io.Writer, c *workspace.Catalog, target string, paths []string) {
	_, _ = fmt.Fprintf(w, "\nStopped after rewriting %d manifests to %s:\n", len(paths), target)
	for _, p := range paths {
		_, _ = fmt.Fprintf(w, "  %s\n", c.Rel(p))
	}
	_, _ = fmt.Fprintln(w, "Fix the problem and re-run with the same version, or restore them with: git checkout -- .")
}
