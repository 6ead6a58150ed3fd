package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/fbkclanna/monorel/internal/manifest"
	"github.com/fbkclanna/monorel/internal/testutil"
)

// setupWorkspace creates the sample monorepo, commits it to a repo with a
// bare origin, and returns the workspace and bare repo paths.
func setupWorkspace(t *testing.T) (string, string) {
	t.Helper()
	t.Setenv("MONOREL_CONFIG", "")
	t.Setenv("MONOREL_LOG_NOCOLOR", "1")
	nonInteractive(t)
	dir := testutil.Workspace(t)
	bare := testutil.InitRepo(t, dir)
	return dir, bare
}

func nonInteractive(t *testing.T) {
	t.Helper()
	orig := isInteractive
	isInteractive = func() bool { return false }
	t.Cleanup(func() { isInteractive = orig })
}

// execute runs the root command and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func unitVersion(t *testing.T, dir, unit string) string {
	t.Helper()
	m, err := manifest.Load(filepath.Join(dir, "packages", unit, "package.json"))
	if err != nil {
		t.Fatal(err)
	}
	return m.Version
}
