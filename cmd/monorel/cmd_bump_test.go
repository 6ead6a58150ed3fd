package main

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fbkclanna/monorel/internal/manifest"
	"github.com/fbkclanna/monorel/internal/testutil"
	"github.com/fbkclanna/monorel/internal/version"
)

func TestRunBump(t *testing.T) {
	t.Setenv("MONOREL_CONFIG", "")
	dir := testutil.Workspace(t)

	out, _, err := execute(t, "--root", dir, "bump", "4.0.0")
	if err != nil {
		t.Fatalf("bump failed: %v", err)
	}
	if !strings.Contains(out, "core: peerDependencies acme -> 4.0.0") {
		t.Errorf("missing edge notification:\n%s", out)
	}
	if !strings.Contains(out, "Updated 5 manifests (5 dependency references) to 4.0.0.") {
		t.Errorf("unexpected summary:\n%s", out)
	}
	if got := unitVersion(t, dir, "internal-tools"); got != "4.0.0" {
		t.Errorf("internal-tools version = %q", got)
	}
}

func TestRunBump_invalidVersion(t *testing.T) {
	t.Setenv("MONOREL_CONFIG", "")
	dir := testutil.Workspace(t)

	_, _, err := execute(t, "--root", dir, "bump", "v4")
	if !errors.Is(err, version.ErrInvalidVersion) {
		t.Fatalf("expected ErrInvalidVersion, got %v", err)
	}
}

func TestRunBump_parseErrorListsWrittenManifests(t *testing.T) {
	t.Setenv("MONOREL_CONFIG", "")
	dir := testutil.Workspace(t)
	testutil.WriteFile(t, filepath.Join(dir, "packages", "shared", "package.json"), "{")

	_, errOut, err := execute(t, "--root", dir, "bump", "4.0.0")
	if !errors.Is(err, manifest.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	if !strings.Contains(errOut, filepath.Join("packages", "core", "package.json")) {
		t.Errorf("manifests written before the failure should be listed:\n%s", errOut)
	}
}
