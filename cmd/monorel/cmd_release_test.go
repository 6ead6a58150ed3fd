package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fbkclanna/monorel/internal/executor"
	"github.com/fbkclanna/monorel/internal/record"
	"github.com/fbkclanna/monorel/internal/testutil"
	"github.com/fbkclanna/monorel/internal/version"
)

func TestRelease_dry(t *testing.T) {
	dir, bare := setupWorkspace(t)
	head := testutil.Git(t, dir, "rev-parse", "HEAD")

	out, _, err := execute(t, "--root", dir, "release", "3.3.0", "--dry", "--yes")
	if err != nil {
		t.Fatalf("release --dry failed: %v", err)
	}
	if !strings.Contains(out, "Released v3.3.0") || !strings.Contains(out, "Dry run") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "[4/4] shared published") {
		t.Errorf("missing progress output:\n%s", out)
	}

	if got := unitVersion(t, dir, "core"); got != "3.3.0" {
		t.Errorf("core version = %q, want 3.3.0", got)
	}
	if got := testutil.Git(t, dir, "rev-parse", "HEAD"); got != head {
		t.Error("dry run must not commit")
	}
	if got := testutil.Git(t, dir, "tag", "--list"); got != "" {
		t.Errorf("dry run must not tag: %q", got)
	}
	if got := testutil.Git(t, bare, "tag", "--list"); got != "" {
		t.Errorf("dry run must not push: %q", got)
	}

	rf, err := record.Load(filepath.Join(dir, ".monorel", "last-release.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !rf.DryRun || rf.Release != "3.3.0" || rf.RunID == "" {
		t.Errorf("record = %+v", rf)
	}
}

func TestRelease_increment(t *testing.T) {
	dir, _ := setupWorkspace(t)

	out, _, err := execute(t, "--root", dir, "release", "--increment", "minor", "--dry", "--yes")
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if !strings.Contains(out, "Released v3.3.0") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if got := unitVersion(t, dir, "shared"); got != "3.3.0" {
		t.Errorf("shared version = %q", got)
	}
}

func TestRelease_preidIncrement(t *testing.T) {
	dir, _ := setupWorkspace(t)

	out, _, err := execute(t, "--root", dir, "release", "--increment", "preminor", "--preid", "beta", "--dry", "--yes")
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if !strings.Contains(out, "Released v3.3.0-beta.0") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRelease_requiresYesWithoutTerminal(t *testing.T) {
	dir, _ := setupWorkspace(t)

	_, _, err := execute(t, "--root", dir, "release", "3.3.0")
	if err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Fatalf("expected confirmation error, got %v", err)
	}
	if got := unitVersion(t, dir, "core"); got != "3.2.0" {
		t.Error("nothing may be written without confirmation")
	}
}

func TestRelease_requiresVersionWithoutTerminal(t *testing.T) {
	dir, _ := setupWorkspace(t)

	_, _, err := execute(t, "--root", dir, "release", "--yes")
	if err == nil || !strings.Contains(err.Error(), "no version given") {
		t.Fatalf("expected missing version error, got %v", err)
	}
}

func TestRelease_invalidVersion(t *testing.T) {
	dir, _ := setupWorkspace(t)

	_, _, err := execute(t, "--root", dir, "release", "3.3", "--yes")
	if !errors.Is(err, version.ErrInvalidVersion) {
		t.Fatalf("expected ErrInvalidVersion, got %v", err)
	}
}

func TestRelease_unknownIncrement(t *testing.T) {
	dir, _ := setupWorkspace(t)

	_, _, err := execute(t, "--root", dir, "release", "--increment", "huge", "--yes")
	if !errors.Is(err, version.ErrInvalidIncrement) {
		t.Fatalf("expected ErrInvalidIncrement, got %v", err)
	}
}

func TestRelease_unknownSkipSuggestsUnit(t *testing.T) {
	dir, _ := setupWorkspace(t)

	out, errOut, err := execute(t, "--root", dir, "release", "3.3.0", "--dry", "--yes", "--skip", "cor")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(errOut, `did you mean "core"?`) {
		t.Errorf("missing suggestion:\n%s", errOut)
	}
	if !strings.Contains(out, "Skipped units: cor") {
		t.Errorf("skip set should still be reported:\n%s", out)
	}
}

func TestRelease_buildFailurePrintsRecoveryHint(t *testing.T) {
	dir, _ := setupWorkspace(t)
	testutil.WriteFile(t, filepath.Join(dir, "monorel.yaml"), `
commands:
  test: ["true"]
  build: ["false"]
  changelog: ["true"]
`)

	_, errOut, err := execute(t, "--root", dir, "release", "3.3.0", "--yes")
	if !errors.Is(err, executor.ErrStepFailed) {
		t.Fatalf("expected ErrStepFailed, got %v", err)
	}
	if !strings.Contains(errOut, filepath.Join("packages", "core", "package.json")) {
		t.Errorf("recovery hint should list rewritten manifests:\n%s", errOut)
	}
	if got := unitVersion(t, dir, "core"); got != "3.3.0" {
		t.Errorf("manifests stay rewritten, core = %q", got)
	}
	if _, err := os.Stat(filepath.Join(dir, ".monorel", "last-release.yaml")); !os.IsNotExist(err) {
		t.Error("record is only written once publishing starts")
	}
}

func TestRelease_detachedHead(t *testing.T) {
	dir, _ := setupWorkspace(t)
	testutil.Git(t, dir, "checkout", "--detach", "HEAD")

	_, _, err := execute(t, "--root", dir, "release", "3.3.0", "--dry", "--yes")
	if err == nil || !strings.Contains(err.Error(), "detached") {
		t.Fatalf("expected detached HEAD error, got %v", err)
	}
	if got := unitVersion(t, dir, "core"); got != "3.2.0" {
		t.Error("nothing may be written on a detached HEAD")
	}
}

func TestConfirmPrompt(t *testing.T) {
	tests := []struct {
		name    string
		ok      bool
		err     error
		want    bool
		wantErr bool
	}{
		{"yes", true, nil, true, false},
		{"no", false, nil, false, false},
		{"aborted declines", false, errAborted, false, false},
		{"prompt failure", false, errors.New("no tty"), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := confirmPrompt(func(string) (bool, error) { return tt.ok, tt.err })
			got, err := c.Confirm(context.Background(), "3.3.0")
			if got != tt.want || (err != nil) != tt.wantErr {
				t.Errorf("Confirm() = %v, %v", got, err)
			}
		})
	}
}

func TestWarnUnknownUnits_configEntry(t *testing.T) {
	dir, _ := setupWorkspace(t)
	testutil.WriteFile(t, filepath.Join(dir, "monorel.yaml"), "skip: [sharde]\n")

	_, errOut, err := execute(t, "--root", dir, "release", "3.3.0", "--dry", "--yes")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(errOut, `skip entry "sharde" is not a unit (did you mean "shared"?)`) {
		t.Errorf("unexpected warning:\n%s", errOut)
	}
	if strings.Contains(errOut, "--skip") {
		t.Errorf("config entries are not flags:\n%s", errOut)
	}
}
