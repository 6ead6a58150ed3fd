package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/fbkclanna/monorel/internal/manifest"
	"github.com/fbkclanna/monorel/internal/testutil"
)

func TestOpen_listsUnits(t *testing.T) {
	dir := testutil.Workspace(t)
	// A directory without a manifest is not a unit.
	if err := os.MkdirAll(filepath.Join(dir, "packages", "scratch"), 0755); err != nil {
		t.Fatal(err)
	}

	c, err := Open(dir, "packages")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	want := []string{"acme", "core", "internal-tools", "shared"}
	if got := c.UnitNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("UnitNames() = %v, want %v", got, want)
	}
	if c.PackagesDir != filepath.Join(c.Root, "packages") {
		t.Errorf("PackagesDir = %q, unexpected", c.PackagesDir)
	}
}

func TestOpen_deterministic(t *testing.T) {
	dir := testutil.Workspace(t)
	a, err := Open(dir, "")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Open(dir, "")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.UnitNames(), b.UnitNames()) {
		t.Errorf("enumeration differs between opens: %v vs %v", a.UnitNames(), b.UnitNames())
	}
}

func TestOpen_missingPackagesDir(t *testing.T) {
	if _, err := Open(t.TempDir(), "packages"); err == nil {
		t.Fatal("Open() should fail when packages dir is missing")
	}
}

func TestOpen_rejectsEscapingPackagesDir(t *testing.T) {
	for _, p := range []string{"../elsewhere", "/abs/packages"} {
		if _, err := Open(t.TempDir(), p); err == nil {
			t.Errorf("Open(%q) should fail", p)
		}
	}
}

func TestRootUnit(t *testing.T) {
	dir := testutil.Workspace(t)
	c, err := Open(dir, "packages")
	if err != nil {
		t.Fatal(err)
	}

	root := c.RootUnit()
	if !root.Root || root.Dir != c.Root {
		t.Errorf("RootUnit() = %+v", root)
	}
	for _, u := range c.Units() {
		if u.Root {
			t.Errorf("root unit must not be enumerated: %+v", u)
		}
	}

	m, err := c.LoadManifest(root)
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "acme" || !m.Private {
		t.Errorf("root manifest = %q private=%v", m.Name, m.Private)
	}
}

func TestLoadSaveManifest(t *testing.T) {
	dir := testutil.Workspace(t)
	c, err := Open(dir, "packages")
	if err != nil {
		t.Fatal(err)
	}
	u, ok := c.Unit("shared")
	if !ok {
		t.Fatal("shared unit not found")
	}

	m, err := c.LoadManifest(u)
	if err != nil {
		t.Fatal(err)
	}
	m.Version = "9.9.9"
	if err := c.SaveManifest(u, m); err != nil {
		t.Fatal(err)
	}

	got := testutil.ReadFile(t, u.ManifestPath())
	want := "{\n  \"name\": \"@acme/shared\",\n  \"version\": \"9.9.9\"\n}\n"
	if got != want {
		t.Errorf("saved manifest = %q, want %q", got, want)
	}
}

func TestLoadManifest_missing(t *testing.T) {
	dir := testutil.Workspace(t)
	c, err := Open(dir, "packages")
	if err != nil {
		t.Fatal(err)
	}
	u, _ := c.Unit("core")
	if err := os.Remove(u.ManifestPath()); err != nil {
		t.Fatal(err)
	}
	if _, err := c.LoadManifest(u); !errors.Is(err, manifest.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSuggest(t *testing.T) {
	candidates := []string{"core", "shared", "runtime-dom"}
	tests := []struct {
		in   string
		want string
	}{
		{"shraed", "shared"},
		{"cor", "core"},
		{"runtime-don", "runtime-dom"},
		{"completely-different", ""},
	}
	for _, tt := range tests {
		if got := Suggest(tt.in, candidates); got != tt.want {
			t.Errorf("Suggest(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnknown(t *testing.T) {
	dir := testutil.Workspace(t)
	c, err := Open(dir, "packages")
	if err != nil {
		t.Fatal(err)
	}
	got := c.Unknown([]string{"core", "nope"})
	if !reflect.DeepEqual(got, []string{"nope"}) {
		t.Errorf("Unknown() = %v", got)
	}
}
