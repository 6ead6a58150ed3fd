package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fbkclanna/monorel/internal/manifest"
)

// ManifestFile is the per-unit manifest file name.
const ManifestFile = "package.json"

// Unit is an addressable package within the workspace.
type Unit struct {
	Name string // directory name under the packages root; empty for the root project
	Dir  string
	Root bool
}

// ManifestPath returns the path of the unit's package.json.
func (u Unit) ManifestPath() string {
	return filepath.Join(u.Dir, ManifestFile)
}

// Label returns a printable name for the unit.
func (u Unit) Label() string {
	if u.Root {
		return "<root>"
	}
	return u.Name
}

// Catalog holds the resolved workspace paths and the units found at open time.
type Catalog struct {
	Root        string
	PackagesDir string
	units       []Unit
}

// Open resolves the workspace root and enumerates its units.
func Open(root, packagesDir string) (*Catalog, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root: %w", err)
	}
	if packagesDir == "" {
		packagesDir = "packages"
	}
	if err := validatePath(packagesDir, "packages_dir"); err != nil {
		return nil, err
	}

	c := &Catalog{
		Root:        root,
		PackagesDir: filepath.Join(root, packagesDir),
	}
	names, err := ListUnits(c.PackagesDir)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		c.units = append(c.units, Unit{Name: name, Dir: filepath.Join(c.PackagesDir, name)})
	}
	return c, nil
}

// ListUnits returns the package directory names under packagesRoot in
// lexical order. Plain files, hidden entries and directories without a
// package.json are not units.
func ListUnits(packagesRoot string) ([]string, error) {
	entries, err := os.ReadDir(packagesRoot)
	if err != nil {
		return nil, fmt.Errorf("reading packages root: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := os.Stat(filepath.Join(packagesRoot, e.Name(), ManifestFile))
		if err != nil || info.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Units returns the enumerated units in order.
func (c *Catalog) Units() []Unit {
	return append([]Unit(nil), c.units...)
}

// UnitNames returns the names of the enumerated units in order.
func (c *Catalog) UnitNames() []string {
	names := make([]string, len(c.units))
	for i, u := range c.units {
		names[i] = u.Name
	}
	return names
}

// Unit looks up a unit by name.
func (c *Catalog) Unit(name string) (Unit, bool) {
	for _, u := range c.units {
		if u.Name == name {
			return u, true
		}
	}
	return Unit{}, false
}

// RootUnit returns the root project handle. It is not part of Units.
func (c *Catalog) RootUnit() Unit {
	return Unit{Dir: c.Root, Root: true}
}

// LoadManifest reads a unit's manifest.
func (c *Catalog) LoadManifest(u Unit) (*manifest.Manifest, error) {
	return manifest.Load(u.ManifestPath())
}

// SaveManifest writes a unit's manifest back in full.
func (c *Catalog) SaveManifest(u Unit, m *manifest.Manifest) error {
	return manifest.Save(u.ManifestPath(), m)
}

// Rel returns path relative to the workspace root, for display.
func (c *Catalog) Rel(path string) string {
	if rel, err := filepath.Rel(c.Root, path); err == nil {
		return rel
	}
	return path
}

// validatePath ensures a path is relative and does not escape the workspace.
func validatePath(p, label string) error {
	if filepath.IsAbs(p) {
		return fmt.Errorf("workspace: %s: absolute path is not allowed: %s", label, p)
	}
	cleaned := filepath.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("workspace: %s: path must not escape workspace (contains ..): %s", label, p)
	}
	return nil
}
