// Package propagate rewrites the version of every workspace manifest, and
// every dependency that points back into the workspace, to one target
// version.
//
// A dependency is in-workspace when its name is the root project's name, or
// when it is "<scope>/<unit>" for a known unit directory. Ranges are not
// parsed: the old operator is dropped and the bare target version pinned.
package propagate

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fbkclanna/monorel/internal/manifest"
	"github.com/fbkclanna/monorel/internal/version"
	"github.com/fbkclanna/monorel/internal/workspace"
)

// Event records one rewritten dependency edge.
type Event struct {
	Unit       string
	Field      string
	Dependency string
	Version    string
}

// Result lists what a propagation touched. On failure it holds the units
// written before the error; they are not reverted.
type Result struct {
	Written []workspace.Unit
	Events  []Event
}

// Paths returns the manifest paths that were written.
func (r *Result) Paths() []string {
	paths := make([]string, len(r.Written))
	for i, u := range r.Written {
		paths[i] = u.ManifestPath()
	}
	return paths
}

// Propagator applies a target version across a workspace.
type Propagator struct {
	Catalog *workspace.Catalog
	// Scope is the package scope of units, e.g. "@acme". When empty it is
	// "@" followed by the root project's name.
	Scope  string
	Log    zerolog.Logger
	Notify func(Event)
}

// Apply rewrites the root manifest and then every unit in enumeration order.
// Each manifest is saved as soon as it is rewritten.
func (p *Propagator) Apply(target string) (*Result, error) {
	res := &Result{}
	target, err := version.Validate(target)
	if err != nil {
		return res, err
	}

	root := p.Catalog.RootUnit()
	rootManifest, err := p.Catalog.LoadManifest(root)
	if err != nil {
		return res, fmt.Errorf("loading root manifest: %w", err)
	}
	m := NewMatcher(rootManifest.Name, p.Scope, p.Catalog.UnitNames())

	if err := p.rewrite(root, rootManifest, target, m, res); err != nil {
		return res, err
	}
	for _, u := range p.Catalog.Units() {
		mf, err := p.Catalog.LoadManifest(u)
		if err != nil {
			return res, fmt.Errorf("loading %s: %w", u.Label(), err)
		}
		if err := p.rewrite(u, mf, target, m, res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (p *Propagator) rewrite(u workspace.Unit, mf *manifest.Manifest, target string, m Matcher, res *Result) error {
	mf.Version = target
	for _, field := range manifest.DependencyFields {
		deps := mf.Deps(field)
		for _, dep := range deps.Names() {
			if !m.InWorkspace(dep) {
				continue
			}
			deps.Set(dep, target)
			ev := Event{Unit: u.Label(), Field: field, Dependency: dep, Version: target}
			res.Events = append(res.Events, ev)
			p.Log.Info().Str("unit", ev.Unit).Str("field", ev.Field).Str("dep", ev.Dependency).
				Str("version", ev.Version).Msg("dependency updated")
			if p.Notify != nil {
				p.Notify(ev)
			}
		}
	}
	if err := p.Catalog.SaveManifest(u, mf); err != nil {
		return fmt.Errorf("saving %s: %w", u.Label(), err)
	}
	res.Written = append(res.Written, u)
	return nil
}

// Matcher decides whether a dependency name points into the workspace.
type Matcher struct {
	rootName string
	scope    string
	units    map[string]bool
}

// NewMatcher returns a Matcher for a workspace whose root project is named
// rootName. An empty scope defaults to "@" + rootName.
func NewMatcher(rootName, scope string, units []string) Matcher {
	scope = strings.TrimSuffix(scope, "/")
	if scope == "" {
		scope = "@" + rootName
	}
	return Matcher{rootName: rootName, scope: scope, units: toSet(units)}
}

// InWorkspace reports whether dep is the root project or a scoped unit.
func (m Matcher) InWorkspace(dep string) bool {
	if dep == m.rootName {
		return true
	}
	rest, ok := strings.CutPrefix(dep, m.scope+"/")
	return ok && m.units[rest]
}

func toSet(ss []string) map[string]bool {
	s := make(map[string]bool, len(ss))
	for _, v := range ss {
		s[v] = true
	}
	return s
}
