package main

import (
	"encoding/json"
	"errors"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/monorel/internal/manifest"
	"github.com/fbkclanna/monorel/internal/propagate"
	"github.com/fbkclanna/monorel/internal/publish"
	"github.com/fbkclanna/monorel/internal/record"
	"github.com/fbkclanna/monorel/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the units of the workspace",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

type unitStatus struct {
	Unit          string `json:"unit"`
	Package       string `json:"package"`
	Version       string `json:"version"`
	Private       bool   `json:"private"`
	Skipped       bool   `json:"skipped"`
	WorkspaceDeps int    `json:"workspace_deps"`
	LastRelease   string `json:"last_release,omitempty"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	rootManifest, err := s.Catalog.LoadManifest(s.Catalog.RootUnit())
	if err != nil {
		return err
	}
	m := propagate.NewMatcher(rootManifest.Name, s.Config.Scope, s.Catalog.UnitNames())
	skip := publish.NewSkipSet(s.Config.Skip...)

	last, err := record.Load(s.Config.RecordPath(s.Catalog.Root))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.Log.Warn().Err(err).Msg("ignoring unreadable release record")
	}

	statuses := make([]unitStatus, 0, len(s.Catalog.Units()))
	for _, u := range s.Catalog.Units() {
		mf, err := s.Catalog.LoadManifest(u)
		if err != nil {
			return err
		}
		st := unitStatus{
			Unit:          u.Name,
			Package:       mf.Name,
			Version:       mf.Version,
			Private:       mf.Private,
			Skipped:       skip.Has(u.Name),
			WorkspaceDeps: countWorkspaceDeps(mf, m),
		}
		if last != nil {
			if ru, ok := last.Units[u.Name]; ok {
				st.LastRelease = last.Release + " " + ru.Status
			}
		}
		statuses = append(statuses, st)
	}

	out := cmd.OutOrStdout()

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(statuses)
	}

	tbl := ui.NewTable(out, "UNIT", "PACKAGE", "VERSION", "PRIVATE", "SKIP", "WS DEPS", "LAST RELEASE")
	for _, st := range statuses {
		tbl.Row(st.Unit, st.Package, st.Version, st.Private, st.Skipped, st.WorkspaceDeps, st.LastRelease)
	}
	return tbl.Flush()
}

func countWorkspaceDeps(mf *manifest.Manifest, m propagate.Matcher) int {
	n := 0
	for _, field := range manifest.DependencyFields {
		for _, dep := range mf.Deps(field).Names() {
			if m.InWorkspace(dep) {
				n++
			}
		}
	}
	return n
}
