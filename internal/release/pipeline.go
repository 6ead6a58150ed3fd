// Package release sequences a workspace release: confirmation, tests,
// version propagation, build, changelog, commit, publishing, tagging and
// push. Steps run strictly one after another; the first fatal error stops
// the run and leaves earlier mutations in place.
package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fbkclanna/monorel/internal/config"
	"github.com/fbkclanna/monorel/internal/executor"
	"github.com/fbkclanna/monorel/internal/git"
	"github.com/fbkclanna/monorel/internal/propagate"
	"github.com/fbkclanna/monorel/internal/publish"
	"github.com/fbkclanna/monorel/internal/record"
	"github.com/fbkclanna/monorel/internal/ui"
	"github.com/fbkclanna/monorel/internal/version"
	"github.com/fbkclanna/monorel/internal/workspace"
)

// ErrDetachedHead is returned when HEAD is not on a branch, so there is
// nothing to push the release commit to.
var ErrDetachedHead = errors.New("HEAD is detached; check out a branch before releasing")

// Confirmer asks the operator to approve the target version. Returning false
// declines the run.
type Confirmer interface {
	Confirm(ctx context.Context, target string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, target string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, target string) (bool, error) {
	return f(ctx, target)
}

// AutoConfirm approves every target.
var AutoConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// Pipeline holds the collaborators of a release run.
type Pipeline struct {
	Catalog *workspace.Catalog
	Config  config.Config
	// Exec runs every side-effecting external step. In dry mode it is an
	// executor.Dry.
	Exec     executor.Executor
	VCS      *git.Repo
	Registry publish.Registry
	Confirm  Confirmer
	Log      zerolog.Logger
	Out      io.Writer
	// ToolVersion is stamped into the release record.
	ToolVersion string
	Now         func() time.Time
}

// Run executes the release. A declined confirmation returns a Report with
// Declined set and a nil error. On failure the returned Report describes the
// steps that completed.
func (p *Pipeline) Run(ctx context.Context, run RunContext) (*Report, error) {
	log := p.Log.With().Str("run", run.RunID).Logger()
	rep := &Report{RunID: run.RunID}

	target, err := version.Validate(run.Target)
	if err != nil {
		return rep, err
	}
	rep.Version = target
	log = log.With().Str("version", target).Logger()

	branch, err := p.VCS.CurrentBranch(ctx)
	if err != nil {
		return rep, err
	}
	if branch == "" {
		return rep, ErrDetachedHead
	}

	ok, err := p.Confirm.Confirm(ctx, target)
	if err != nil {
		return rep, err
	}
	if !ok {
		log.Info().Msg("release declined")
		rep.Declined = true
		return rep, nil
	}
	if run.DryRun {
		log.Warn().Msg("dry run: external steps are logged, manifests are still rewritten")
	}

	if run.SkipTests || run.DryRun {
		log.Info().Msg("skipping tests")
	} else if err := p.step(ctx, "test", p.Config.Commands.Test); err != nil {
		return rep, err
	}

	prop := &propagate.Propagator{Catalog: p.Catalog, Scope: p.Config.Scope, Log: log}
	res, err := prop.Apply(target)
	rep.Written = res.Paths()
	if err != nil {
		return rep, fmt.Errorf("propagating %s: %w", target, err)
	}

	if run.SkipBuild || run.DryRun {
		log.Info().Msg("skipping build")
	} else if err := p.step(ctx, "build", p.Config.Commands.Build); err != nil {
		return rep, err
	}

	if err := p.step(ctx, "changelog", p.Config.Commands.Changelog); err != nil {
		return rep, err
	}

	diff, err := p.VCS.Diff(ctx)
	if err != nil {
		return rep, err
	}
	if diff == "" {
		log.Info().Msg("no changes to commit")
	} else {
		if err := p.VCS.AddAll(ctx, p.recordExclude()...); err != nil {
			return rep, fmt.Errorf("staging release: %w", err)
		}
		if err := p.VCS.Commit(ctx, p.Config.CommitMessage(target)); err != nil {
			return rep, fmt.Errorf("committing release: %w", err)
		}
		rep.Committed = true
	}

	pubErr := p.publishAll(ctx, run, target, log, rep)
	if err := p.writeRecord(ctx, run, rep); err != nil {
		log.Warn().Err(err).Msg("release record not written")
	}
	if pubErr != nil {
		return rep, pubErr
	}

	// A tag left by an earlier run whose push failed is reused.
	tag := p.Config.TagName(target)
	exists, err := p.VCS.TagExists(ctx, tag)
	if err != nil {
		return rep, err
	}
	if exists {
		log.Info().Str("tag", tag).Msg("tag already exists, reusing it")
	} else if err := p.VCS.Tag(ctx, tag); err != nil {
		return rep, fmt.Errorf("tagging %s: %w", tag, err)
	}
	if err := p.VCS.Push(ctx, p.Config.Git.Remote, "refs/tags/"+tag); err != nil {
		return rep, fmt.Errorf("pushing %s: %w", tag, err)
	}
	if err := p.VCS.Push(ctx, p.Config.Git.Remote, branch); err != nil {
		return rep, fmt.Errorf("pushing %s: %w", branch, err)
	}
	rep.Tagged = true

	rep.Skipped = run.Skip.Names()
	if len(rep.Skipped) > 0 {
		log.Warn().Strs("units", rep.Skipped).Msg("units skipped by request")
	}
	log.Info().Msg("release complete")
	return rep, nil
}

// publishAll publishes the units in enumeration order and stops at the first
// fatal result.
func (p *Pipeline) publishAll(ctx context.Context, run RunContext, target string, log zerolog.Logger, rep *Report) error {
	pub := &publish.Publisher{
		Catalog:  p.Catalog,
		Registry: p.Registry,
		Skip:     run.Skip,
		Primary:  p.Config.Primary,
		Access:   p.Config.Registry.Access,
		Log:      log,
	}
	units := p.Catalog.Units()
	progress := ui.NewProgress(p.out(), len(units))
	progress.Log("Publishing %d units at %s", len(units), target)
	for _, u := range units {
		res, err := pub.Publish(ctx, u, target, run.TagOverride)
		rep.Results = append(rep.Results, res)
		progress.Step(u.Name, string(res.Status), res.Status.Fatal())
		if err != nil {
			log.Error().Err(err).Int("remaining", progress.Remaining()).Msg("publishing stopped")
			return err
		}
	}
	return nil
}

func (p *Pipeline) step(ctx context.Context, name string, cmd []string) error {
	s := executor.Step{Name: name, Dir: p.Catalog.Root, Cmd: cmd}
	if _, err := p.Exec.Run(ctx, s); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (p *Pipeline) writeRecord(ctx context.Context, run RunContext, rep *Report) error {
	if p.Config.Record == "" {
		return nil
	}
	commit, err := p.VCS.HeadCommit(ctx)
	if err != nil {
		p.Log.Warn().Err(err).Msg("cannot resolve HEAD for the release record")
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	f := &record.File{
		Version:     1,
		RunID:       run.RunID,
		Release:     rep.Version,
		PreID:       run.PreID,
		Commit:      commit,
		GeneratedAt: now().Format(time.RFC3339),
		ToolVersion: p.ToolVersion,
		DryRun:      run.DryRun,
		Units:       make(map[string]*record.Unit, len(rep.Results)),
		Skipped:     run.Skip.Names(),
	}
	for _, res := range rep.Results {
		u := &record.Unit{Package: res.Package, Tag: res.Tag, Status: string(res.Status)}
		if res.Err != nil {
			u.Error = res.Err.Error()
		}
		f.Units[res.Unit] = u
	}
	return record.Save(p.Config.RecordPath(p.Catalog.Root), f)
}

// recordExclude returns the record path relative to the workspace root when
// the record lives inside it, so staging never picks it up.
func (p *Pipeline) recordExclude() []string {
	if p.Config.Record == "" {
		return nil
	}
	rel, err := filepath.Rel(p.Catalog.Root, p.Config.RecordPath(p.Catalog.Root))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}
	return []string{rel}
}

func (p *Pipeline) out() io.Writer {
	if p.Out == nil {
		return io.Discard
	}
	return p.Out
}
