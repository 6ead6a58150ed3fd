package publish

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fbkclanna/monorel/internal/workspace"
)

var (
	// ErrAlreadyPublished is returned by a Registry when the exact version exists.
	ErrAlreadyPublished = errors.New("version already published")
	// ErrPublishFailed wraps every other publish failure.
	ErrPublishFailed = errors.New("publish failed")
)

// Status is the terminal state of one unit's publish attempt.
type Status string

const (
	StatusSkipped          Status = "skipped"
	StatusNotPublic        Status = "not-public"
	StatusPublished        Status = "published"
	StatusAlreadyPublished Status = "already-published"
	StatusFailed           Status = "failed"
)

// Fatal reports whether the status stops the remaining publishes.
func (s Status) Fatal() bool {
	return s == StatusFailed
}

// Request is one registry publish invocation.
type Request struct {
	Dir     string
	Package string
	Version string
	Tag     string // empty means the registry default
	Access  string
}

// Registry publishes a package directory.
type Registry interface {
	Publish(ctx context.Context, req Request) error
}

// Result is the outcome of Publisher.Publish.
type Result struct {
	Unit    string
	Package string
	Version string
	Tag     string
	Status  Status
	Err     error
}

// SkipSet holds the unit names excluded from publishing in a run.
type SkipSet map[string]struct{}

// NewSkipSet builds a SkipSet from names, ignoring blanks.
func NewSkipSet(names ...string) SkipSet {
	s := make(SkipSet, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			s[n] = struct{}{}
		}
	}
	return s
}

// Has reports whether name is in the set.
func (s SkipSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the members in sorted order.
func (s SkipSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Publisher publishes single units.
type Publisher struct {
	Catalog  *workspace.Catalog
	Registry Registry
	Skip     SkipSet
	// Primary names the flagship unit (by directory or package name), which
	// is published under the "next" tag when no pre-release tag applies.
	Primary string
	Access  string
	Log     zerolog.Logger
}

// Publish runs the publish state machine for u. The returned error is
// non-nil only for StatusFailed.
func (p *Publisher) Publish(ctx context.Context, u workspace.Unit, target, tagOverride string) (Result, error) {
	res := Result{Unit: u.Name, Version: target}
	if p.Skip.Has(u.Name) {
		res.Status = StatusSkipped
		return res, nil
	}

	mf, err := p.Catalog.LoadManifest(u)
	if err != nil {
		return p.fail(res, fmt.Errorf("%w: %s: %w", ErrPublishFailed, u.Name, err))
	}
	res.Package = mf.Name
	if mf.Private {
		res.Status = StatusNotPublic
		return res, nil
	}

	primary := p.Primary != "" && (u.Name == p.Primary || mf.Name == p.Primary)
	res.Tag = DistTag(target, tagOverride, primary)

	access := p.Access
	if access == "" {
		access = "public"
	}
	p.Log.Info().Str("unit", u.Name).Str("package", mf.Name).Str("version", target).
		Str("tag", displayTag(res.Tag)).Msg("publishing")
	err = p.Registry.Publish(ctx, Request{
		Dir:     u.Dir,
		Package: mf.Name,
		Version: target,
		Tag:     res.Tag,
		Access:  access,
	})
	switch {
	case err == nil:
		res.Status = StatusPublished
		return res, nil
	case errors.Is(err, ErrAlreadyPublished):
		p.Log.Warn().Str("package", mf.Name).Str("version", target).Msg("already published, skipping")
		res.Status = StatusAlreadyPublished
		return res, nil
	case errors.Is(err, ErrPublishFailed):
		return p.fail(res, err)
	default:
		return p.fail(res, fmt.Errorf("%w: %s: %w", ErrPublishFailed, mf.Name, err))
	}
}

func (p *Publisher) fail(res Result, err error) (Result, error) {
	res.Status = StatusFailed
	res.Err = err
	return res, err
}

// DistTag derives the distribution tag for a publish: an explicit override
// wins, then an alpha/beta/rc marker in the version, then "next" for the
// primary package. An empty tag means the registry default (latest).
func DistTag(target, override string, primary bool) string {
	if override != "" {
		return override
	}
	for _, pre := range []string{"alpha", "beta", "rc"} {
		if strings.Contains(target, pre) {
			return pre
		}
	}
	if primary {
		return "next"
	}
	return ""
}

func displayTag(tag string) string {
	if tag == "" {
		return "latest"
	}
	return tag
}
