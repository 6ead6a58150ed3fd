package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var (
	// ErrInvalidVersion is returned when a version string is not valid semver.
	ErrInvalidVersion = errors.New("invalid version")
	// ErrInvalidIncrement is returned when an increment cannot produce a valid version.
	ErrInvalidIncrement = errors.New("invalid increment")
)

// Increment names a version bump kind.
type Increment string

const (
	Patch      Increment = "patch"
	Minor      Increment = "minor"
	Major      Increment = "major"
	PrePatch   Increment = "prepatch"
	PreMinor   Increment = "preminor"
	PreMajor   Increment = "premajor"
	PreRelease Increment = "prerelease"
)

// IsPre reports whether the increment produces a pre-release version.
func (i Increment) IsPre() bool {
	switch i {
	case PrePatch, PreMinor, PreMajor, PreRelease:
		return true
	}
	return false
}

// ParseIncrement parses an increment name.
func ParseIncrement(s string) (Increment, error) {
	switch inc := Increment(strings.ToLower(strings.TrimSpace(s))); inc {
	case Patch, Minor, Major, PrePatch, PreMinor, PreMajor, PreRelease:
		return inc, nil
	default:
		return "", fmt.Errorf("%w: unknown increment %q", ErrInvalidIncrement, s)
	}
}

// Increments returns the increments offered for a pre-release identifier.
// The pre-release kinds are only offered when preID is non-empty.
func Increments(preID string) []Increment {
	incs := []Increment{Patch, Minor, Major}
	if preID != "" {
		incs = append(incs, PrePatch, PreMinor, PreMajor, PreRelease)
	}
	return incs
}

// Candidate is one computable increment and the version it produces.
type Candidate struct {
	Increment Increment
	Version   string
}

// Validate checks an operator-supplied version and returns it in canonical form.
func Validate(v string) (string, error) {
	sv, err := semver.StrictNewVersion(strings.TrimSpace(v))
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidVersion, v, err)
	}
	return sv.String(), nil
}

// PreID returns the identifier of the current pre-release channel, e.g.
// "beta" for 3.0.0-beta.2. Numeric-only pre-releases have no channel.
func PreID(current string) string {
	sv, err := semver.StrictNewVersion(current)
	if err != nil || sv.Prerelease() == "" {
		return ""
	}
	first, _, _ := strings.Cut(sv.Prerelease(), ".")
	if isNumeric(first) {
		return ""
	}
	return first
}

// EffectivePreID returns the explicit identifier, or the one carried by the
// current version so successive pre-releases stay on the same channel.
func EffectivePreID(current, preID string) string {
	if preID != "" {
		return preID
	}
	return PreID(current)
}

// Candidates computes every offered increment for current.
func Candidates(current, preID string) ([]Candidate, error) {
	preID = EffectivePreID(current, preID)
	incs := Increments(preID)
	out := make([]Candidate, 0, len(incs))
	for _, inc := range incs {
		v, err := Next(current, inc, preID)
		if err != nil {
			return nil, err
		}
		out = append(out, Candidate{Increment: inc, Version: v})
	}
	return out, nil
}

// Next applies inc to current. An empty preID falls back to the identifier
// of the current pre-release, if any.
func Next(current string, inc Increment, preID string) (string, error) {
	sv, err := semver.StrictNewVersion(strings.TrimSpace(current))
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidVersion, current, err)
	}
	preID = EffectivePreID(sv.String(), preID)
	if inc.IsPre() && preID == "" {
		return "", fmt.Errorf("%w: %s requires a pre-release identifier", ErrInvalidIncrement, inc)
	}

	major, minor, patch := sv.Major(), sv.Minor(), sv.Patch()
	var pre []string
	if sv.Prerelease() != "" {
		pre = strings.Split(sv.Prerelease(), ".")
	}

	switch inc {
	case Major:
		if minor != 0 || patch != 0 || len(pre) == 0 {
			major++
		}
		minor, patch, pre = 0, 0, nil
	case Minor:
		if patch != 0 || len(pre) == 0 {
			minor++
		}
		patch, pre = 0, nil
	case Patch:
		if len(pre) == 0 {
			patch++
		}
		pre = nil
	case PreMajor:
		major, minor, patch = major+1, 0, 0
		pre = bumpPre(nil, preID)
	case PreMinor:
		minor, patch = minor+1, 0
		pre = bumpPre(nil, preID)
	case PrePatch:
		patch++
		pre = bumpPre(nil, preID)
	case PreRelease:
		if len(pre) == 0 {
			patch++
		}
		pre = bumpPre(pre, preID)
	default:
		return "", fmt.Errorf("%w: unknown increment %q", ErrInvalidIncrement, inc)
	}

	result := fmt.Sprintf("%d.%d.%d", major, minor, patch)
	if len(pre) > 0 {
		result += "-" + strings.Join(pre, ".")
	}
	if _, err := semver.StrictNewVersion(result); err != nil {
		return "", fmt.Errorf("%w: %s of %s with %q gives %q", ErrInvalidIncrement, inc, current, preID, result)
	}
	return result, nil
}

// bumpPre increments the last numeric pre-release part (appending 0 when
// there is none) and then moves onto the id channel if it differs.
func bumpPre(parts []string, id string) []string {
	next := append([]string(nil), parts...)
	if len(next) == 0 {
		next = []string{"0"}
	} else {
		bumped := false
		for i := len(next) - 1; i >= 0; i-- {
			if n, err := strconv.ParseUint(next[i], 10, 64); err == nil {
				next[i] = strconv.FormatUint(n+1, 10)
				bumped = true
				break
			}
		}
		if !bumped {
			next = append(next, "0")
		}
	}
	if id == "" {
		return next
	}
	if next[0] != id || len(next) < 2 || !isNumeric(next[1]) {
		return []string{id, "0"}
	}
	return next
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
