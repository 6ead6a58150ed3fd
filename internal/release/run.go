package release

import (
	"github.com/google/uuid"

	"github.com/fbkclanna/monorel/internal/publish"
)

// RunContext carries the per-run options through the pipeline. It is fixed
// once the run starts.
type RunContext struct {
	RunID       string
	Target      string
	PreID       string
	Skip        publish.SkipSet
	DryRun      bool
	SkipTests   bool
	SkipBuild   bool
	TagOverride string
}

// NewRunContext returns a RunContext for target with a fresh run id.
func NewRunContext(target string) RunContext {
	return RunContext{
		RunID:  uuid.NewString(),
		Target: target,
		Skip:   publish.NewSkipSet(),
	}
}

// Report describes how far a run got.
type Report struct {
	RunID     string
	Version   string
	Declined  bool
	Committed bool
	Tagged    bool
	// Written lists the manifest paths rewritten by propagation. It is set
	// even when a later step fails.
	Written []string
	Results []publish.Result
	Skipped []string
}

// Count returns how many publish results have status s.
func (r *Report) Count(s publish.Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}
