package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fbkclanna/monorel/internal/executor"
)

// Response is a canned outcome for steps whose command line starts with Prefix.
type Response struct {
	Prefix string
	Stdout string
	Stderr string
	Fail   bool
}

// Recorder is an executor.Executor that records every step and answers
// from canned responses instead of running anything.
type Recorder struct {
	mu        sync.Mutex
	Steps     []executor.Step
	Responses []Response
}

// On registers a successful response for prefix.
func (r *Recorder) On(prefix, stdout string) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Responses = append(r.Responses, Response{Prefix: prefix, Stdout: stdout})
	return r
}

// Fail registers a failing response for prefix with the given stderr.
func (r *Recorder) Fail(prefix, stderr string) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Responses = append(r.Responses, Response{Prefix: prefix, Stderr: stderr, Fail: true})
	return r
}

// Run records the step and returns the first matching response.
func (r *Recorder) Run(_ context.Context, s executor.Step) (executor.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Steps = append(r.Steps, s)
	line := s.String()
	for _, resp := range r.Responses {
		if !strings.HasPrefix(line, resp.Prefix) {
			continue
		}
		res := executor.Result{Stdout: resp.Stdout, Stderr: resp.Stderr}
		if resp.Fail {
			return res, &executor.StepError{Step: s, ExitCode: 1, Stderr: resp.Stderr, Err: fmt.Errorf("exit status 1")}
		}
		return res, nil
	}
	return executor.Result{}, nil
}

// Lines returns the recorded command lines in order.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = s.String()
	}
	return out
}

// Count returns how many recorded command lines start with prefix.
func (r *Recorder) Count(prefix string) int {
	n := 0
	for _, l := range r.Lines() {
		if strings.HasPrefix(l, prefix) {
			n++
		}
	}
	return n
}
