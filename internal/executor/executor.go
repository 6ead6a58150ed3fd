package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// ErrStepFailed is matched by every error returned for a failed step.
var ErrStepFailed = errors.New("step failed")

// Step is one external invocation.
type Step struct {
	Name string
	Dir  string
	Cmd  []string
}

// String returns the command line of the step.
func (s Step) String() string {
	return strings.Join(s.Cmd, " ")
}

// Result is the captured output of a step.
type Result struct {
	Stdout string
	Stderr string
}

// Executor runs steps.
type Executor interface {
	Run(ctx context.Context, s Step) (Result, error)
}

// StepError describes a step that could not be started or exited non-zero.
type StepError struct {
	Step     Step
	ExitCode int
	Stderr   string
	Err      error
}

func (e *StepError) Error() string {
	msg := fmt.Sprintf("%s: %s: %v", e.Step.Name, e.Step, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// Unwrap exposes both ErrStepFailed and the underlying error.
func (e *StepError) Unwrap() []error {
	return []error{ErrStepFailed, e.Err}
}

// Shell runs steps as child processes (no shell expansion). Output is
// captured and, when the writers are set, streamed as well.
type Shell struct {
	Stdout io.Writer
	Stderr io.Writer
	Log    zerolog.Logger
}

// Run executes the step and waits for it to finish.
func (s *Shell) Run(ctx context.Context, step Step) (Result, error) {
	if len(step.Cmd) == 0 {
		return Result{}, &StepError{Step: step, ExitCode: -1, Err: fmt.Errorf("empty cmd")}
	}
	s.Log.Debug().Str("step", step.Name).Str("dir", step.Dir).Msgf("running %s", step)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, step.Cmd[0], step.Cmd[1:]...) //nolint:gosec // commands come from workspace configuration
	cmd.Dir = step.Dir
	cmd.Stdout = tee(&stdout, s.Stdout)
	cmd.Stderr = tee(&stderr, s.Stderr)

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return res, &StepError{Step: step, ExitCode: code, Stderr: res.Stderr, Err: err}
	}
	return res, nil
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

// Dry logs each step instead of running it and always succeeds with empty
// output, so the caller's control flow is the same as for a real run.
type Dry struct {
	Log zerolog.Logger
}

// Run logs the intended invocation.
func (d *Dry) Run(_ context.Context, step Step) (Result, error) {
	d.Log.Info().Str("step", step.Name).Str("dir", step.Dir).Msgf("dry run: %s", step)
	return Result{}, nil
}

// New returns a Dry executor when dry is set, otherwise a Shell.
func New(dry bool, stdout, stderr io.Writer, log zerolog.Logger) Executor {
	if dry {
		return &Dry{Log: log}
	}
	return &Shell{Stdout: stdout, Stderr: stderr, Log: log}
}
