package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fbkclanna/monorel/internal/executor"
)

// Repo is a git working tree.
type Repo struct {
	Dir   string
	Exec  executor.Executor // mutating commands
	Query executor.Executor // read-only commands
}

// New returns a Repo whose mutations go through exec and whose queries run
// through query. A nil query falls back to exec.
func New(dir string, exec, query executor.Executor) *Repo {
	if query == nil {
		query = exec
	}
	return &Repo{Dir: dir, Exec: exec, Query: query}
}

// Diff returns the unstaged diff of the working tree.
func (r *Repo) Diff(ctx context.Context) (string, error) {
	return r.output(ctx, "diff")
}

// IsDirty returns true if the working tree has uncommitted changes.
func (r *Repo) IsDirty(ctx context.Context) (bool, error) {
	out, err := r.output(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// CurrentBranch returns the current branch name, or empty string if detached.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.output(ctx, "symbolic-ref", "--short", "-q", "HEAD")
	if err != nil {
		var se *executor.StepError
		// Detached HEAD: symbolic-ref -q exits 1 without output.
		if errors.As(err, &se) && se.ExitCode == 1 {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// HeadCommit returns the short SHA of HEAD.
func (r *Repo) HeadCommit(ctx context.Context) (string, error) {
	out, err := r.output(ctx, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// TagExists checks if a local tag exists.
func (r *Repo) TagExists(ctx context.Context, tag string) (bool, error) {
	out, err := r.output(ctx, "tag", "--list", tag)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) == tag, nil
}

// AddAll stages every change in the working tree, including untracked
// files, except paths matching exclude (relative to the repository root).
func (r *Repo) AddAll(ctx context.Context, exclude ...string) error {
	args := []string{"add", "-A"}
	if len(exclude) > 0 {
		args = append(args, "--", ".")
		for _, e := range exclude {
			args = append(args, ":(exclude)"+filepath.ToSlash(e))
		}
	}
	return r.run(ctx, args...)
}

// Commit creates a commit with the given message.
func (r *Repo) Commit(ctx context.Context, message string) error {
	return r.run(ctx, "commit", "-m", message)
}

// Tag creates a lightweight tag at HEAD.
func (r *Repo) Tag(ctx context.Context, name string) error {
	return r.run(ctx, "tag", name)
}

// Push pushes ref to remote.
func (r *Repo) Push(ctx context.Context, remote, ref string) error {
	return r.run(ctx, "push", remote, ref)
}

// run executes a mutating git command.
func (r *Repo) run(ctx context.Context, args ...string) error {
	_, err := r.Exec.Run(ctx, r.step(args))
	return err
}

// output executes a read-only git command and returns its stdout.
func (r *Repo) output(ctx context.Context, args ...string) (string, error) {
	res, err := r.Query.Run(ctx, r.step(args))
	if err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return res.Stdout, nil
}

func (r *Repo) step(args []string) executor.Step {
	return executor.Step{
		Name: "git " + args[0],
		Dir:  r.Dir,
		Cmd:  append([]string{"git"}, args...),
	}
}

// IsRepo returns true if the directory is the top of a git working tree.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// IsGitInstalled returns true if git is available on the system PATH.
func IsGitInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}
