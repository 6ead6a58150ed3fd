package publish

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fbkclanna/monorel/internal/executor"
)

// Supported package manager clients.
const (
	ClientNPM  = "npm"
	ClientYarn = "yarn"
	ClientPNPM = "pnpm"
)

// alreadyPublishedMarkers are diagnostics package managers print when the
// exact version already exists on the registry.
var alreadyPublishedMarkers = []string{
	"previously published",
	"cannot publish over",
	"EPUBLISHCONFLICT",
	"cannot modify pre-existing version",
}

// CLIRegistry publishes by invoking a package manager client through an
// executor.
type CLIRegistry struct {
	Client string
	Exec   executor.Executor
}

// NewCLIRegistry returns a registry for client (npm, yarn or pnpm).
func NewCLIRegistry(client string, exec executor.Executor) (*CLIRegistry, error) {
	switch client {
	case ClientNPM, ClientYarn, ClientPNPM:
		return &CLIRegistry{Client: client, Exec: exec}, nil
	case "":
		return &CLIRegistry{Client: ClientNPM, Exec: exec}, nil
	default:
		return nil, fmt.Errorf("unknown registry client %q (must be npm, yarn, or pnpm)", client)
	}
}

// Args returns the client command line for req.
func (r *CLIRegistry) Args(req Request) []string {
	var args []string
	switch r.Client {
	case ClientYarn:
		args = []string{"yarn", "publish", "--new-version", req.Version}
	case ClientPNPM:
		args = []string{"pnpm", "publish", "--no-git-checks"}
	default:
		args = []string{"npm", "publish"}
	}
	if req.Tag != "" {
		args = append(args, "--tag", req.Tag)
	}
	if req.Access != "" {
		args = append(args, "--access", req.Access)
	}
	return args
}

// Publish runs the client in the package directory and classifies failures.
func (r *CLIRegistry) Publish(ctx context.Context, req Request) error {
	res, err := r.Exec.Run(ctx, executor.Step{
		Name: "publish " + req.Package,
		Dir:  req.Dir,
		Cmd:  r.Args(req),
	})
	if err == nil {
		return nil
	}
	diag := res.Stderr + "\n" + res.Stdout
	var se *executor.StepError
	if errors.As(err, &se) {
		diag += "\n" + se.Stderr
	}
	if IsAlreadyPublished(diag) {
		return fmt.Errorf("%w: %s@%s", ErrAlreadyPublished, req.Package, req.Version)
	}
	return fmt.Errorf("%w: %s@%s: %w", ErrPublishFailed, req.Package, req.Version, err)
}

// IsAlreadyPublished reports whether a client diagnostic says the version exists.
func IsAlreadyPublished(diag string) bool {
	lower := strings.ToLower(diag)
	for _, m := range alreadyPublishedMarkers {
		if strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}
