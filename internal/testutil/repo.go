package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// CreateBareRepo creates an empty bare git repository in a temp directory.
// Returns the path to the bare repo.
func CreateBareRepo(t *testing.T) string {
	t.Helper()
	bare := filepath.Join(t.TempDir(), "remote.git")
	run(t, ".", "git", "init", "--bare", "-b", "main", bare)
	return bare
}

// InitRepo turns dir into a git repository on branch main with everything
// committed, and wires origin to a fresh bare repository.
// Returns the path to the bare remote.
func InitRepo(t *testing.T, dir string) string {
	t.Helper()
	run(t, dir, "git", "init", "-b", "main")
	run(t, dir, "git", "config", "user.email", "test@example.com")
	run(t, dir, "git", "config", "user.name", "Test")
	run(t, dir, "git", "add", ".")
	run(t, dir, "git", "commit", "-m", "initial commit")

	bare := CreateBareRepo(t)
	run(t, dir, "git", "remote", "add", "origin", bare)
	run(t, dir, "git", "push", "-u", "origin", "main")
	return bare
}

// Git runs a git command in dir and returns its trimmed stdout.
func Git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("git %v failed: %v", args, err)
	}
	return string(trimNewline(out))
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

func run(t *testing.T, dir string, name string, args ...string) {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("command %s %v failed: %v", name, args, err)
	}
}
