package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// RootManifest is the package.json used for the root project of Workspace.
const RootManifest = `{
  "name": "acme",
  "version": "3.2.0",
  "private": true,
  "scripts": {
    "build": "node scripts/build.js"
  },
  "devDependencies": {
    "@acme/core": "^3.2.0",
    "typescript": "^5.4.0"
  }
}
`

// Packages is the default set of unit manifests keyed by directory name.
var Packages = map[string]string{
	"acme": `{
  "name": "acme",
  "version": "3.2.0",
  "main": "index.js",
  "dependencies": {
    "@acme/core": "^3.2.0",
    "@acme/shared": "~3.2.0",
    "@acme/unknown": "^1.0.0",
    "lodash": "^4.17.21"
  }
}
`,
	"core": `{
  "name": "@acme/core",
  "version": "3.2.0",
  "dependencies": {
    "@acme/shared": "3.2.0"
  },
  "peerDependencies": {
    "acme": "^3.2.0",
    "react": ">=18"
  }
}
`,
	"shared": `{
  "name": "@acme/shared",
  "version": "3.2.0"
}
`,
	"internal-tools": `{
  "name": "@acme/internal-tools",
  "version": "3.2.0",
  "private": true,
  "dependencies": {
    "@acme/core": "3.2.0"
  }
}
`,
}

// Workspace writes a monorepo with RootManifest and Packages under a temp
// directory, plus a stray file and a hidden directory under packages/.
// Returns the workspace root.
func Workspace(t *testing.T) string {
	t.Helper()
	return WorkspaceWith(t, RootManifest, Packages)
}

// WorkspaceWith writes a monorepo with the given root and unit manifests.
func WorkspaceWith(t *testing.T, root string, packages map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	WriteFile(t, filepath.Join(dir, "package.json"), root)
	for name, content := range packages {
		WriteFile(t, filepath.Join(dir, "packages", name, "package.json"), content)
	}
	WriteFile(t, filepath.Join(dir, "packages", "global.d.ts"), "declare const __DEV__: boolean\n")
	WriteFile(t, filepath.Join(dir, "packages", ".cache", "package.json"), `{"name":"cache"}`+"\n")
	return dir
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil { //nolint:gosec // test file
		t.Fatal(err)
	}
}

// ReadFile returns the content of path.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // test file
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
