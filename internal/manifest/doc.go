// Package manifest reads and writes package.json manifests of workspace
// units. Documents round-trip with their original key order, two-space
// indentation and a single trailing newline.
package manifest
