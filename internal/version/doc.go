// Package version computes candidate release versions from the current
// workspace version and validates operator-supplied version strings.
package version
