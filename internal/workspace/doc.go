// Package workspace enumerates the publishable units of a monorepo and
// loads and persists their manifests. The set of units is read once when
// the Catalog is opened and stays fixed for the rest of a run.
package workspace
