// Package git wraps the git CLI operations a release needs: diff, stage,
// commit, tag and push. Mutating operations go through an executor so they
// can be simulated; queries always run for real.
package git
