// Package record handles the release record file, a YAML summary of the
// last run's per-unit publish outcomes. It lets an operator see how far a
// failed release got before re-running it.
package record
