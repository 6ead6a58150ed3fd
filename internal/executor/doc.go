// Package executor runs external steps (tests, builds, git and registry
// commands) either for real or in a dry mode that only logs the intended
// invocation. Every side-effecting component takes an Executor so runs can
// be simulated and tested without live external calls.
package executor
