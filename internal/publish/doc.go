// Package publish publishes workspace units to a package registry under a
// distribution tag derived from the release version.
//
// Registries are reached through the Registry interface. An attempt to
// publish a version that already exists is reported as ErrAlreadyPublished,
// which the Publisher treats as benign so re-running a partially completed
// release can continue past units that made it out last time.
package publish
