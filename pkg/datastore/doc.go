// Package datastore keeps envboot's record of what it provisioned.
//
// The record is a small TOML stamp inside the environment root. It is
// written after a fresh provisioning or a forced reinstall and lists each
// manifest's checksum, so status can tell when a manifest changed since
// the environment was built. The stamp is informational: its absence or
// staleness never changes what a run does.
package datastore
