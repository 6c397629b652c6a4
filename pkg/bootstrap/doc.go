// Package bootstrap ensures a ready environment and then dispatches to the
// project's test runner.
//
// The procedure is a straight line with one branch. If the environment
// marker is absent, the environment is created, activated, and every
// manifest is installed in order. If it is present, the environment is
// activated. Either way activation happens exactly once, after which the
// runner is invoked with the caller's arguments and its exit code becomes
// the result.
//
// All external effects go through injected collaborators (Backend, Loader,
// Invoker, Store) so the sequencing can be exercised with fakes.
package bootstrap
