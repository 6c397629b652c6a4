// Package environment provides the isolation backends envboot provisions.
//
// A backend answers four questions about an environment root: does it
// exist, how is it created, how is it activated for the current process,
// and how is a manifest installed into it. The venv backend drives
// Python's built-in virtual environments. The command backend runs
// configured command templates, which covers other toolchains.
//
// Activation mutates the current process environment (PATH and friends)
// so that anything started afterwards, including the test runner,
// resolves executables from the environment first.
package environment
