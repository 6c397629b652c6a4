// Package executor runs the external commands that provision an
// environment (interpreter, installer, custom create/install commands).
//
// Output is streamed to the configured writers so users see installer
// progress live, while the tail of stderr is kept for error details.
package executor
