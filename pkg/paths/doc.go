// Package paths resolves every location envboot touches.
//
// Nothing here is relative to the caller's working directory. The project
// root is decided once, in this order:
//
//   - the --root flag
//   - ENVBOOT_ROOT
//   - the directory holding the envboot executable (symlinks resolved)
//
// Relative paths from configuration (environment root, manifests, runner)
// are joined to that root, so invoking envboot from any directory produces
// the same environment path and the same manifest resolution.
//
// # XDG Base Directory Structure
//
//   - State: $XDG_STATE_HOME/envboot (log file)
//
// # Usage
//
//	p, err := paths.New("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	venv := p.Resolve("venv")                 // /srv/project/venv
//	reqs := p.Resolve("tests/requirements.txt") // /srv/project/tests/requirements.txt
package paths
