// Package runner hands control to the project's test entry point once the
// environment is ready.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/logging"
	"github.com/rs/zerolog"
)

// interruptedExitCode is reported when the runner was killed by cancellation
const interruptedExitCode = 130

// Spec describes the test entry point
type Spec struct {
	Command string
	Args    []string
	Env     map[string]string
	Dir     string
}

// Argv is the full argument vector with caller args appended verbatim
func (s Spec) Argv(args []string) []string {
	argv := make([]string, 0, 1+len(s.Args)+len(args))
	argv = append(argv, s.Command)
	argv = append(argv, s.Args...)
	return append(argv, args...)
}

// Options configures an Exec
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Exec starts the runner as a child process with stdio passed through
type Exec struct {
	logger zerolog.Logger
	root   string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// New creates an Exec that resolves relative paths against root
func New(root string, opts Options) *Exec {
	e := &Exec{
		logger: logging.GetLogger("runner"),
		root:   root,
		stdin:  opts.Stdin,
		stdout: opts.Stdout,
		stderr: opts.Stderr,
	}
	if e.stdin == nil {
		e.stdin = os.Stdin
	}
	if e.stdout == nil {
		e.stdout = os.Stdout
	}
	if e.stderr == nil {
		e.stderr = os.Stderr
	}
	return e
}

// Invoke runs the entry point and waits for it. The returned code is the
// child's exit code. An error means the child could not be started.
func (e *Exec) Invoke(ctx context.Context, spec Spec, args []string) (int, error) {
	path, err := e.resolve(spec.Command)
	if err != nil {
		return 0, errors.RunnerInvocation(err, spec.Command)
	}

	cmd := exec.CommandContext(ctx, path, append(append([]string(nil), spec.Args...), args...)...)
	cmd.Dir = e.dir(spec.Dir)
	cmd.Env = append(os.Environ(), envList(spec.Env)...)
	cmd.Stdin = e.stdin
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	e.logger.Info().
		Str("command", path).
		Strs("args", cmd.Args[1:]).
		Str("workingDir", cmd.Dir).
		Msg("Invoking runner")

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return 0, errors.RunnerInvocation(err, spec.Command)
	}

	err = cmd.Wait()
	duration := time.Since(start)
	if err == nil {
		e.logger.Info().Dur("duration", duration).Msg("Runner finished")
		return 0, nil
	}

	var ee *exec.ExitError
	if !errors.As(err, &ee) {
		return 0, errors.RunnerInvocation(err, spec.Command)
	}

	code := ee.ExitCode()
	if code < 0 {
		// killed by a signal
		code = 1
		if ctx.Err() != nil {
			code = interruptedExitCode
		}
	}

	e.logger.Info().Int("exitCode", code).Dur("duration", duration).Msg("Runner finished")
	return code, nil
}

// resolve finds the executable. Bare names are looked up on PATH, which
// activation has already pointed at the environment.
func (e *Exec) resolve(command string) (string, error) {
	if command == "" {
		return "", fmt.Errorf("no runner command configured")
	}
	if strings.ContainsRune(command, '/') || strings.ContainsRune(command, filepath.Separator) {
		if !filepath.IsAbs(command) {
			command = filepath.Join(e.root, command)
		}
	}
	return exec.LookPath(command)
}

func (e *Exec) dir(dir string) string {
	if dir == "" {
		return e.root
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(e.root, dir)
}

func envList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	list := make([]string, 0, len(keys))
	for _, key := range keys {
		list = append(list, strings.ToUpper(key)+"="+env[key])
	}
	return list
}
