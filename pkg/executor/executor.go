package executor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/logging"
	"github.com/rs/zerolog"
)

// stderrTailSize bounds how much stderr is kept for error details
const stderrTailSize = 4096

// Command is one external command invocation
type Command struct {
	Name        string
	Args        []string
	Dir         string
	Env         map[string]string
	Description string
}

// Runner executes commands. Backends depend on this, not on Executor.
type Runner interface {
	Execute(ctx context.Context, cmd Command) error
}

// Options contains configuration for the executor
type Options struct {
	DryRun bool
	Stdout io.Writer
	Stderr io.Writer
	Logger zerolog.Logger
}

// Executor runs commands with streamed output
type Executor struct {
	logger zerolog.Logger
	dryRun bool
	stdout io.Writer
	stderr io.Writer
}

// New creates a new executor instance
func New(opts Options) *Executor {
	logger := opts.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = logging.GetLogger("executor")
	}

	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Executor{
		logger: logger,
		dryRun: opts.DryRun,
		stdout: stdout,
		stderr: stderr,
	}
}

// Execute runs cmd to completion. A non-zero exit is an error.
func (e *Executor) Execute(ctx context.Context, cmd Command) error {
	if cmd.Name == "" {
		return errors.New(errors.ErrInvalidInput, "execute requires a command")
	}

	e.logger.Info().
		Str("description", cmd.Description).
		Str("workingDir", cmd.Dir).
		Msg("Running setup command")
	logging.LogCommand(e.logger, cmd.Name, cmd.Args)

	if e.dryRun {
		e.logger.Info().Msg("Dry run mode - command would be executed")
		return nil
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = os.Environ()
	for key, value := range cmd.Env {
		c.Env = append(c.Env, fmt.Sprintf("%s=%s", key, value))
	}

	tail := newTailBuffer(stderrTailSize)
	c.Stdout = e.stdout
	c.Stderr = io.MultiWriter(e.stderr, tail)

	start := time.Now()
	err := c.Run()
	duration := time.Since(start)

	if err != nil {
		code := ExitCode(err)
		e.logger.Error().
			Err(err).
			Str("command", cmd.Name).
			Strs("args", cmd.Args).
			Int("exitCode", code).
			Dur("duration", duration).
			Msg("Command execution failed")

		return errors.Wrapf(err, errors.ErrCommandExecute, "command failed: %s", cmd.Name).
			WithDetail("command", cmd.Name).
			WithDetail("args", cmd.Args).
			WithDetail("exitCode", code).
			WithDetail("stderr", tail.String())
	}

	e.logger.Info().
		Str("command", cmd.Name).
		Dur("duration", duration).
		Msg("Command executed successfully")

	return nil
}

// ExitCode extracts a process exit code from an exec error: the real code
// for processes that ran, 124 for deadline kills, 127 when the binary is
// missing, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return 124
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return 127
	}
	return 1
}

// tailBuffer keeps the last n bytes written to it
type tailBuffer struct {
	buf []byte
	max int
}

func newTailBuffer(max int) *tailBuffer {
	return &tailBuffer{max: max}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = t.buf[over:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}
