package environment

import (
	"context"
	"path/filepath"
	"runtime"

	"github.com/arthur-debert/envboot/pkg/config"
	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/executor"
	"github.com/arthur-debert/envboot/pkg/logging"
	"github.com/arthur-debert/envboot/pkg/manifest"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// venvMarker is written by "python -m venv" into every environment root
const venvMarker = "pyvenv.cfg"

// Venv provisions Python virtual environments
type Venv struct {
	logger zerolog.Logger
	fs     afero.Fs
	runner executor.Runner
	env    ProcessEnv
	python string
	goos   string
}

// NewVenv creates a venv backend that bootstraps with the given interpreter
func NewVenv(fs afero.Fs, runner executor.Runner, python string) *Venv {
	return &Venv{
		logger: logging.GetLogger("environment.venv"),
		fs:     fs,
		runner: runner,
		env:    OSEnv{},
		python: python,
		goos:   runtime.GOOS,
	}
}

// WithEnv replaces the process environment activation writes to
func (v *Venv) WithEnv(env ProcessEnv) *Venv {
	v.env = env
	return v
}

func (v *Venv) Name() string { return config.BackendVenv }

func (v *Venv) Marker(root string) string {
	return filepath.Join(root, venvMarker)
}

func (v *Venv) Exists(root string) (bool, error) {
	return afero.Exists(v.fs, v.Marker(root))
}

// Create runs "<python> -m venv <root>"
func (v *Venv) Create(ctx context.Context, root string) error {
	return v.runner.Execute(ctx, executor.Command{
		Name:        v.python,
		Args:        []string{"-m", "venv", root},
		Description: "create virtual environment",
	})
}

// BinDir is where the environment keeps its executables
func (v *Venv) BinDir(root string) string {
	if v.goos == "windows" {
		return filepath.Join(root, "Scripts")
	}
	return filepath.Join(root, "bin")
}

// Interpreter is the environment's own python
func (v *Venv) Interpreter(root string) string {
	if v.goos == "windows" {
		return filepath.Join(v.BinDir(root), "python.exe")
	}
	return filepath.Join(v.BinDir(root), "python")
}

// Activate does what the venv activate script does, for this process
func (v *Venv) Activate(root string) error {
	bin := v.BinDir(root)
	if ok, err := afero.DirExists(v.fs, bin); err != nil || !ok {
		return errors.Newf(errors.ErrEnvironmentActivate, "environment has no %s directory", filepath.Base(bin)).
			WithDetail("root", root)
	}

	if err := v.env.Setenv("VIRTUAL_ENV", root); err != nil {
		return err
	}
	if err := prependPath(v.env, bin); err != nil {
		return err
	}
	if err := v.env.Unsetenv("PYTHONHOME"); err != nil {
		return err
	}

	v.logger.Debug().Str("root", root).Str("bin", bin).Msg("Virtual environment activated")
	return nil
}

// Install runs pip from inside the environment. Requirements files are
// handed to pip as-is so their options and includes keep pip's semantics.
func (v *Venv) Install(ctx context.Context, root string, m *manifest.Manifest) error {
	args := []string{"-m", "pip", "install"}
	switch {
	case m.Native:
		args = append(args, "-r", m.ResolvedPath)
	case len(m.Requirements) == 0:
		v.logger.Info().Str("manifest", m.Name).Msg("Manifest lists no packages, skipping")
		return nil
	default:
		args = append(args, m.Requirements...)
	}

	return v.runner.Execute(ctx, executor.Command{
		Name:        v.Interpreter(root),
		Args:        args,
		Description: "install " + m.Identity(),
	})
}
