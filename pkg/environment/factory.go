package environment

import (
	"github.com/arthur-debert/envboot/pkg/config"
	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/executor"
	"github.com/spf13/afero"
)

// New selects the backend named by cfg.Backend
func New(cfg config.Environment, fs afero.Fs, runner executor.Runner) (Backend, error) {
	switch cfg.Backend {
	case config.BackendVenv, "":
		return NewVenv(fs, runner, cfg.Python), nil
	case config.BackendCommand:
		return NewCommand(fs, runner, cfg), nil
	default:
		return nil, errors.Newf(errors.ErrConfigValid, "unknown environment backend %q", cfg.Backend).
			WithDetail("backend", cfg.Backend)
	}
}
