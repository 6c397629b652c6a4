package bootstrap

import (
	"context"
	"strings"

	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/logging"
	"github.com/arthur-debert/envboot/pkg/manifest"
	"github.com/arthur-debert/envboot/pkg/runner"
	"github.com/rs/zerolog"
)

// Config is everything one bootstrap run needs
type Config struct {
	// EnvironmentRoot is the absolute environment location
	EnvironmentRoot string
	// Manifests are installed in this order
	Manifests []manifest.Source
	Runner    runner.Spec
	// Force reinstalls every manifest into an existing environment
	Force bool
	// DryRun stops before the runner is invoked
	DryRun bool
}

// Options holds the optional collaborators
type Options struct {
	Store    Store
	Observer Observer
}

// Bootstrapper runs the ensure-environment-then-run procedure
type Bootstrapper struct {
	logger   zerolog.Logger
	cfg      Config
	backend  Backend
	loader   Loader
	invoker  Invoker
	store    Store
	observer Observer
}

// New creates a Bootstrapper
func New(cfg Config, backend Backend, loader Loader, invoker Invoker, opts Options) *Bootstrapper {
	observer := opts.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	return &Bootstrapper{
		logger:   logging.GetLogger("bootstrap"),
		cfg:      cfg,
		backend:  backend,
		loader:   loader,
		invoker:  invoker,
		store:    opts.Store,
		observer: observer,
	}
}

// Run ensures the environment, then invokes the runner with the configured
// args followed by args. On success the runner's exit code is returned
// unchanged. On failure the code is the setup failure's exit code and the
// runner was not invoked.
func (b *Bootstrapper) Run(ctx context.Context, args []string) (int, error) {
	done := logging.LogOperationStart(b.logger, "bootstrap")
	defer done()

	wasCreated, err := b.EnsureCreated(ctx)
	if err != nil {
		return errors.ExitCode(err), err
	}

	if err := b.EnsureActivated(ctx, wasCreated); err != nil {
		return errors.ExitCode(err), err
	}

	if b.cfg.DryRun {
		b.logger.Info().
			Strs("argv", b.cfg.Runner.Argv(args)).
			Msg("Dry run - runner would be invoked")
		return errors.ExitOK, nil
	}

	event := Event{Step: StepInvoke, Subject: strings.Join(b.cfg.Runner.Argv(args), " ")}
	b.observer.StepStarted(event)
	code, err := b.invoker.Invoke(ctx, b.cfg.Runner, args)
	if err != nil && !errors.IsErrorCode(err, errors.ErrRunnerInvoke) {
		err = errors.RunnerInvocation(err, b.cfg.Runner.Command)
	}
	b.observer.StepFinished(event, err)
	if err != nil {
		return errors.ExitCode(err), err
	}

	b.logger.Info().Int("exitCode", code).Msg("Runner exited")
	return code, nil
}

// EnsureCreated creates, activates and populates the environment when its
// marker is absent. It reports whether it did so; a true result means the
// environment is already active.
func (b *Bootstrapper) EnsureCreated(ctx context.Context) (bool, error) {
	root := b.cfg.EnvironmentRoot

	var exists bool
	err := b.step(StepProbe, root, func() error {
		ok, err := b.backend.Exists(root)
		if err != nil {
			return errors.Wrapf(err, errors.ErrEnvironmentProbe, "failed to check environment at %s", root).
				WithDetail("root", root)
		}
		exists = ok
		return nil
	})
	if err != nil {
		return false, err
	}
	if exists {
		b.logger.Debug().Str("root", root).Msg("Environment exists")
		return false, nil
	}

	b.logger.Info().Str("root", root).Msg("Environment not found, creating")

	if err := b.step(StepCreate, root, func() error {
		if err := b.backend.Create(ctx, root); err != nil {
			return errors.EnvironmentCreation(err, root)
		}
		return nil
	}); err != nil {
		return false, err
	}

	if err := b.activate(); err != nil {
		return true, err
	}

	return true, b.installAll(ctx)
}

// EnsureActivated activates the environment unless alreadyActive. With
// Force, an environment that was not just created has every manifest
// reinstalled after activation.
func (b *Bootstrapper) EnsureActivated(ctx context.Context, alreadyActive bool) error {
	if alreadyActive {
		return nil
	}
	if err := b.activate(); err != nil {
		return err
	}
	if b.cfg.Force {
		b.logger.Info().Int("manifests", len(b.cfg.Manifests)).Msg("Force reinstalling manifests")
		return b.installAll(ctx)
	}
	return nil
}

func (b *Bootstrapper) activate() error {
	root := b.cfg.EnvironmentRoot
	return b.step(StepActivate, root, func() error {
		if err := b.backend.Activate(root); err != nil {
			return errors.Wrapf(err, errors.ErrEnvironmentActivate, "failed to activate environment at %s", root).
				WithDetail("root", root)
		}
		return nil
	})
}

// installAll installs manifests in order and stops at the first failure.
// Each manifest is loaded right before it is installed.
func (b *Bootstrapper) installAll(ctx context.Context) error {
	root := b.cfg.EnvironmentRoot
	installed := make([]*manifest.Manifest, 0, len(b.cfg.Manifests))

	for _, src := range b.cfg.Manifests {
		name := src.Identity()
		err := b.step(StepInstall, name, func() error {
			m, err := b.loader.Load(src)
			if err != nil {
				return errors.DependencyInstall(err, name)
			}
			if err := b.backend.Install(ctx, root, m); err != nil {
				return errors.DependencyInstall(err, name)
			}
			installed = append(installed, m)
			return nil
		})
		if err != nil {
			return err
		}
	}

	if b.store != nil {
		if err := b.store.RecordProvisioning(ctx, installed); err != nil {
			b.logger.Warn().Err(err).Msg("Failed to record provisioning stamp")
		}
	}
	return nil
}

// step runs fn between observer notifications
func (b *Bootstrapper) step(step Step, subject string, fn func() error) error {
	event := Event{Step: step, Subject: subject}
	b.observer.StepStarted(event)
	err := fn()
	b.observer.StepFinished(event, err)
	if err != nil {
		b.logger.Error().Err(err).Str("step", string(step)).Str("subject", subject).Msg("Bootstrap step failed")
	}
	return err
}
