package cli

import (
	"io"

	"github.com/arthur-debert/envboot/pkg/bootstrap"
	"github.com/arthur-debert/envboot/pkg/config"
	"github.com/arthur-debert/envboot/pkg/environment"
	"github.com/arthur-debert/envboot/pkg/executor"
	"github.com/arthur-debert/envboot/pkg/logging"
	"github.com/arthur-debert/envboot/pkg/manifest"
	"github.com/arthur-debert/envboot/pkg/paths"
	"github.com/arthur-debert/envboot/pkg/runner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// globals are the persistent flags
type globals struct {
	verbosity  int
	dryRun     bool
	force      bool
	root       string
	configFile string
}

// project is the loaded configuration of one project root
type project struct {
	paths *paths.Paths
	cfg   *config.Config
	fs    afero.Fs
}

// loadProject resolves the root and loads its configuration. Console logs
// keep going to console when file logging is switched on.
func (g *globals) loadProject(console io.Writer) (*project, error) {
	p, err := paths.New(g.root)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(config.LoadOptions{Root: p.Root(), File: g.configFile})
	if err != nil {
		return nil, err
	}

	if cfg.Logging.File {
		logging.SetupLogger(logging.Options{
			Verbosity: g.verbosity,
			LogFile:   p.LogFilePath(),
			Console:   console,
		})
		log.Debug().Str("path", p.LogFilePath()).Msg("Logging to file")
	}

	return &project{paths: p, cfg: cfg, fs: afero.NewOsFs()}, nil
}

// envRoot is the absolute environment location
func (pr *project) envRoot() string {
	return pr.paths.Resolve(pr.cfg.Environment.Root)
}

func (pr *project) sources() []manifest.Source {
	sources := make([]manifest.Source, 0, len(pr.cfg.Manifests))
	for _, m := range pr.cfg.Manifests {
		sources = append(sources, manifest.Source{Name: m.Name, Path: m.Path, Packages: m.Packages})
	}
	return sources
}

func (pr *project) runnerSpec() runner.Spec {
	return runner.Spec{
		Command: pr.cfg.Runner.Command,
		Args:    pr.cfg.Runner.Args,
		Env:     pr.cfg.Runner.Env,
		Dir:     pr.cfg.Runner.Dir,
	}
}

// backend builds the configured backend. Setup command output goes to w so
// the runner keeps stdout to itself.
func (pr *project) backend(g *globals, w io.Writer) (environment.Backend, error) {
	ex := executor.New(executor.Options{DryRun: g.dryRun, Stdout: w, Stderr: w})
	b, err := environment.New(pr.cfg.Environment, pr.fs, ex)
	if err != nil {
		return nil, err
	}
	if g.dryRun {
		return environment.WithDryRun(b), nil
	}
	return b, nil
}

func (pr *project) bootstrapConfig(g *globals) bootstrap.Config {
	return bootstrap.Config{
		EnvironmentRoot: pr.envRoot(),
		Manifests:       pr.sources(),
		Runner:          pr.runnerSpec(),
		Force:           g.force,
		DryRun:          g.dryRun,
	}
}
