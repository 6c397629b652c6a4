package environment

import (
	"bytes"
	"context"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/arthur-debert/envboot/pkg/config"
	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/executor"
	"github.com/arthur-debert/envboot/pkg/logging"
	"github.com/arthur-debert/envboot/pkg/manifest"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// requirementsArg expands into one argument per requirement
const requirementsArg = "{{.Requirements}}"

// TemplateData is what command templates can reference
type TemplateData struct {
	Root         string
	Manifest     string
	Name         string
	Requirements []string
}

var templateFuncs = template.FuncMap{
	"join": strings.Join,
}

// Command provisions environments with configured commands. Each entry of
// create and install is a template rendered against TemplateData.
type Command struct {
	logger  zerolog.Logger
	fs      afero.Fs
	runner  executor.Runner
	env     ProcessEnv
	marker  string
	binDir  string
	create  []string
	install []string
	vars    map[string]string
}

// NewCommand creates a command backend from configuration
func NewCommand(fs afero.Fs, runner executor.Runner, cfg config.Environment) *Command {
	return &Command{
		logger:  logging.GetLogger("environment.command"),
		fs:      fs,
		runner:  runner,
		env:     OSEnv{},
		marker:  cfg.Marker,
		binDir:  cfg.BinDir,
		create:  cfg.Create,
		install: cfg.Install,
		vars:    cfg.Vars,
	}
}

// WithEnv replaces the process environment activation writes to
func (c *Command) WithEnv(env ProcessEnv) *Command {
	c.env = env
	return c
}

func (c *Command) Name() string { return config.BackendCommand }

// Marker is the configured marker relative to root, or root itself
func (c *Command) Marker(root string) string {
	if c.marker == "" {
		return root
	}
	marker, err := render(c.marker, TemplateData{Root: root})
	if err != nil {
		marker = c.marker
	}
	return anchor(root, marker)
}

func (c *Command) Exists(root string) (bool, error) {
	return afero.Exists(c.fs, c.Marker(root))
}

func (c *Command) Create(ctx context.Context, root string) error {
	cmd, err := c.command(c.create, TemplateData{Root: root})
	if err != nil {
		return err
	}
	cmd.Description = "create environment"
	return c.runner.Execute(ctx, cmd)
}

// Activate prepends the bin dir to PATH and exports the configured vars
func (c *Command) Activate(root string) error {
	data := TemplateData{Root: root}

	if c.binDir != "" {
		dir, err := render(c.binDir, data)
		if err != nil {
			return err
		}
		if err := prependPath(c.env, anchor(root, dir)); err != nil {
			return err
		}
	}

	keys := make([]string, 0, len(c.vars))
	for key := range c.vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value, err := render(c.vars[key], data)
		if err != nil {
			return err
		}
		if err := c.env.Setenv(strings.ToUpper(key), value); err != nil {
			return err
		}
	}

	c.logger.Debug().Str("root", root).Int("vars", len(keys)).Msg("Environment activated")
	return nil
}

func (c *Command) Install(ctx context.Context, root string, m *manifest.Manifest) error {
	cmd, err := c.command(c.install, TemplateData{
		Root:         root,
		Manifest:     m.ResolvedPath,
		Name:         m.Name,
		Requirements: m.Requirements,
	})
	if err != nil {
		return err
	}
	cmd.Description = "install " + m.Identity()
	return c.runner.Execute(ctx, cmd)
}

// command renders an argv template list into an executor command
func (c *Command) command(argv []string, data TemplateData) (executor.Command, error) {
	if len(argv) == 0 {
		return executor.Command{}, errors.New(errors.ErrConfigValid, "command backend has no command configured")
	}

	args := make([]string, 0, len(argv))
	for _, arg := range argv {
		if strings.TrimSpace(arg) == requirementsArg {
			args = append(args, data.Requirements...)
			continue
		}
		rendered, err := render(arg, data)
		if err != nil {
			return executor.Command{}, err
		}
		args = append(args, rendered)
	}

	return executor.Command{Name: args[0], Args: args[1:]}, nil
}

func render(text string, data TemplateData) (string, error) {
	tmpl, err := template.New("arg").Funcs(templateFuncs).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrConfigValid, "invalid command template %q", text)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, errors.ErrConfigValid, "failed to render command template %q", text)
	}
	return buf.String(), nil
}

func anchor(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
