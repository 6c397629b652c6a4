package config

import (
	"github.com/arthur-debert/envboot/pkg/errors"
)

// Backend names
const (
	BackendVenv    = "venv"
	BackendCommand = "command"
)

// Config is the complete envboot configuration
type Config struct {
	Environment Environment `koanf:"environment"`
	Manifests   []Manifest  `koanf:"manifests"`
	Runner      Runner      `koanf:"runner"`
	Logging     Logging     `koanf:"logging"`

	// SourceFile is the project config file that was loaded, if any
	SourceFile string `koanf:"-"`
}

// Environment describes the isolated environment and how to provision it
type Environment struct {
	Root    string            `koanf:"root"`
	Backend string            `koanf:"backend"`
	Python  string            `koanf:"python"`
	Marker  string            `koanf:"marker"`
	BinDir  string            `koanf:"bin_dir"`
	Create  []string          `koanf:"create"`
	Install []string          `koanf:"install"`
	Vars    map[string]string `koanf:"vars"`
}

// Manifest is one named dependency set. Exactly one of Path or Packages is set.
type Manifest struct {
	Name     string   `koanf:"name"`
	Path     string   `koanf:"path"`
	Packages []string `koanf:"packages"`
}

// Runner is the external test entry point
type Runner struct {
	Command string            `koanf:"command"`
	Args    []string          `koanf:"args"`
	Env     map[string]string `koanf:"env"`
	Dir     string            `koanf:"dir"`
}

// Logging holds logging settings
type Logging struct {
	File bool `koanf:"file"`
}

// Validate checks the configuration for structural problems
func (c *Config) Validate() error {
	if c.Environment.Root == "" {
		return errors.New(errors.ErrConfigValid, "environment.root is required")
	}

	switch c.Environment.Backend {
	case BackendVenv:
		if c.Environment.Python == "" {
			return errors.New(errors.ErrConfigValid, "environment.python is required for the venv backend")
		}
	case BackendCommand:
		if len(c.Environment.Create) == 0 {
			return errors.New(errors.ErrConfigValid, "environment.create is required for the command backend")
		}
		if len(c.Manifests) > 0 && len(c.Environment.Install) == 0 {
			return errors.New(errors.ErrConfigValid, "environment.install is required for the command backend")
		}
	default:
		return errors.Newf(errors.ErrConfigValid, "unknown environment.backend %q", c.Environment.Backend).
			WithDetail("backend", c.Environment.Backend)
	}

	seen := make(map[string]bool, len(c.Manifests))
	for i, m := range c.Manifests {
		if m.Name == "" {
			return errors.Newf(errors.ErrConfigValid, "manifests[%d] has no name", i)
		}
		if seen[m.Name] {
			return errors.Newf(errors.ErrConfigValid, "duplicate manifest name %q", m.Name).
				WithDetail("manifest", m.Name)
		}
		seen[m.Name] = true

		hasPath, hasPackages := m.Path != "", len(m.Packages) > 0
		if hasPath == hasPackages {
			return errors.Newf(errors.ErrConfigValid, "manifest %q needs exactly one of path or packages", m.Name).
				WithDetail("manifest", m.Name)
		}
	}

	if c.Runner.Command == "" {
		return errors.New(errors.ErrConfigValid, "runner.command is required")
	}

	return nil
}
