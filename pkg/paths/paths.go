package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/envboot/pkg/errors"
)

// Environment variable names
const (
	// EnvRoot overrides the project root
	EnvRoot = "ENVBOOT_ROOT"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

const (
	// AppDirName is the directory name for envboot-specific files under XDG dirs
	AppDirName = "envboot"

	// LogFileName is the name of the log file
	LogFileName = "envboot.log"
)

// RootSource tells where the project root came from.
type RootSource string

const (
	RootFromFlag       RootSource = "flag"
	RootFromEnv        RootSource = "env"
	RootFromExecutable RootSource = "executable"
)

// Paths provides path resolution anchored at the project root
type Paths struct {
	root   string
	source RootSource
	state  string
}

// executable is swapped in tests
var executable = os.Executable

// New creates a Paths instance. An empty root falls back to ENVBOOT_ROOT and
// then to the executable's directory.
func New(root string) (*Paths, error) {
	p := &Paths{}

	switch {
	case root != "":
		p.root, p.source = expandHome(root), RootFromFlag
	case os.Getenv(EnvRoot) != "":
		p.root, p.source = expandHome(os.Getenv(EnvRoot)), RootFromEnv
	default:
		dir, err := executableDir()
		if err != nil {
			return nil, err
		}
		p.root, p.source = dir, RootFromExecutable
	}

	if !filepath.IsAbs(p.root) {
		// a relative --root or ENVBOOT_ROOT is the one place the working
		// directory leaks in; pin it once here
		abs, err := filepath.Abs(p.root)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for root %s", p.root)
		}
		p.root = abs
	}
	p.root = filepath.Clean(p.root)

	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		p.state = filepath.Join(stateHome, AppDirName)
	} else {
		p.state = filepath.Join(xdg.StateHome, AppDirName)
	}

	return p, nil
}

func executableDir() (string, error) {
	exe, err := executable()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrNotFound, "failed to locate envboot executable")
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// Root returns the project root
func (p *Paths) Root() string {
	return p.root
}

// Source reports how the root was determined
func (p *Paths) Source() RootSource {
	return p.source
}

// Resolve anchors a configured path at the project root. Absolute paths and
// ~ paths are returned cleaned but otherwise untouched.
func (p *Paths) Resolve(path string) string {
	if path == "" {
		return p.root
	}
	path = expandHome(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(p.root, path)
}

// LogFilePath returns the path of the log file
func (p *Paths) LogFilePath() string {
	return filepath.Join(p.state, LogFileName)
}

func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~something (not the user's home)
	return path
}
