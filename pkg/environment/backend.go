package environment

import (
	"context"
	"os"
	"strings"

	"github.com/arthur-debert/envboot/pkg/manifest"
)

// Backend is an isolation mechanism
type Backend interface {
	// Name is the configured backend name
	Name() string
	// Marker is the path whose existence means the environment is provisioned
	Marker(root string) string
	Exists(root string) (bool, error)
	Create(ctx context.Context, root string) error
	Activate(root string) error
	Install(ctx context.Context, root string, m *manifest.Manifest) error
}

// ProcessEnv is the process environment activation writes to
type ProcessEnv interface {
	Getenv(key string) string
	Setenv(key, value string) error
	Unsetenv(key string) error
}

// OSEnv is the real process environment
type OSEnv struct{}

func (OSEnv) Getenv(key string) string       { return os.Getenv(key) }
func (OSEnv) Setenv(key, value string) error { return os.Setenv(key, value) }
func (OSEnv) Unsetenv(key string) error      { return os.Unsetenv(key) }

// prependPath puts dir at the front of PATH, dropping any later duplicate
func prependPath(env ProcessEnv, dir string) error {
	entries := []string{dir}
	for _, entry := range strings.Split(env.Getenv("PATH"), string(os.PathListSeparator)) {
		if entry == "" || entry == dir {
			continue
		}
		entries = append(entries, entry)
	}
	return env.Setenv("PATH", strings.Join(entries, string(os.PathListSeparator)))
}
