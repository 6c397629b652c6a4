package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubExecutable(t *testing.T, path string) {
	t.Helper()
	orig := executable
	executable = func() (string, error) { return path, nil }
	t.Cleanup(func() { executable = orig })
}

func TestNewRootPrecedence(t *testing.T) {
	flagRoot := t.TempDir()
	envRoot := t.TempDir()
	exeDir := t.TempDir()
	stubExecutable(t, filepath.Join(exeDir, "envboot"))

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(EnvRoot, envRoot)
		p, err := New(flagRoot)
		require.NoError(t, err)
		assert.Equal(t, flagRoot, p.Root())
		assert.Equal(t, RootFromFlag, p.Source())
	})

	t.Run("env next", func(t *testing.T) {
		t.Setenv(EnvRoot, envRoot)
		p, err := New("")
		require.NoError(t, err)
		assert.Equal(t, envRoot, p.Root())
		assert.Equal(t, RootFromEnv, p.Source())
	})

	t.Run("executable directory last", func(t *testing.T) {
		t.Setenv(EnvRoot, "")
		p, err := New("")
		require.NoError(t, err)
		// exe itself does not exist, so EvalSymlinks on it fails and the
		// directory is used as given
		assert.Equal(t, exeDir, p.Root())
		assert.Equal(t, RootFromExecutable, p.Source())
	})
}

func TestExecutableSymlinkResolved(t *testing.T) {
	realDir := t.TempDir()
	linkDir := t.TempDir()
	realExe := filepath.Join(realDir, "envboot")
	require.NoError(t, os.WriteFile(realExe, []byte("#!/bin/sh\n"), 0755))
	link := filepath.Join(linkDir, "envboot")
	if err := os.Symlink(realExe, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	stubExecutable(t, link)
	t.Setenv(EnvRoot, "")

	p, err := New("")
	require.NoError(t, err)

	wantDir, err := filepath.EvalSymlinks(realDir)
	require.NoError(t, err)
	assert.Equal(t, wantDir, p.Root())
}

func TestResolveIsIndependentOfWorkingDirectory(t *testing.T) {
	root := t.TempDir()
	p, err := New(root)
	require.NoError(t, err)

	first := p.Resolve("tests/requirements.txt")

	other := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(other))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	assert.Equal(t, first, p.Resolve("tests/requirements.txt"))
	assert.Equal(t, filepath.Join(root, "tests", "requirements.txt"), first)
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	p, err := New(root)
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty is root", "", root},
		{"relative", "venv", filepath.Join(root, "venv")},
		{"dot segments cleaned", "./tests/../venv", filepath.Join(root, "venv")},
		{"absolute kept", "/opt/envs/x", filepath.Clean("/opt/envs/x")},
		{"home expanded", "~/envs/x", filepath.Join(home, "envs", "x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Resolve(tt.in))
		})
	}
}

func TestLogFilePath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/custom/state")
	p, err := New(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/custom/state", "envboot", "envboot.log"), p.LogFilePath())
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, expandHome("~"))
	assert.Equal(t, filepath.Join(home, "x"), expandHome("~/x"))
	assert.Equal(t, "~other/x", expandHome("~other/x"))
	assert.Equal(t, "/abs", expandHome("/abs"))
}
