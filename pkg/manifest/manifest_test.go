package manifest

import (
	"testing"

	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/internal/hashutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const root = "/srv/project"

func memFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}
	return fs
}

func TestFormatFor(t *testing.T) {
	tests := map[string]Format{
		"requirements.txt":       FormatRequirements,
		"requirements.in":        FormatRequirements,
		"deps":                   FormatRequirements,
		"pyproject.toml":         FormatTOML,
		"deps.YAML":              FormatYAML,
		"deps.yml":               FormatYAML,
		"deps.json":              FormatJSON,
		"deps.jsonc":             FormatJSON,
		"packages.config":        FormatXML,
		"tests/dependencies.xml": FormatXML,
	}
	for name, want := range tests {
		assert.Equal(t, want, FormatFor(name), name)
	}
}

func TestLoadRequirements(t *testing.T) {
	fs := memFS(t, map[string]string{
		root + "/requirements.txt": "# core deps\nDjango==4.2  # web\n\nldap3>=2.9\n--index-url https://pypi.example/simple\n",
	})

	m, err := Load(fs, root, Source{Name: "core", Path: "requirements.txt"})
	require.NoError(t, err)

	assert.Equal(t, root+"/requirements.txt", m.ResolvedPath)
	assert.Equal(t, FormatRequirements, m.Format)
	assert.True(t, m.Native)
	assert.Equal(t, []string{"Django==4.2", "ldap3>=2.9"}, m.Requirements)
	assert.Equal(t, []string{"--index-url https://pypi.example/simple"}, m.Options)
	assert.Equal(t, "core (requirements.txt)", m.Identity())
}

func TestLoadRequirementsIncludes(t *testing.T) {
	fs := memFS(t, map[string]string{
		root + "/tests/requirements.txt": "-r ../requirements.txt\nmock\n--requirement=extra/lint.txt\n",
		root + "/requirements.txt":       "Django==4.2\n",
		root + "/tests/extra/lint.txt":   "flake8 \\\n  >=6\n",
	})

	m, err := Load(fs, root, Source{Name: "test", Path: "tests/requirements.txt"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Django==4.2", "mock", "flake8   >=6"}, m.Requirements)
	assert.Equal(t, hashutil.Checksum(
		[]byte("-r ../requirements.txt\nmock\n--requirement=extra/lint.txt\n"),
		[]byte("Django==4.2\n"),
		[]byte("flake8 \\\n  >=6\n"),
	), m.Checksum, "checksum covers included files")
}

func TestLoadRequirementsConstraints(t *testing.T) {
	files := map[string]string{
		root + "/tests/requirements.txt":    "-c sub/constraints.txt\ndjango\n--constraint=../pins.txt\n",
		root + "/tests/sub/constraints.txt": "django<5\n-c nested.txt\n",
		root + "/tests/sub/nested.txt":      "sqlparse<0.5\n",
		root + "/pins.txt":                  "asgiref==3.7\n",
	}
	fs := memFS(t, files)

	m, err := Load(fs, root, Source{Name: "test", Path: "tests/requirements.txt"})
	require.NoError(t, err)

	assert.Equal(t, []string{"django"}, m.Requirements, "constraint lines are not requirements")
	assert.Equal(t, []string{
		"-c " + root + "/tests/sub/constraints.txt",
		"-c " + root + "/pins.txt",
	}, m.Options)

	require.NoError(t, afero.WriteFile(fs, root+"/tests/sub/nested.txt", []byte("sqlparse<0.6\n"), 0644))
	changed, err := Load(fs, root, Source{Name: "test", Path: "tests/requirements.txt"})
	require.NoError(t, err)
	assert.NotEqual(t, m.Checksum, changed.Checksum, "checksum covers constraint files")
}

func TestLoadRequirementsMissingConstraints(t *testing.T) {
	fs := memFS(t, map[string]string{root + "/a.txt": "-c missing.txt\ndjango\n"})

	_, err := Load(fs, root, Source{Name: "a", Path: "a.txt"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestParse))
}

func TestLoadRequirementsIncludeCycle(t *testing.T) {
	fs := memFS(t, map[string]string{
		root + "/a.txt": "-r b.txt\n",
		root + "/b.txt": "-ra.txt\n",
	})

	_, err := Load(fs, root, Source{Name: "a", Path: "a.txt"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestParse))
	assert.Contains(t, err.Error(), "include cycle")
}

func TestLoadRequirementsMissingInclude(t *testing.T) {
	fs := memFS(t, map[string]string{root + "/a.txt": "-r missing.txt\n"})

	_, err := Load(fs, root, Source{Name: "a", Path: "a.txt"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestParse))
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), root, Source{Name: "test", Path: "tests/requirements.txt"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestNotFound))
	assert.Equal(t, "test", errors.GetErrorDetails(err)["manifest"])
}

func TestLoadAbsolutePath(t *testing.T) {
	fs := memFS(t, map[string]string{"/shared/reqs.txt": "requests\n"})

	m, err := Load(fs, root, Source{Name: "shared", Path: "/shared/reqs.txt"})
	require.NoError(t, err)
	assert.Equal(t, "/shared/reqs.txt", m.ResolvedPath)
}

func TestLoadInline(t *testing.T) {
	m, err := Load(afero.NewMemMapFs(), root, Source{Name: "web", Packages: []string{"django", "whitenoise"}})
	require.NoError(t, err)

	assert.Equal(t, FormatInline, m.Format)
	assert.False(t, m.Native)
	assert.Empty(t, m.ResolvedPath)
	assert.Equal(t, []string{"django", "whitenoise"}, m.Requirements)
	assert.Equal(t, hashutil.Checksum([]byte("django\nwhitenoise")), m.Checksum)
	assert.Equal(t, "web", m.Identity())
}

func TestLoader(t *testing.T) {
	fs := memFS(t, map[string]string{root + "/requirements.txt": "django\n"})

	m, err := NewLoader(fs, root).Load(Source{Name: "core", Path: "requirements.txt"})
	require.NoError(t, err)
	assert.Equal(t, []string{"django"}, m.Requirements)
}
