package manifest

import (
	"testing"

	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStructured(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
		want    []string
	}{
		{
			name:    "toml packages",
			path:    "deps.toml",
			content: "packages = [\"django==4.2\", \"ldap3\"]\n",
			want:    []string{"django==4.2", "ldap3"},
		},
		{
			name: "pyproject with test extra",
			path: "pyproject.toml",
			content: `[project]
name = "ldap-sync"
dependencies = ["django>=4.2", "ldap3"]

[project.optional-dependencies]
test = ["mock"]
docs = ["sphinx"]
`,
			want: []string{"django>=4.2", "ldap3", "mock"},
		},
		{
			name:    "yaml list",
			path:    "deps.yaml",
			content: "- django==4.2\n- ldap3\n",
			want:    []string{"django==4.2", "ldap3"},
		},
		{
			name:    "yaml packages with objects",
			path:    "deps.yml",
			content: "packages:\n  - name: django\n    version: \"4.2\"\n  - name: ldap3\n  - name: mock\n    version: \">=5\"\n",
			want:    []string{"django==4.2", "ldap3", "mock>=5"},
		},
		{
			name: "json with comments",
			path: "deps.jsonc",
			content: `{
  // runtime
  "packages": [
    "django==4.2",
    {"name": "ldap3", "version": "2.9"},
  ],
}`,
			want: []string{"django==4.2", "ldap3==2.9"},
		},
		{
			name:    "yaml unquoted versions keep their text",
			path:    "deps.yaml",
			content: "packages:\n  - name: django\n    version: 4.10\n  - name: six\n    version: 1.0\n",
			want:    []string{"django==4.10", "six==1.0"},
		},
		{
			name:    "yaml anchors",
			path:    "deps.yaml",
			content: "base: &base\n  name: ldap3\n  version: \"2.9\"\npackages:\n  - *base\n",
			want:    []string{"ldap3==2.9"},
		},
		{
			name:    "json numeric version keeps its text",
			path:    "deps.json",
			content: `[{"name": "django", "version": 4.10}, {"name": "six", "version": 1.0}]`,
			want:    []string{"django==4.10", "six==1.0"},
		},
		{
			name:    "json list",
			path:    "deps.json",
			content: `["pytest"]`,
			want:    []string{"pytest"},
		},
		{
			name: "nuget xml",
			path: "packages.config",
			content: `<?xml version="1.0" encoding="utf-8"?>
<packages>
  <package id="django" version="4.2" />
  <package id="ldap3" />
  <package name="mock" version="~=5.0" />
</packages>`,
			want: []string{"django==4.2", "ldap3", "mock~=5.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := memFS(t, map[string]string{root + "/" + tt.path: tt.content})

			m, err := Load(fs, root, Source{Name: "deps", Path: tt.path})
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Requirements)
			assert.False(t, m.Native)
			assert.NotEmpty(t, m.Checksum)
		})
	}
}

func TestLoadStructuredErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
	}{
		{"toml syntax", "deps.toml", "packages = [\n"},
		{"toml empty", "deps.toml", "[tool.other]\nx = 1\n"},
		{"yaml scalar", "deps.yaml", "django\n"},
		{"yaml missing packages", "deps.yaml", "deps:\n  - django\n"},
		{"yaml unnamed object", "deps.yaml", "- version: 1\n"},
		{"json syntax", "deps.json", "[\"django\""},
		{"json number item", "deps.json", "[1]"},
		{"json boolean version", "deps.json", `[{"name": "django", "version": true}]`},
		{"yaml mapping version", "deps.yaml", "- name: django\n  version:\n    min: 4\n"},
		{"yaml empty document", "deps.yaml", ""},
		{"xml wrong root", "deps.xml", "<deps><package id=\"x\"/></deps>"},
		{"xml no id", "deps.xml", "<packages><package version=\"1\"/></packages>"},
		{"xml syntax", "deps.xml", "<packages><package id=\"x\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := memFS(t, map[string]string{root + "/" + tt.path: tt.content})

			_, err := Load(fs, root, Source{Name: "deps", Path: tt.path})
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrManifestParse), "got %v", err)
		})
	}
}

func TestLoadStructuredEmptyLists(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
	}{
		{"toml packages", "deps.toml", "packages = []\n"},
		{"pyproject dependencies", "pyproject.toml", "[project]\nname = \"x\"\ndependencies = []\n"},
		{"yaml packages", "deps.yaml", "packages: []\n"},
		{"yaml list", "deps.yaml", "[]\n"},
		{"json packages", "deps.json", `{"packages": []}`},
		{"json list", "deps.json", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := memFS(t, map[string]string{root + "/" + tt.path: tt.content})

			m, err := Load(fs, root, Source{Name: "deps", Path: tt.path})
			require.NoError(t, err)
			assert.Empty(t, m.Requirements)
		})
	}
}

func TestPin(t *testing.T) {
	assert.Equal(t, "django", pin("django", ""))
	assert.Equal(t, "django==4.2", pin("django", "4.2"))
	assert.Equal(t, "django>=4.2", pin("django", ">=4.2"))
	assert.Equal(t, "django!=4.1", pin("django", " !=4.1 "))
}
