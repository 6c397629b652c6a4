package manifest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/envboot/pkg/errors"
	"github.com/arthur-debert/envboot/pkg/internal/hashutil"
	"github.com/arthur-debert/envboot/pkg/logging"
	"github.com/spf13/afero"
)

// Format identifies how a manifest file is encoded
type Format string

const (
	FormatRequirements Format = "requirements"
	FormatTOML         Format = "toml"
	FormatYAML         Format = "yaml"
	FormatJSON         Format = "json"
	FormatXML          Format = "xml"
	FormatInline       Format = "inline"
)

// Source is a manifest as declared in configuration
type Source struct {
	Name     string
	Path     string
	Packages []string
}

// Manifest is a loaded, ordered set of requirements
type Manifest struct {
	Source

	// ResolvedPath is Path anchored at the project root; empty for inline sets
	ResolvedPath string
	Format       Format
	// Requirements are package specs in installer syntax ("django==4.2")
	Requirements []string
	// Options are installer option lines kept verbatim ("--index-url ...")
	Options []string
	// Native means the installer can read ResolvedPath directly
	Native   bool
	Checksum string
}

// Identity names the manifest in logs and errors: its name plus path if any
func (s Source) Identity() string {
	if s.Path == "" {
		return s.Name
	}
	return s.Name + " (" + s.Path + ")"
}

// FormatFor detects the manifest format from a file name
func FormatFor(path string) Format {
	base := strings.ToLower(filepath.Base(path))
	switch ext := filepath.Ext(base); ext {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	case ".json", ".jsonc":
		return FormatJSON
	case ".xml", ".config":
		return FormatXML
	default:
		return FormatRequirements
	}
}

// Load reads a manifest. Relative paths are resolved against root.
func Load(fs afero.Fs, root string, src Source) (*Manifest, error) {
	logger := logging.GetLogger("manifest")

	m := &Manifest{Source: src}

	if src.Path == "" {
		m.Format = FormatInline
		m.Requirements = append([]string(nil), src.Packages...)
		m.Checksum = hashutil.Checksum([]byte(strings.Join(src.Packages, "\n")))
		return m, nil
	}

	m.ResolvedPath = src.Path
	if !filepath.IsAbs(m.ResolvedPath) {
		m.ResolvedPath = filepath.Join(root, src.Path)
	}
	m.Format = FormatFor(m.ResolvedPath)

	data, err := afero.ReadFile(fs, m.ResolvedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrManifestNotFound, "manifest %q not found at %s", src.Name, m.ResolvedPath).
				WithDetail("manifest", src.Name).
				WithDetail("path", m.ResolvedPath)
		}
		return nil, errors.Wrapf(err, errors.ErrManifestParse, "failed to read manifest %q", src.Name).
			WithDetail("manifest", src.Name)
	}

	switch m.Format {
	case FormatRequirements:
		err = m.parseRequirements(fs, data)
	case FormatTOML:
		m.Requirements, err = parseTOML(data)
	case FormatYAML:
		m.Requirements, err = parseYAML(data)
	case FormatJSON:
		m.Requirements, err = parseJSON(data)
	case FormatXML:
		m.Requirements, err = parseXML(data)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestParse, "failed to parse %s manifest %q", m.Format, src.Name).
			WithDetail("manifest", src.Name).
			WithDetail("path", m.ResolvedPath)
	}

	if m.Checksum == "" {
		m.Checksum = hashutil.Checksum(data)
	}

	logger.Debug().
		Str("manifest", src.Name).
		Str("path", m.ResolvedPath).
		Str("format", string(m.Format)).
		Int("requirements", len(m.Requirements)).
		Msg("Manifest loaded")

	return m, nil
}

// Loader loads manifests from one project root
type Loader struct {
	fs   afero.Fs
	root string
}

// NewLoader creates a Loader resolving paths against root
func NewLoader(fs afero.Fs, root string) *Loader {
	return &Loader{fs: fs, root: root}
}

func (l *Loader) Load(src Source) (*Manifest, error) {
	return Load(l.fs, l.root, src)
}
