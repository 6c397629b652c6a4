package manifest

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/envboot/pkg/internal/hashutil"
	"github.com/spf13/afero"
)

// includeKind tells a -r include from a -c constraints file
type includeKind int

const (
	includeRequirements includeKind = iota
	includeConstraints
)

var includeFlags = []struct {
	flag string
	kind includeKind
}{
	{"--requirement", includeRequirements},
	{"-r", includeRequirements},
	{"--constraint", includeConstraints},
	{"-c", includeConstraints},
}

// parseRequirements reads pip requirements syntax, following -r and -c
// includes relative to the including file. Constraint files only feed the
// checksum; their lines are not requirements.
func (m *Manifest) parseRequirements(fs afero.Fs, data []byte) error {
	p := &requirementsParser{
		fs:   fs,
		seen: map[string]bool{filepath.Clean(m.ResolvedPath): true},
	}
	if err := p.parse(m.ResolvedPath, data, false); err != nil {
		return err
	}

	m.Requirements = p.requirements
	m.Options = p.options
	m.Native = true
	m.Checksum = hashutil.Checksum(p.contents...)
	return nil
}

type requirementsParser struct {
	fs           afero.Fs
	seen         map[string]bool
	requirements []string
	options      []string
	contents     [][]byte
}

func (p *requirementsParser) parse(path string, data []byte, constraintsOnly bool) error {
	p.contents = append(p.contents, data)

	for _, line := range logicalLines(data) {
		if include, kind, ok := includeTarget(line); ok {
			target := resolveInclude(path, include)
			constraints := constraintsOnly || kind == includeConstraints
			if kind == includeConstraints && !constraintsOnly {
				// absolute, the option no longer has its including file
				p.options = append(p.options, "-c "+target)
			}
			if err := p.include(path, target, constraints); err != nil {
				return err
			}
			continue
		}
		if constraintsOnly {
			continue
		}
		if strings.HasPrefix(line, "-") {
			p.options = append(p.options, line)
			continue
		}
		p.requirements = append(p.requirements, line)
	}
	return nil
}

func (p *requirementsParser) include(from, target string, constraints bool) error {
	if p.seen[target] {
		return fmt.Errorf("include cycle at %s (from %s)", target, from)
	}
	p.seen[target] = true

	data, err := afero.ReadFile(p.fs, target)
	if err != nil {
		return fmt.Errorf("included file %s: %w", target, err)
	}
	return p.parse(target, data, constraints)
}

func resolveInclude(from, target string) string {
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(from), target)
	}
	return filepath.Clean(target)
}

// logicalLines joins backslash continuations and drops comments and blanks
func logicalLines(data []byte) []string {
	var (
		lines   []string
		pending strings.Builder
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		raw := scanner.Text()
		if strings.HasSuffix(raw, `\`) {
			pending.WriteString(strings.TrimSuffix(raw, `\`))
			continue
		}
		pending.WriteString(raw)
		line := stripComment(pending.String())
		pending.Reset()

		if line != "" {
			lines = append(lines, line)
		}
	}
	if pending.Len() > 0 {
		if line := stripComment(pending.String()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// stripComment removes a # comment that starts a line or follows whitespace
func stripComment(line string) string {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "#") {
		return ""
	}
	for i := 1; i < len(trimmed); i++ {
		if trimmed[i] == '#' && (trimmed[i-1] == ' ' || trimmed[i-1] == '\t') {
			return strings.TrimSpace(trimmed[:i])
		}
	}
	return trimmed
}

// includeTarget recognizes -r FILE, -rFILE, --requirement FILE,
// --requirement=FILE and the same forms of -c and --constraint
func includeTarget(line string) (string, includeKind, bool) {
	for _, f := range includeFlags {
		if !strings.HasPrefix(line, f.flag) {
			continue
		}
		rest := line[len(f.flag):]
		long := strings.HasPrefix(f.flag, "--")
		switch {
		case rest == "":
			return "", f.kind, false
		case rest[0] == '=' && long:
			return strings.TrimSpace(rest[1:]), f.kind, true
		case rest[0] == ' ' || rest[0] == '\t':
			return strings.TrimSpace(rest), f.kind, true
		case !long:
			return strings.TrimSpace(rest), f.kind, true
		}
	}
	return "", includeRequirements, false
}
