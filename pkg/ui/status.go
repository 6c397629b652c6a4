package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
)

// StatusReport is what envboot status shows
type StatusReport struct {
	ProjectRoot string            `json:"projectRoot"`
	RootSource  string            `json:"rootSource"`
	ConfigFile  string            `json:"configFile,omitempty"`
	Environment EnvironmentStatus `json:"environment"`
	Manifests   []ManifestStatus  `json:"manifests"`
	Runner      []string          `json:"runner"`
}

// EnvironmentStatus describes the environment root
type EnvironmentStatus struct {
	Root          string     `json:"root"`
	Backend       string     `json:"backend"`
	Marker        string     `json:"marker"`
	Exists        bool       `json:"exists"`
	ProvisionedAt *time.Time `json:"provisionedAt,omitempty"`
}

// ManifestStatus describes one declared manifest
type ManifestStatus struct {
	Name         string `json:"name"`
	Path         string `json:"path,omitempty"`
	Format       string `json:"format,omitempty"`
	Requirements int    `json:"requirements"`
	Checksum     string `json:"checksum,omitempty"`
	Stale        bool   `json:"stale"`
	Error        string `json:"error,omitempty"`
}

// State summarizes the report in one word
func (r *StatusReport) State() string {
	if !r.Environment.Exists {
		return "missing"
	}
	for _, m := range r.Manifests {
		if m.Stale || m.Error != "" {
			return "stale"
		}
	}
	return "ready"
}

// RenderStatus writes the report in the given format
func RenderStatus(w io.Writer, format Format, r *StatusReport) error {
	switch format.Resolve(w) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatTerminal:
		return renderTerminal(w, r)
	default:
		_, err := io.WriteString(w, renderText(r))
		return err
	}
}

func renderTerminal(w io.Writer, r *StatusReport) error {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return err
	}
	body, err := renderer.Render(statusMarkdown(r))
	if err != nil {
		return err
	}

	styles := newStatusStyles(w)
	if _, err := fmt.Fprintf(w, "%s %s\n", styles.title.Render("envboot"), styles.badge(r.State())); err != nil {
		return err
	}
	_, err = io.WriteString(w, body)
	return err
}

func statusMarkdown(r *StatusReport) string {
	var b strings.Builder

	b.WriteString("## Environment\n\n")
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Project root | `%s` (%s) |\n", r.ProjectRoot, r.RootSource)
	if r.ConfigFile != "" {
		fmt.Fprintf(&b, "| Config | `%s` |\n", r.ConfigFile)
	}
	fmt.Fprintf(&b, "| Root | `%s` |\n", r.Environment.Root)
	fmt.Fprintf(&b, "| Backend | %s |\n", r.Environment.Backend)
	fmt.Fprintf(&b, "| Marker | `%s` |\n", r.Environment.Marker)
	fmt.Fprintf(&b, "| Provisioned | %s |\n", provisioned(r.Environment))

	b.WriteString("\n## Manifests\n\n")
	if len(r.Manifests) == 0 {
		b.WriteString("_none declared_\n")
	} else {
		b.WriteString("| Name | Source | Format | Packages | State |\n|---|---|---|---|---|\n")
		for _, m := range r.Manifests {
			fmt.Fprintf(&b, "| %s | %s | %s | %d | %s |\n", m.Name, manifestSource(m), m.Format, m.Requirements, manifestState(m))
		}
	}

	b.WriteString("\n## Runner\n\n")
	fmt.Fprintf(&b, "```\n%s\n```\n", strings.Join(r.Runner, " "))
	return b.String()
}

func renderText(r *StatusReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "envboot status: %s\n\n", r.State())
	fmt.Fprintf(&b, "project root: %s (%s)\n", r.ProjectRoot, r.RootSource)
	if r.ConfigFile != "" {
		fmt.Fprintf(&b, "config:       %s\n", r.ConfigFile)
	}
	fmt.Fprintf(&b, "environment:  %s\n", r.Environment.Root)
	fmt.Fprintf(&b, "backend:      %s\n", r.Environment.Backend)
	fmt.Fprintf(&b, "marker:       %s\n", r.Environment.Marker)
	fmt.Fprintf(&b, "provisioned:  %s\n", provisioned(r.Environment))

	b.WriteString("\nmanifests:\n")
	if len(r.Manifests) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, m := range r.Manifests {
		fmt.Fprintf(&b, "  %-12s %-32s %-12s %3d  %s\n", m.Name, manifestSource(m), m.Format, m.Requirements, manifestState(m))
	}

	fmt.Fprintf(&b, "\nrunner: %s\n", strings.Join(r.Runner, " "))
	return b.String()
}

func provisioned(env EnvironmentStatus) string {
	switch {
	case !env.Exists:
		return "no"
	case env.ProvisionedAt == nil:
		return "yes (no stamp)"
	default:
		return "yes, " + env.ProvisionedAt.Local().Format(time.RFC3339)
	}
}

func manifestSource(m ManifestStatus) string {
	if m.Path == "" {
		return "inline"
	}
	return m.Path
}

func manifestState(m ManifestStatus) string {
	switch {
	case m.Error != "":
		return "error: " + m.Error
	case m.Stale:
		return "changed since install"
	default:
		return "ok"
	}
}
