package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorOK      = lipgloss.AdaptiveColor{Light: "#1F7A1F", Dark: "#73D216"}
	colorWarn    = lipgloss.AdaptiveColor{Light: "#8A6D00", Dark: "#EDD400"}
	colorMissing = lipgloss.AdaptiveColor{Light: "#A40000", Dark: "#EF2929"}
)

type statusStyles struct {
	title lipgloss.Style
	badge func(state string) string
}

// newStatusStyles binds the styles to w's color profile
func newStatusStyles(w io.Writer) statusStyles {
	renderer := lipgloss.NewRenderer(w)
	badge := renderer.NewStyle().Bold(true).Padding(0, 1)

	return statusStyles{
		title: renderer.NewStyle().Bold(true),
		badge: func(state string) string {
			switch state {
			case "ready":
				return badge.Foreground(colorOK).Render(state)
			case "stale":
				return badge.Foreground(colorWarn).Render(state)
			default:
				return badge.Foreground(colorMissing).Render(state)
			}
		},
	}
}
