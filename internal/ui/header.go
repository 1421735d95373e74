package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HeaderInfo contains information to display in the header.
type HeaderInfo struct {
	Title   string // Dashboard title
	Version string // Optional version string (e.g., "v0.4.0")
	Tagline string // Optional tagline, usually the dashboard description
}

// HeaderWidth is the default width of the header divider
const HeaderWidth = 50

// RenderHeader renders a title line, an optional tagline and a divider.
func RenderHeader(info HeaderInfo) string {
	var out strings.Builder

	out.WriteString(TitleStyle().Render(info.Title))
	if info.Version != "" {
		out.WriteString(" ")
		out.WriteString(lipgloss.NewStyle().Foreground(ColorSecondary).Render(info.Version))
	}
	out.WriteString("\n")

	if info.Tagline != "" {
		out.WriteString(MutedStyle().Render(info.Tagline))
		out.WriteString("\n")
	}

	out.WriteString(MutedStyle().Render(strings.Repeat("━", HeaderWidth)))
	out.WriteString("\n")
	return out.String()
}

// PrintHeader writes the styled header to w.
func PrintHeader(w io.Writer, info HeaderInfo) {
	fmt.Fprint(w, RenderHeader(info))
}
