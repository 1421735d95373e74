package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/plantdash/internal/alarm"
)

// Control-room palette
const (
	ColorDarkBg    = lipgloss.Color("#0B0F14")
	ColorSurfaceBg = lipgloss.Color("#131A22")
	ColorBorder    = lipgloss.Color("#2B3A4A")

	ColorHealthy  = lipgloss.Color("#3DDC84")
	ColorWarning  = lipgloss.Color("#FFB020")
	ColorCritical = lipgloss.Color("#FF4D4F")

	ColorTextPrimary   = lipgloss.Color("#F2F5F7")
	ColorTextSecondary = lipgloss.Color("#A9B8C6")
	ColorTextMuted     = lipgloss.Color("#5F7284")

	ColorAccent    = lipgloss.Color("#00B3FF")
	ColorAccentDim = lipgloss.Color("#7A5CFF")

	ColorGraph = lipgloss.Color("#4FD1C5")
)

// SeverityColor returns the palette colour for s.
func SeverityColor(s alarm.Severity) lipgloss.Color {
	switch s {
	case alarm.SeverityCritical:
		return ColorCritical
	case alarm.SeverityWarning:
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// fractionStyle colours text by the severity of a display-range fraction.
func fractionStyle(fraction float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(SeverityColor(alarm.SeverityOf(fraction)))
}

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginRight(1)

	CardSelectedStyle = CardStyle.
				BorderForeground(ColorAccent)

	CardTitleStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorCritical)
)

// Status glyphs
const (
	StatusRunningGlyph = "◉"
	StatusStoppedGlyph = "◌"
)

// barCells renders width cells with the first fraction*width filled.
func barCells(width int, fraction float64, full, empty string) string {
	if width < 1 {
		width = 1
	}
	fraction = clampFraction(fraction)
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat(full, filled) + strings.Repeat(empty, width-filled)
}

// ThinBar renders a line bar coloured by the fraction's severity.
func ThinBar(width int, fraction float64) string {
	return fractionStyle(fraction).Render(barCells(width, fraction, "━", "─"))
}

// BlockBar renders a chunky horizontal bar coloured by severity.
func BlockBar(width int, fraction float64) string {
	return fractionStyle(fraction).Render(barCells(width, fraction, "▰", "▱"))
}

func clampFraction(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// SectionHeader renders ╭─ Title ──────── Value ╮ at the given width.
func SectionHeader(title, value string, width int) string {
	if width < 10 {
		width = 10
	}

	leftWidth := 3 + lipgloss.Width(title) + 1
	rightWidth := 1 + lipgloss.Width(value) + 2
	fillWidth := width - leftWidth - rightWidth
	if fillWidth < 1 {
		fillWidth = 1
	}

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	titleStyle := lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(ColorGraph).Bold(true)

	return borderStyle.Render("╭─ ") +
		titleStyle.Render(title) +
		borderStyle.Render(" "+strings.Repeat("─", fillWidth)+" ") +
		valueStyle.Render(value) +
		borderStyle.Render(" ╮")
}

// SectionFooter renders the bottom border of a section.
func SectionFooter(width int) string {
	if width < 2 {
		width = 2
	}
	return lipgloss.NewStyle().Foreground(ColorBorder).Render("╰" + strings.Repeat("─", width-2) + "╯")
}

// SectionContentLine renders │ content │ padded to width.
func SectionContentLine(content string, width int) string {
	if width < 4 {
		width = 4
	}
	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	padding := width - 4 - lipgloss.Width(content)
	if padding < 0 {
		padding = 0
	}
	return borderStyle.Render("│") + " " + content + strings.Repeat(" ", padding) + " " + borderStyle.Render("│")
}

// truncate shortens s to width cells, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
