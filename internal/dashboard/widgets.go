package dashboard

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/plantdash/internal/catalog"
	"github.com/rileyhilliard/plantdash/internal/sim"
)

const (
	// CardWidth is the outer width of a widget card, border included.
	CardWidth = 30
	// cardBodyLines keeps every card in a row the same height.
	cardBodyLines = 5
	// PlannedDowntimeHours is the fixed planned share of a donut widget.
	PlannedDowntimeHours = 10.0
	// RunningThreshold splits status readings into RUNNING and STOPPED.
	RunningThreshold = 0.5
)

// widgetRenderer draws a widget body at the given inner width.
type widgetRenderer func(wd sim.WidgetData, width int) []string

var renderers = map[catalog.WidgetType]widgetRenderer{
	catalog.WidgetGauge:       renderGauge,
	catalog.WidgetTank:        renderTank,
	catalog.WidgetBar:         renderBar,
	catalog.WidgetNumericCard: renderNumericCard,
	catalog.WidgetTimeSeries:  renderTimeSeries,
	catalog.WidgetStatusCard:  renderStatusCard,
	catalog.WidgetDonut:       renderDonut,
}

// RenderWidget draws a bordered card for wd.
func RenderWidget(wd sim.WidgetData, selected bool) string {
	inner := CardWidth - 4

	lines := []string{CardTitleStyle.Render(truncate(wd.Widget.Title, inner))}
	render, ok := renderers[wd.Widget.Type]
	if !ok {
		render = renderNumericCard
	}
	body := render(wd, inner)
	if !wd.Resolved {
		body = append([]string{MutedStyle.Render("no data source")}, body...)
	}
	if len(body) > cardBodyLines {
		body = body[:cardBodyLines]
	}
	for len(body) < cardBodyLines {
		body = append(body, "")
	}
	lines = append(lines, body...)

	style := CardStyle
	if selected {
		style = CardSelectedStyle
	}
	return style.Width(CardWidth - 2).Render(strings.Join(lines, "\n"))
}

// valueLine renders the formatted value and unit coloured by severity.
func valueLine(wd sim.WidgetData) string {
	style := fractionStyle(wd.Range.Fraction(wd.Value)).Bold(true)
	text := wd.Format(wd.Value)
	if u := widgetUnit(wd); u != "" {
		return style.Render(text) + " " + LabelStyle.Render(u)
	}
	return style.Render(text)
}

func widgetUnit(wd sim.WidgetData) string {
	if wd.Widget.Unit != "" {
		return wd.Widget.Unit
	}
	if wd.Metric != nil {
		return wd.Metric.Unit
	}
	return ""
}

func historyValues(pts []sim.Point) []float64 {
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = p.Value
	}
	return out
}

func todayMaxLine(wd sim.WidgetData) string {
	return MutedStyle.Render("max today ") + LabelStyle.Render(wd.Format(wd.TodayMax))
}

func rangeLine(r catalog.Range, wd sim.WidgetData) string {
	return MutedStyle.Render(fmt.Sprintf("%s – %s", wd.Format(r.Min), wd.Format(r.Max)))
}

func renderGauge(wd sim.WidgetData, width int) []string {
	frac := wd.Range.Fraction(wd.Value)
	lines := []string{
		valueLine(wd),
		ThinBar(width, frac),
		lipgloss.NewStyle().Foreground(ColorGraph).Render(Sparkline(historyValues(wd.History), width, wd.Range)),
	}
	if wd.Widget.ShowTodayMax {
		lines = append(lines, todayMaxLine(wd))
	}
	return lines
}

func renderTank(wd sim.WidgetData, _ int) []string {
	frac := wd.Range.Fraction(wd.Value)
	column := VerticalTank(cardBodyLines, frac)
	side := []string{
		"",
		valueLine(wd),
		fractionStyle(frac).Render(fmt.Sprintf("%.0f%%", frac*100)),
		"",
		rangeLine(wd.Range, wd),
	}
	lines := make([]string, len(column))
	for i := range column {
		lines[i] = column[i] + "  " + side[i]
	}
	return lines
}

func renderBar(wd sim.WidgetData, width int) []string {
	frac := wd.Range.Fraction(wd.Value)
	return []string{
		valueLine(wd),
		BlockBar(width, frac),
		MutedStyle.Render("of " + wd.Format(wd.Range.Max)),
	}
}

func renderNumericCard(wd sim.WidgetData, width int) []string {
	lines := []string{
		valueLine(wd),
		"",
		lipgloss.NewStyle().Foreground(ColorGraph).Render(Sparkline(historyValues(wd.History), width, wd.Range)),
	}
	if wd.Widget.ShowTodayMax {
		lines = append(lines, todayMaxLine(wd))
	}
	return lines
}

func renderTimeSeries(wd sim.WidgetData, width int) []string {
	lines := []string{valueLine(wd)}
	lines = append(lines, BrailleChart(historyValues(wd.History), width, 3, wd.Range)...)
	return append(lines, rangeLine(wd.Range, wd))
}

// StatusLabel is RUNNING above RunningThreshold and STOPPED otherwise.
func StatusLabel(v float64) string {
	if v > RunningThreshold {
		return "RUNNING"
	}
	return "STOPPED"
}

func renderStatusCard(wd sim.WidgetData, _ int) []string {
	label := StatusLabel(wd.Value)
	glyph, style := StatusStoppedGlyph, lipgloss.NewStyle().Foreground(ColorCritical)
	if label == "RUNNING" {
		glyph, style = StatusRunningGlyph, lipgloss.NewStyle().Foreground(ColorHealthy)
	}

	transitions := 0
	for i := 1; i < len(wd.History); i++ {
		if StatusLabel(wd.History[i].Value) != StatusLabel(wd.History[i-1].Value) {
			transitions++
		}
	}
	return []string{
		"",
		style.Bold(true).Render(glyph + " " + label),
		"",
		MutedStyle.Render(fmt.Sprintf("%d changes in %d samples", transitions, len(wd.History))),
	}
}

// DowntimeSplit returns planned and unplanned hours for a donut reading.
func DowntimeSplit(v float64) (planned, unplanned float64) {
	return PlannedDowntimeHours, math.Max(0, v)
}

func renderDonut(wd sim.WidgetData, width int) []string {
	planned, unplanned := DowntimeSplit(wd.Value)
	total := planned + unplanned
	share := unplanned / total

	plannedStyle := lipgloss.NewStyle().Foreground(ColorAccentDim)
	unplannedStyle := lipgloss.NewStyle().Foreground(ColorCritical)

	split := int(share*float64(width) + 0.5)
	bar := unplannedStyle.Render(strings.Repeat("█", split)) +
		plannedStyle.Render(strings.Repeat("█", width-split))

	return []string{
		unplannedStyle.Render(DonutGlyph(share)) + " " + ValueStyle.Render(fmt.Sprintf("%.0f%%", share*100)) + LabelStyle.Render(" unplanned"),
		bar,
		unplannedStyle.Render("■") + LabelStyle.Render(" unplanned ") + wd.Format(unplanned) + " h",
		plannedStyle.Render("■") + LabelStyle.Render(" planned   ") + wd.Format(planned) + " h",
	}
}
