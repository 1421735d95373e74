package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/plantdash/internal/catalog"
	"github.com/rileyhilliard/plantdash/internal/sim"
)

const focusChartHeight = 8

var (
	tabStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	tabActiveStyle = lipgloss.NewStyle().
			Foreground(ColorDarkBg).
			Background(ColorAccent).
			Bold(true).
			Padding(0, 1)

	statLabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Width(10)
)

// renderFocus renders the focused view of one widget.
func (m Model) renderFocus() string {
	if m.focus == nil {
		return LabelStyle.Render("No widget focused")
	}

	width := m.contentWidth()
	w := m.focus.Widget()
	metric := m.focus.Metric()
	window := m.focus.Window()
	pts := m.focus.Points()
	r := m.dash.DisplayRange(w)

	format := func(v float64) string {
		if metric == nil {
			return catalog.FormatNumber(v, 2)
		}
		return metric.Format(v)
	}

	var lines []string
	subtitle := "unresolved metric " + w.LinkedMetricID
	if metric != nil {
		subtitle = metric.ID
	}
	lines = append(lines,
		lipgloss.NewStyle().Foreground(ColorAccent).Bold(true).Render(w.Title)+"  "+MutedStyle.Render(subtitle),
		"",
		renderTabs(window),
		"",
	)

	lines = append(lines, SectionHeader("Trend", window.String(), width))
	for _, l := range m.renderFocusChart(pts, r, width-4, format) {
		lines = append(lines, SectionContentLine(l, width))
	}
	lines = append(lines, SectionContentLine(MutedStyle.Render(spanText(pts)), width))
	lines = append(lines, SectionFooter(width))

	stats := m.focus.Stats()
	lines = append(lines, "", SectionHeader("Statistics", fmt.Sprintf("%d points", stats.Count), width))
	if stats.Count == 0 {
		lines = append(lines, SectionContentLine(MutedStyle.Render("no data"), width))
	} else {
		sev := fractionStyle(r.Fraction(stats.Current))
		lines = append(lines,
			SectionContentLine(statLabelStyle.Render("Current")+sev.Bold(true).Render(format(stats.Current)), width),
			SectionContentLine(statLabelStyle.Render("Average")+ValueStyle.Render(format(stats.Avg)), width),
			SectionContentLine(statLabelStyle.Render("Max")+ValueStyle.Render(format(stats.Max)), width),
			SectionContentLine(statLabelStyle.Render("Min")+ValueStyle.Render(format(stats.Min)), width),
		)
	}
	lines = append(lines, SectionFooter(width))

	lines = append(lines, "", SectionHeader("Configuration", string(w.Type), width))
	if metric != nil {
		lines = append(lines,
			SectionContentLine(statLabelStyle.Render("Range")+LabelStyle.Render(fmt.Sprintf("%s %s", metric.ValueRange, metric.Unit)), width),
			SectionContentLine(statLabelStyle.Render("Role")+LabelStyle.Render(string(metric.Role)), width),
			SectionContentLine(statLabelStyle.Render("Decimals")+LabelStyle.Render(fmt.Sprintf("%d", metric.Decimals)), width),
		)
	}
	lines = append(lines,
		SectionContentLine(statLabelStyle.Render("Display")+LabelStyle.Render(r.String()), width),
		SectionFooter(width),
	)

	if m.editing {
		lines = append(lines, "", LabelStyle.Render("Custom range: ")+m.input.View())
		lines = append(lines, MutedStyle.Render("start and end as "+sim.RangeLayout+", enter to apply, esc to cancel"))
	}
	if m.focusErr != "" {
		lines = append(lines, "", ErrorStyle.Render("✗ "+m.focusErr))
	}

	return strings.Join(lines, "\n")
}

// renderFocusChart draws the braille chart with the display range on the
// left axis.
func (m Model) renderFocusChart(pts []sim.Point, r catalog.Range, width int, format func(float64) string) []string {
	top, bottom := format(r.Max), format(r.Min)
	labelWidth := max(lipgloss.Width(top), lipgloss.Width(bottom))
	chartWidth := max(width-labelWidth-3, 10)

	values := make([]float64, len(pts))
	for i, p := range pts {
		values[i] = p.Value
	}
	chart := BrailleChart(values, chartWidth, focusChartHeight, r)
	if len(chart) == 0 {
		return []string{MutedStyle.Render("waiting for data")}
	}

	lines := make([]string, len(chart))
	for i, row := range chart {
		label := ""
		switch i {
		case 0:
			label = top
		case len(chart) - 1:
			label = bottom
		}
		lines[i] = MutedStyle.Render(fmt.Sprintf("%*s", labelWidth, label)) + " ┤" + row
	}
	return lines
}

func renderTabs(w sim.Window) string {
	tabs := make([]string, 0, len(sim.Presets)+1)
	for i, tf := range sim.Presets {
		label := fmt.Sprintf("%d %s", i+1, tf)
		if w.Timeframe == tf {
			tabs = append(tabs, tabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	if w.IsCustom() {
		tabs = append(tabs, tabActiveStyle.Render("c "+w.String()))
	} else {
		tabs = append(tabs, tabStyle.Render("c custom"))
	}
	return strings.Join(tabs, " ")
}

// spanText describes the time covered by pts.
func spanText(pts []sim.Point) string {
	if len(pts) == 0 {
		return ""
	}
	first := time.UnixMilli(pts[0].Timestamp)
	last := time.UnixMilli(pts[len(pts)-1].Timestamp)
	return fmt.Sprintf("%s → %s", first.Format("Jan 02 15:04"), last.Format("Jan 02 15:04"))
}
