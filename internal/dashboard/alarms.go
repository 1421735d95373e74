package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/plantdash/internal/alarm"
)

const alarmPanelWidth = 64

var (
	alarmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorCritical).
			Background(ColorSurfaceBg).
			Padding(1, 2)

	alarmTagStyle = lipgloss.NewStyle().
			Foreground(ColorDarkBg).
			Bold(true).
			Padding(0, 1)
)

// renderAlarmPanel renders the active alarm list as a centered box.
func (m Model) renderAlarmPanel() string {
	active := m.alarms.Active()

	title := fmt.Sprintf("Active Alarms (%d)", m.alarms.Unacknowledged())
	lines := []string{helpTitleStyle.Render(title), ""}

	if len(active) == 0 {
		lines = append(lines, MutedStyle.Render("No active alarms"))
	}
	for i, a := range active {
		lines = append(lines, m.renderAlarm(a, i == m.alarmIndex)...)
		lines = append(lines, "")
	}
	lines = append(lines, m.help.View(alarmKeys{m.keys}))

	box := alarmBoxStyle.Width(alarmPanelWidth).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(
		m.contentWidth(),
		max(m.height, lipgloss.Height(box)),
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(ColorDarkBg),
	)
}

func (m Model) renderAlarm(a alarm.Alarm, selected bool) []string {
	cursor := "  "
	if selected {
		cursor = lipgloss.NewStyle().Foreground(ColorAccent).Render("› ")
	}

	badge := alarmTagStyle.Background(SeverityColor(a.Severity)).Render(strings.ToUpper(a.Severity.String()))
	state := lipgloss.NewStyle().Foreground(ColorAccent).Render("unacknowledged")
	if a.Acknowledged {
		state = lipgloss.NewStyle().Foreground(ColorHealthy).Render("✓ ack " + a.AckedAt.In(m.loc).Format("15:04:05"))
	}

	return []string{
		cursor + MutedStyle.Render(a.RaisedAt.In(m.loc).Format("15:04:05")) + "  " + badge,
		"  " + ValueStyle.Render(truncate(a.Message, alarmPanelWidth-6)),
		"  " + MutedStyle.Render(a.Tag) + "  " + state,
	}
}

// alarmSummary is the header fragment for active alarms.
func (m Model) alarmSummary() string {
	active := m.alarms.Active()
	if len(active) == 0 {
		return "no alarms"
	}
	worst := alarm.SeverityNormal
	for _, a := range active {
		worst = max(worst, a.Severity)
	}
	text := fmt.Sprintf("alarms %d", len(active))
	if n := m.alarms.Unacknowledged(); n > 0 {
		text += fmt.Sprintf(" (%d new)", n)
	}
	return lipgloss.NewStyle().Foreground(SeverityColor(worst)).Render(text)
}
