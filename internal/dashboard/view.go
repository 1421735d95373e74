package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/plantdash/internal/catalog"
)

const defaultWidth = 100

// renderScreen renders header, body and footer.
func (m Model) renderScreen() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.viewportReady {
		b.WriteString(m.viewport.View())
	} else if m.mode == ViewFocus {
		b.WriteString(m.renderFocus())
	} else {
		content, _ := m.renderGroups()
		b.WriteString(content)
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader shows the dashboard title, tick count and data age.
func (m Model) renderHeader() string {
	ticks, _ := m.dash.Ticks()

	var age string
	switch s := m.SecondsSinceUpdate(); s {
	case 0:
		age = "just now"
	default:
		age = fmt.Sprintf("%ds ago", s)
	}

	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render(m.dash.Catalog().Title)

	stats := lipgloss.NewStyle().
		Foreground(ColorTextSecondary).
		Render(fmt.Sprintf(" | %d groups | tick %d | updated %s", len(m.groups()), ticks, age))

	return HeaderStyle.Render(title + stats + MutedStyle.Render(" | ") + m.alarmSummary())
}

func (m Model) renderFooter() string {
	if m.mode == ViewFocus {
		return FooterStyle.Render(m.help.View(focusKeys{m.keys}))
	}
	return FooterStyle.Render(m.help.View(gridKeys{m.keys}))
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

// cardsPerRow is how many cards fit inside a group panel.
func (m Model) cardsPerRow() int {
	return max((m.contentWidth()-4)/(CardWidth+1), 1)
}

// renderGroups renders every group panel and the line each one starts on.
func (m Model) renderGroups() (string, []int) {
	groups := m.groups()
	if len(groups) == 0 {
		return LabelStyle.Render("No layout groups in the catalog"), nil
	}

	width := m.contentWidth()
	perRow := m.cardsPerRow()

	sections := make([]string, 0, len(groups))
	offsets := make([]int, len(groups))
	line := 0
	for gi, g := range groups {
		offsets[gi] = line
		section := m.renderGroup(gi, g, width, perRow)
		sections = append(sections, section)
		line += lipgloss.Height(section)
	}
	return strings.Join(sections, "\n"), offsets
}

func (m Model) renderGroup(gi int, g catalog.LayoutGroup, width, perRow int) string {
	var lines []string
	lines = append(lines, SectionHeader(g.Title, fmt.Sprintf("%d widgets", len(g.Widgets)), width))
	if g.Description != "" {
		lines = append(lines, SectionContentLine(MutedStyle.Render(truncate(g.Description, width-4)), width))
	}

	if len(g.Widgets) == 0 {
		lines = append(lines, SectionContentLine(MutedStyle.Render("no widgets"), width))
	}

	for start := 0; start < len(g.Widgets); start += perRow {
		end := min(start+perRow, len(g.Widgets))
		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			wd := m.dash.Resolve(g.Widgets[i])
			selected := m.mode == ViewGrid && gi == m.group && i == m.index
			cards = append(cards, RenderWidget(wd, selected))
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
		for _, l := range strings.Split(row, "\n") {
			lines = append(lines, SectionContentLine(l, width))
		}
	}

	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}
