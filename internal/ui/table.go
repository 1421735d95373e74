package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a new Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+2), // header plus its bottom border
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.
		Foreground(ColorPrimary)
	// unfocused tables still highlight the cursor row
	s.Selected = lipgloss.NewStyle()

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string.
// Columns with Width 0 are sized to their widest cell.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	sized := make([]TableColumn, len(columns))
	copy(sized, columns)
	for i := range sized {
		if sized[i].Width > 0 {
			continue
		}
		w := lipgloss.Width(sized[i].Title)
		for _, row := range rows {
			if i < len(row) {
				w = max(w, lipgloss.Width(row[i]))
			}
		}
		sized[i].Width = w
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	return NewTable(sized, tableRows).View()
}

// CheckRow is one line of a validation report.
type CheckRow struct {
	Status     string // "pass", "warn", "fail"
	Message    string
	Suggestion string
}

// RenderChecks renders a list of check results, one per line, with the
// suggestion indented below anything that did not pass.
func RenderChecks(title string, rows []CheckRow) string {
	out := TitleStyle().Render(title) + "\n"
	for _, row := range rows {
		var icon string
		switch row.Status {
		case "pass":
			icon = SuccessStyle().Render(SymbolSuccess)
		case "warn":
			icon = WarningStyle().Render(SymbolWarning)
		case "fail":
			icon = ErrorStyle().Render(SymbolFail)
		default:
			icon = MutedStyle().Render(SymbolPending)
		}
		out += "  " + icon + " " + row.Message + "\n"
		if row.Suggestion != "" && row.Status != "pass" {
			out += "    " + MutedStyle().Render(row.Suggestion) + "\n"
		}
	}
	return out
}
