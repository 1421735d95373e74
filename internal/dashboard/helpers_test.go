package dashboard

import (
	"context"
	"math/rand"
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/plantdash/internal/catalog"
	"github.com/rileyhilliard/plantdash/internal/sim"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

const testCatalogYAML = `
dashboard_id: test
dashboard_title: Test Plant
layout_groups:
  - group_id: process
    title: Process
    description: Main line
    widgets:
      - widget_id: flow
        title: Acid Flow
        type: gauge
        linked_metric_id: Flow
        show_today_max: true
      - widget_id: pump
        title: Pump
        type: status_card
        linked_metric_id: Pump
      - widget_id: ghost
        title: Ghost Meter
        type: numeric_card
        linked_metric_id: Missing
  - group_id: empty
    title: Empty
  - group_id: maintenance
    title: Maintenance
    widgets:
      - widget_id: downtime
        title: Downtime
        type: donut
        linked_metric_id: Down
metrics:
  Flow:
    role: process_value
    value_range: {min: 10, max: 20}
    unit: m3/h
    decimals: 1
  Pump:
    role: status
    value_range: {min: 1, max: 1}
  Down:
    role: maintenance
    value_range: {min: 0, max: 6}
    unit: h
    decimals: 1
`

func newTestDashboard(t *testing.T) *sim.Dashboard {
	t.Helper()
	cat, err := catalog.Parse([]byte(testCatalogYAML))
	require.NoError(t, err)

	opts := sim.DefaultOptions()
	opts.Rand = rand.New(rand.NewSource(7))
	opts.Now = func() time.Time { return testNow }
	return sim.NewDashboard(cat, opts)
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	// focused clocks are started but never fire during a test
	m := NewModel(newTestDashboard(t), Options{
		Interval:      time.Second,
		FocusInterval: time.Hour,
		Location:      time.UTC,
		Context:       ctx,
	})
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 200})
	return m
}

func update(m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func keys(ks ...string) []tea.Msg {
	msgs := make([]tea.Msg, len(ks))
	for i, k := range ks {
		msgs[i] = keyMsg(k)
	}
	return msgs
}
