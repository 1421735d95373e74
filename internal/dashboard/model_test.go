package dashboard

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/plantdash/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModel(t *testing.T) {
	m := newTestModel(t)

	group, index := m.Selected()
	assert.Equal(t, 0, group)
	assert.Equal(t, 0, index)
	assert.Equal(t, ViewGrid, m.Mode())
	assert.Nil(t, m.Focus())
	assert.NotNil(t, m.Init())
	assert.False(t, m.ShowingAlarms())
}

func TestModel_Navigation(t *testing.T) {
	tests := []struct {
		name      string
		keys      []string
		wantGroup int
		wantIndex int
	}{
		{name: "right within group", keys: []string{"right"}, wantGroup: 0, wantIndex: 1},
		{name: "l is right", keys: []string{"l", "l"}, wantGroup: 0, wantIndex: 2},
		{name: "right spills into next non-empty group", keys: []string{"right", "right", "right"}, wantGroup: 2, wantIndex: 0},
		{name: "left at start stays", keys: []string{"left"}, wantGroup: 0, wantIndex: 0},
		{name: "left spills back to last widget", keys: []string{"tab", "h"}, wantGroup: 0, wantIndex: 2},
		{name: "tab skips empty groups", keys: []string{"tab"}, wantGroup: 2, wantIndex: 0},
		{name: "tab at last group stays", keys: []string{"tab", "tab"}, wantGroup: 2, wantIndex: 0},
		{name: "shift+tab returns", keys: []string{"tab", "shift+tab"}, wantGroup: 0, wantIndex: 0},
		{name: "down moves to next group", keys: []string{"down"}, wantGroup: 2, wantIndex: 0},
		{name: "j keeps column where possible", keys: []string{"right", "right", "j"}, wantGroup: 2, wantIndex: 0},
		{name: "up at top stays", keys: []string{"up"}, wantGroup: 0, wantIndex: 0},
		{name: "k returns to previous group", keys: []string{"down", "k"}, wantGroup: 0, wantIndex: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := update(newTestModel(t), keys(tt.keys...)...)
			group, index := m.Selected()
			assert.Equal(t, tt.wantGroup, group)
			assert.Equal(t, tt.wantIndex, index)
		})
	}
}

func TestModel_NavigationWrapsRows(t *testing.T) {
	m := NewModel(newTestDashboard(t), Options{Interval: time.Second})
	// narrow enough for one card per row
	m, _ = update(m, tea.WindowSizeMsg{Width: 40, Height: 200})
	require.Equal(t, 1, m.cardsPerRow())

	m, _ = update(m, keys("down", "down")...)
	group, index := m.Selected()
	assert.Equal(t, 0, group)
	assert.Equal(t, 2, index)

	m, _ = update(m, keyMsg("up"))
	_, index = m.Selected()
	assert.Equal(t, 1, index)
}

func TestModel_TickAdvancesDashboard(t *testing.T) {
	m := newTestModel(t)

	m, cmd := update(m, tickMsg(testNow.Add(time.Second)))
	require.NotNil(t, cmd)

	ticks, last := m.dash.Ticks()
	assert.Equal(t, uint64(1), ticks)
	assert.Equal(t, testNow.Add(time.Second), last)
	assert.Len(t, m.dash.History("Flow"), sim.DefaultSeedPoints+1)
}

func TestModel_OpenAndCloseFocus(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(m, keyMsg("enter"))
	assert.Equal(t, ViewFocus, m.Mode())
	f := m.Focus()
	require.NotNil(t, f)
	assert.Equal(t, "flow", f.Widget().ID)
	assert.Equal(t, sim.TimeframeLive, f.Window().Timeframe)
	assert.Len(t, f.Points(), sim.DefaultSeedPoints)
	assert.True(t, f.Ticking(), "opening a focus starts its clock")

	m, _ = update(m, keyMsg("esc"))
	assert.Equal(t, ViewGrid, m.Mode())
	assert.Nil(t, m.Focus())
	assert.False(t, f.Ticking(), "closing the view stops its clock")
}

func TestModel_FocusTimeframes(t *testing.T) {
	tests := []struct {
		key  string
		want sim.Timeframe
	}{
		{key: "2", want: sim.Timeframe1H},
		{key: "3", want: sim.Timeframe8H},
		{key: "4", want: sim.Timeframe24H},
		{key: "5", want: sim.Timeframe7D},
		{key: "6", want: sim.Timeframe30D},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			m, _ := update(newTestModel(t), keyMsg("enter"))
			m, _ = update(m, keyMsg(tt.key))

			assert.False(t, m.Focus().Ticking(), "preset windows do not tick")
			assert.Equal(t, tt.want, m.Focus().Window().Timeframe)
			assert.Len(t, m.Focus().Points(), sim.DefaultSynthPoints)

			// a late redraw only re-arms the listener
			m, cmd := update(m, focusTickMsg(testNow))
			assert.NotNil(t, cmd)
			assert.Len(t, m.Focus().Points(), sim.DefaultSynthPoints)
		})
	}
}

func TestModel_FocusClockFollowsWindow(t *testing.T) {
	m, _ := update(newTestModel(t), keyMsg("enter"))
	f := m.Focus()
	require.True(t, f.Ticking())

	m, _ = update(m, keyMsg("4"))
	assert.False(t, f.Ticking())

	m, _ = update(m, keyMsg("1"))
	assert.True(t, f.Ticking(), "back to LIVE resumes the clock")
	assert.Len(t, f.Points(), sim.DefaultSeedPoints, "LIVE reseeds from the dashboard")

	m, _ = update(m, keyMsg("c"), keyMsg("2024-05-01T08:00 2024-05-01T20:00"), keyMsg("enter"))
	assert.True(t, f.Window().IsCustom())
	assert.False(t, f.Ticking())

	m, _ = update(m, keyMsg("1"), keyMsg("q"))
	assert.Nil(t, m.Focus())
	assert.False(t, f.Ticking(), "quitting stops the clock")
}

func TestModel_FocusClockDrivesRedraws(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewModel(newTestDashboard(t), Options{
		Interval:      time.Hour,
		FocusInterval: 5 * time.Millisecond,
		Location:      time.UTC,
		Context:       ctx,
	})
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 200}, keyMsg("enter"))
	f := m.Focus()
	require.NotNil(t, f)
	defer f.Close()

	got := make(chan tea.Msg, 1)
	wait := m.waitForFocus()
	go func() { got <- wait() }()

	var msg tea.Msg
	select {
	case msg = <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("focused clock never signalled")
	}
	require.IsType(t, focusTickMsg{}, msg)
	assert.Greater(t, len(f.Points()), sim.DefaultSeedPoints)

	_, cmd := update(m, msg)
	assert.NotNil(t, cmd, "each redraw waits for the next point")
}
func TestModel_FocusIgnoresDashboardTicks(t *testing.T) {
	m, _ := update(newTestModel(t), keyMsg("enter"))
	before := m.Focus().Points()

	m, _ = update(m, tickMsg(testNow.Add(time.Second)), tickMsg(testNow.Add(2*time.Second)))
	assert.Equal(t, before, m.Focus().Points())
}

func TestModel_CustomRange(t *testing.T) {
	t.Run("invalid range keeps data and shows error", func(t *testing.T) {
		m, _ := update(newTestModel(t), keys("enter", "4")...)
		before := m.Focus().Points()

		m, _ = update(m, keyMsg("c"))
		require.True(t, m.Editing())

		m, _ = update(m, keyMsg("2024-05-01T10:00 2024-05-01T08:00"), keyMsg("enter"))
		assert.True(t, m.Editing(), "input stays open for correction")
		assert.Contains(t, m.FocusError(), "Invalid custom range")
		assert.Equal(t, sim.Timeframe24H, m.Focus().Window().Timeframe)
		assert.Equal(t, before, m.Focus().Points())

		m, _ = update(m, keyMsg("esc"))
		assert.False(t, m.Editing())
		assert.Equal(t, ViewFocus, m.Mode(), "esc closes the input, not the view")
	})

	t.Run("unparseable input", func(t *testing.T) {
		m, _ := update(newTestModel(t), keys("enter", "c")...)
		m, _ = update(m, keyMsg("yesterday"), keyMsg("enter"))
		assert.Contains(t, m.FocusError(), "Expected a start and an end")
		assert.Equal(t, sim.TimeframeLive, m.Focus().Window().Timeframe)
	})

	t.Run("valid range applies", func(t *testing.T) {
		m, _ := update(newTestModel(t), keys("enter", "c")...)
		m, _ = update(m, keyMsg("2024-05-01T08:00 2024-05-01T20:00"), keyMsg("enter"))

		assert.False(t, m.Editing())
		assert.Empty(t, m.FocusError())
		w := m.Focus().Window()
		assert.True(t, w.IsCustom())
		assert.Equal(t, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), w.Start)
		assert.Equal(t, time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC), w.End)
		assert.Len(t, m.Focus().Points(), sim.DefaultSynthPoints)
		assert.False(t, m.Focus().Ticking())
	})

	t.Run("q types into the input", func(t *testing.T) {
		m, _ := update(newTestModel(t), keys("enter", "c", "q")...)
		assert.True(t, m.Editing())
		assert.Equal(t, "q", m.input.Value())
		assert.NotEmpty(t, m.View())
	})
}

func TestModel_FocusUnresolvedWidget(t *testing.T) {
	m, _ := update(newTestModel(t), keys("right", "right", "enter")...)
	require.NotNil(t, m.Focus())
	assert.Nil(t, m.Focus().Metric())
	assert.Empty(t, m.Focus().Points())
	assert.Contains(t, m.View(), "unresolved metric Missing")
}

func TestModel_Quit(t *testing.T) {
	m, cmd := update(newTestModel(t), keys("enter", "q")...)
	assert.NotNil(t, cmd)
	assert.Nil(t, m.Focus())
	assert.Empty(t, m.View())
}

func TestModel_HelpOverlay(t *testing.T) {
	m, _ := update(newTestModel(t), keyMsg("?"))
	assert.Contains(t, m.View(), "Dashboard keys")
	assert.Contains(t, m.View(), "next group")
	assert.Contains(t, m.View(), "alarms")

	m, _ = update(m, keyMsg("esc"))
	assert.NotContains(t, m.View(), "Dashboard keys")

	m, _ = update(m, keys("enter", "?")...)
	assert.Contains(t, m.View(), "Focused view keys")
	assert.Contains(t, m.View(), "custom range")
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t)
	view := m.View()

	for _, want := range []string{
		"Test Plant",
		"tick 0",
		"Process",
		"Main line",
		"Maintenance",
		"no widgets",
		"Acid Flow",
		"max today",
		"RUNNING",
		"Ghost Meter",
		"no data source",
		"unplanned",
	} {
		assert.Contains(t, view, want)
	}
}

func TestModel_FocusView(t *testing.T) {
	m, _ := update(newTestModel(t), keys("enter", "4")...)
	view := m.View()

	for _, want := range []string{
		"Acid Flow",
		"1 LIVE",
		"4 24H",
		"Statistics",
		"51 points",
		"Current",
		"Average",
		"Max",
		"Min",
		"[10, 20] m3/h",
		"process_value",
	} {
		assert.Contains(t, view, want)
	}
}

func TestModel_AlarmPanel(t *testing.T) {
	m := newTestModel(t)
	m.Alarms().Evaluate(sim.Snapshot{Time: testNow, Values: map[string]float64{"Flow": 19.5, "Down": 0}})
	assert.Contains(t, m.View(), "alarms 1 (1 new)")

	m, _ = update(m, keyMsg("a"))
	require.True(t, m.ShowingAlarms())
	view := m.View()
	for _, want := range []string{
		"Active Alarms (1)",
		"CRITICAL",
		"Acid Flow high critical",
		"unacknowledged",
		"acknowledge",
	} {
		assert.Contains(t, view, want)
	}

	m, _ = update(m, keyMsg("x"))
	assert.Zero(t, m.Alarms().Unacknowledged())
	assert.Contains(t, m.View(), "Active Alarms (0)")
	assert.Contains(t, m.View(), "✓ ack 12:00:00")

	m, _ = update(m, keyMsg("esc"))
	assert.False(t, m.ShowingAlarms())
	assert.Contains(t, m.View(), "alarms 1")
	assert.NotContains(t, m.View(), "new)")
}

func TestModel_AlarmPanelKeys(t *testing.T) {
	tests := []struct {
		name      string
		keys      []string
		wantAcked []string
	}{
		{name: "x acknowledges the first alarm", keys: []string{"a", "x"}, wantAcked: []string{"downtime"}},
		{name: "j then x acknowledges the second", keys: []string{"a", "j", "x"}, wantAcked: []string{"flow"}},
		{name: "down stops at the last alarm", keys: []string{"a", "j", "j", "j", "x"}, wantAcked: []string{"flow"}},
		{name: "X acknowledges all", keys: []string{"a", "X"}, wantAcked: []string{"downtime", "flow"}},
		{name: "keys do nothing once closed", keys: []string{"a", "a", "x"}, wantAcked: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			// both critical and raised together, so they sort by id
			m.Alarms().Evaluate(sim.Snapshot{Time: testNow, Values: map[string]float64{"Flow": 19.5, "Down": 5.9}})

			m, _ = update(m, keys(tt.keys...)...)

			var acked []string
			for _, a := range m.Alarms().Active() {
				if a.Acknowledged {
					acked = append(acked, a.ID)
				}
			}
			assert.ElementsMatch(t, tt.wantAcked, acked)
		})
	}
}

func TestModel_AlarmPanelEmpty(t *testing.T) {
	m := newTestModel(t)
	m.Alarms().Evaluate(sim.Snapshot{Time: testNow, Values: map[string]float64{"Flow": 10, "Down": 0}})

	m, _ = update(m, keys("a", "x", "j")...)
	assert.Contains(t, m.View(), "No active alarms")
	assert.Contains(t, m.View(), "Active Alarms (0)")
}

func TestModel_TickEvaluatesAlarms(t *testing.T) {
	m := newTestModel(t)
	m.Alarms().Evaluate(sim.Snapshot{Time: testNow, Values: map[string]float64{"Flow": 19.5, "Down": 5.9}})
	require.Len(t, m.Alarms().Active(), 2)

	m, _ = update(m, tickMsg(testNow.Add(time.Second)))

	// every widget is re-evaluated against the fresh values
	snap := m.dash.Snapshot()
	for _, a := range m.Alarms().Active() {
		assert.Equal(t, snap.Values[a.Tag], a.Value, a.ID)
	}
	active := make(map[string]bool)
	for _, a := range m.Alarms().Active() {
		active[a.ID] = true
	}
	assert.Equal(t, (snap.Values["Flow"]-10)/10 > 0.75, active["flow"])
	assert.Equal(t, snap.Values["Down"]/6 > 0.75, active["downtime"])
}
