package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/plantdash/internal/catalog"
	"github.com/rileyhilliard/plantdash/internal/sim"
)

// handleKey routes a key press to the active screen.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// the range input swallows everything while open
	if m.editing {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.closeFocus()
		return tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return nil

	case m.showHelp && key.Matches(msg, m.keys.Close):
		m.showHelp = false
		return nil

	case key.Matches(msg, m.keys.Alarms):
		m.showAlarms = !m.showAlarms
		m.alarmIndex = 0
		return nil
	}

	if m.showAlarms {
		m.handleAlarmKey(msg)
		return nil
	}
	if m.mode == ViewFocus {
		return m.handleFocusKey(msg)
	}
	return m.handleGridKey(msg)
}

func (m *Model) handleGridKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveVertical(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveVertical(1)
	case key.Matches(msg, m.keys.Left):
		m.moveHorizontal(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveHorizontal(1)
	case key.Matches(msg, m.keys.NextGroup):
		if g, ok := m.stepGroup(m.group, 1); ok {
			m.group, m.index = g, 0
		}
	case key.Matches(msg, m.keys.PrevGroup):
		if g, ok := m.stepGroup(m.group, -1); ok {
			m.group, m.index = g, 0
		}
	case key.Matches(msg, m.keys.Open):
		return m.openFocus()
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleFocusKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.closeFocus()
		m.mode = ViewGrid
		return nil

	case key.Matches(msg, m.keys.Custom):
		m.editing = true
		m.input.SetValue("")
		m.input.Focus()
		return textinput.Blink
	}

	if tf, ok := m.keys.timeframeFor(msg.String()); ok {
		return m.setTimeframe(tf)
	}
	return nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.editing = false
		m.input.Blur()
		return nil

	case tea.KeyEnter:
		w, err := sim.ParseRangeInput(m.input.Value(), m.loc)
		if err == nil {
			err = m.focus.SetCustomRange(w.Start, w.End)
		}
		if err != nil {
			m.focusErr = errorText(err)
			m.log.Warn("custom range rejected: %s", m.focusErr)
			return nil
		}
		m.focusErr = ""
		m.editing = false
		m.input.Blur()
		m.log.Debug("focus %s switched to %s", m.focus.Widget().ID, w)
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// handleAlarmKey moves through and acknowledges active alarms.
func (m *Model) handleAlarmKey(msg tea.KeyMsg) {
	active := m.alarms.Active()
	switch {
	case key.Matches(msg, m.keys.Close):
		m.showAlarms = false
	case key.Matches(msg, m.keys.Up):
		m.alarmIndex = max(m.alarmIndex-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.alarmIndex = min(m.alarmIndex+1, max(len(active)-1, 0))
	case key.Matches(msg, m.keys.Ack):
		if m.alarmIndex >= len(active) {
			return
		}
		a, err := m.alarms.Acknowledge(active[m.alarmIndex].ID)
		if err != nil {
			// cleared by a tick since the panel was drawn
			m.log.Debug("acknowledge: %s", errorText(err))
			return
		}
		m.log.Info("alarm %s acknowledged", a.ID)
	case key.Matches(msg, m.keys.AckAll):
		if n := m.alarms.AcknowledgeAll(); n > 0 {
			m.log.Info("%d alarms acknowledged", n)
		}
	}
}

// openFocus opens the focused view on the selected widget in LIVE and
// starts its own clock.
func (m *Model) openFocus() tea.Cmd {
	w, ok := m.selectedWidget()
	if !ok {
		return nil
	}
	f, err := m.dash.Focus(w.ID, sim.TimeframeLive)
	if err != nil {
		m.focusErr = errorText(err)
		m.log.Warn("cannot focus %s: %s", w.ID, m.focusErr)
		return nil
	}

	f.Start(m.ctx, m.focusInterval, m.notifyFocus)
	m.focus = f
	m.focusErr = ""
	m.mode = ViewFocus
	m.viewport.GotoTop()
	m.log.Debug("focus opened on %s", w.ID)
	return nil
}

// setTimeframe switches the focused view. LIVE resumes its clock; every
// other preset stops it.
func (m *Model) setTimeframe(tf sim.Timeframe) tea.Cmd {
	if m.focus == nil {
		return nil
	}
	if err := m.focus.SetTimeframe(tf); err != nil {
		m.focusErr = errorText(err)
		return nil
	}
	m.focusErr = ""
	m.log.Debug("focus %s switched to %s", m.focus.Widget().ID, tf)
	return nil
}

func (m *Model) closeFocus() {
	if m.focus == nil {
		return
	}
	m.focus.Close()
	m.focus = nil
	m.focusErr = ""
	m.editing = false
	m.input.Blur()
}

func (m Model) groups() []catalog.LayoutGroup {
	return m.dash.Catalog().Groups
}

func (m Model) selectedWidget() (catalog.WidgetConfig, bool) {
	groups := m.groups()
	if m.group < 0 || m.group >= len(groups) {
		return catalog.WidgetConfig{}, false
	}
	widgets := groups[m.group].Widgets
	if m.index < 0 || m.index >= len(widgets) {
		return catalog.WidgetConfig{}, false
	}
	return widgets[m.index], true
}

// stepGroup finds the next non-empty group from g in direction dir.
func (m Model) stepGroup(g, dir int) (int, bool) {
	groups := m.groups()
	for i := g + dir; i >= 0 && i < len(groups); i += dir {
		if len(groups[i].Widgets) > 0 {
			return i, true
		}
	}
	return g, false
}

func (m *Model) moveHorizontal(dir int) {
	if len(m.groups()) == 0 {
		return
	}
	n := len(m.groups()[m.group].Widgets)
	next := m.index + dir
	if next >= 0 && next < n {
		m.index = next
		return
	}
	g, ok := m.stepGroup(m.group, dir)
	if !ok {
		return
	}
	m.group = g
	if dir < 0 {
		m.index = len(m.groups()[g].Widgets) - 1
	} else {
		m.index = 0
	}
}

// moveVertical moves one card row, spilling into neighbouring groups and
// keeping the column where possible.
func (m *Model) moveVertical(dir int) {
	if len(m.groups()) == 0 {
		return
	}
	perRow := m.cardsPerRow()
	n := len(m.groups()[m.group].Widgets)
	col := m.index % perRow
	row := m.index / perRow
	lastRow := (n - 1) / perRow

	if dir > 0 && row < lastRow {
		m.index = min(m.index+perRow, n-1)
		return
	}
	if dir < 0 && row > 0 {
		m.index -= perRow
		return
	}

	g, ok := m.stepGroup(m.group, dir)
	if !ok {
		return
	}
	m.group = g
	count := len(m.groups()[g].Widgets)
	if dir > 0 {
		m.index = min(col, count-1)
		return
	}
	m.index = min(((count-1)/perRow)*perRow+col, count-1)
}
