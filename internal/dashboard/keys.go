package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/rileyhilliard/plantdash/internal/sim"
)

// ViewMode is the screen currently shown.
type ViewMode int

const (
	ViewGrid ViewMode = iota
	ViewFocus
)

// KeyMap holds every binding the dashboard reacts to.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	NextGroup key.Binding
	PrevGroup key.Binding
	Open      key.Binding
	Close     key.Binding
	Live      key.Binding
	Hour      key.Binding
	Shift     key.Binding
	Day       key.Binding
	Week      key.Binding
	Month     key.Binding
	Custom    key.Binding
	Alarms    key.Binding
	Ack       key.Binding
	AckAll    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "move left")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "move right")),
		NextGroup: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next group")),
		PrevGroup: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous group")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "focus widget")),
		Close:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Live:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "live")),
		Hour:      key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "1 hour")),
		Shift:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "8 hours")),
		Day:       key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "24 hours")),
		Week:      key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "7 days")),
		Month:     key.NewBinding(key.WithKeys("6"), key.WithHelp("6", "30 days")),
		Custom:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "custom range")),
		Alarms:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "alarms")),
		Ack:       key.NewBinding(key.WithKeys("x", " "), key.WithHelp("x", "acknowledge")),
		AckAll:    key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "acknowledge all")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// timeframeFor maps a timeframe binding to its preset.
func (k KeyMap) timeframeFor(msg string) (sim.Timeframe, bool) {
	pairs := []struct {
		binding key.Binding
		tf      sim.Timeframe
	}{
		{k.Live, sim.TimeframeLive},
		{k.Hour, sim.Timeframe1H},
		{k.Shift, sim.Timeframe8H},
		{k.Day, sim.Timeframe24H},
		{k.Week, sim.Timeframe7D},
		{k.Month, sim.Timeframe30D},
	}
	for _, p := range pairs {
		for _, k := range p.binding.Keys() {
			if k == msg {
				return p.tf, true
			}
		}
	}
	return "", false
}

// gridKeys is the key help shown over the widget grid.
type gridKeys struct{ KeyMap }

func (k gridKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Left, k.NextGroup, k.Open, k.Alarms, k.Help, k.Quit}
}

func (k gridKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.NextGroup, k.PrevGroup, k.Open},
		{k.Alarms, k.Help, k.Quit},
	}
}

// focusKeys is the key help shown in the focused view.
type focusKeys struct{ KeyMap }

func (k focusKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Live, k.Month, k.Custom, k.Close, k.Quit}
}

func (k focusKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Live, k.Hour, k.Shift, k.Day, k.Week, k.Month},
		{k.Custom, k.Close},
		{k.Alarms, k.Help, k.Quit},
	}
}

// alarmKeys is the key help shown over the alarm panel.
type alarmKeys struct{ KeyMap }

func (k alarmKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Ack, k.AckAll, k.Close}
}

func (k alarmKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Ack, k.AckAll},
		{k.Close, k.Quit},
	}
}
