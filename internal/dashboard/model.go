package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/plantdash/internal/alarm"
	pderrors "github.com/rileyhilliard/plantdash/internal/errors"
	"github.com/rileyhilliard/plantdash/internal/logger"
	"github.com/rileyhilliard/plantdash/internal/sim"
)

// Header and footer heights reserved around the viewport.
const (
	headerHeight = 2
	footerHeight = 2
)

// Options configures a Model.
type Options struct {
	// Interval between dashboard ticks.
	Interval time.Duration
	// FocusInterval between focused view ticks. Zero uses Interval.
	FocusInterval time.Duration
	// Location interprets typed custom ranges. Nil uses time.Local.
	Location *time.Location
	// Context bounds every focused view clock. Nil uses context.Background.
	Context context.Context
	Logger  logger.Logger
}

// Model is the Bubble Tea model for the plant dashboard.
type Model struct {
	dash *sim.Dashboard
	keys KeyMap
	help help.Model
	log  logger.Logger

	group  int
	index  int
	width  int
	height int

	interval      time.Duration
	focusInterval time.Duration
	loc           *time.Location
	lastUpdate    time.Time

	mode     ViewMode
	showHelp bool
	quitting bool

	alarms     *alarm.Board
	showAlarms bool
	alarmIndex int

	ctx         context.Context
	focus       *sim.Focus
	focusEvents chan time.Time
	focusErr    string
	input       textinput.Model
	editing     bool

	viewport      viewport.Model
	viewportReady bool
}

// tickMsg advances the dashboard.
type tickMsg time.Time

// focusTickMsg reports that the focused view's own clock added a point.
type focusTickMsg time.Time

// NewModel creates a dashboard model over d.
func NewModel(d *sim.Dashboard, opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = sim.DefaultInterval
	}
	if opts.FocusInterval <= 0 {
		opts.FocusInterval = opts.Interval
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}

	input := textinput.New()
	input.Placeholder = "2024-05-01T08:00 2024-05-01T20:00"
	input.CharLimit = 64
	input.Width = 40

	m := Model{
		dash:          d,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		log:           opts.Logger,
		interval:      opts.Interval,
		focusInterval: opts.FocusInterval,
		loc:           opts.Location,
		input:         input,
		alarms:        alarm.NewBoard(d),
		ctx:           opts.Context,
		focusEvents:   make(chan time.Time, 1),
	}
	_, m.lastUpdate = d.Ticks()
	m.logAlarms(m.alarms.Evaluate(d.Snapshot()))

	// start on the first group that has widgets
	for gi, g := range m.groups() {
		if len(g.Widgets) > 0 {
			m.group = gi
			break
		}
	}
	return m
}

// Init starts the tick timer and the focused view listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), m.waitForFocus())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		m.refresh()
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		vpHeight := max(m.height-headerHeight-footerHeight, 1)
		if !m.viewportReady {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.YPosition = headerHeight
			m.viewportReady = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refresh()

	case tickMsg:
		now := time.Time(msg)
		m.logAlarms(m.alarms.Evaluate(m.dash.Tick(now)))
		m.lastUpdate = now
		m.refresh()
		return m, m.tickCmd()

	case focusTickMsg:
		// the point is already in the focused buffer; only redraw
		m.refresh()
		return m, m.waitForFocus()
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	if m.showAlarms {
		return m.renderAlarmPanel()
	}
	return m.renderScreen()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForFocus blocks until the focused view clock adds a point. Exactly
// one of these is pending at a time; each focusTickMsg re-arms it.
func (m Model) waitForFocus() tea.Cmd {
	ch := m.focusEvents
	return func() tea.Msg {
		return focusTickMsg(<-ch)
	}
}

// notifyFocus runs on the focused view's clock goroutine.
func (m Model) notifyFocus(now time.Time) {
	select {
	case m.focusEvents <- now:
	default:
	}
}

func (m Model) logAlarms(ch alarm.Changes) {
	for _, a := range ch.Raised {
		m.log.Warn("alarm raised: %s", a.Message)
	}
	for _, a := range ch.Escalated {
		m.log.Warn("alarm escalated: %s", a.Message)
	}
	for _, a := range ch.Cleared {
		m.log.Info("alarm cleared: %s", a.ID)
	}
}

// Mode returns the active screen.
func (m Model) Mode() ViewMode {
	return m.mode
}

// Selected returns the selected group and widget index within it.
func (m Model) Selected() (group, index int) {
	return m.group, m.index
}

// Focus returns the focused view, or nil on the grid.
func (m Model) Focus() *sim.Focus {
	return m.focus
}

// FocusError returns the last error shown in the focused view.
func (m Model) FocusError() string {
	return m.focusErr
}

// Alarms returns the alarm board.
func (m Model) Alarms() *alarm.Board {
	return m.alarms
}

// ShowingAlarms reports whether the alarm panel is open.
func (m Model) ShowingAlarms() bool {
	return m.showAlarms
}

// Editing reports whether the custom range input is open.
func (m Model) Editing() bool {
	return m.editing
}

// SecondsSinceUpdate returns how many seconds have passed since the last tick.
func (m Model) SecondsSinceUpdate() int {
	if m.lastUpdate.IsZero() {
		return 0
	}
	return int(time.Since(m.lastUpdate).Seconds())
}

// refresh re-renders the viewport content for the current screen.
func (m *Model) refresh() {
	if !m.viewportReady {
		return
	}
	if m.mode == ViewFocus {
		m.viewport.SetContent(m.renderFocus())
		return
	}

	content, offsets := m.renderGroups()
	m.viewport.SetContent(content)
	if m.group < len(offsets) {
		top := offsets[m.group]
		if top < m.viewport.YOffset || top >= m.viewport.YOffset+m.viewport.Height {
			m.viewport.SetYOffset(top)
		}
	}
}

// errorText renders err as a one-line message for the status area.
func errorText(err error) string {
	var pe *pderrors.Error
	if errors.As(err, &pe) {
		if pe.Cause != nil {
			return pe.Message + ": " + pe.Cause.Error()
		}
		return pe.Message
	}
	return err.Error()
}
