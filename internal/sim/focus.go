package sim

import (
	"context"
	"sync"
	"time"

	"github.com/rileyhilliard/plantdash/internal/catalog"
)

// Focus is the detail view of one widget. It owns its buffer and a forked
// generator, so dashboard ticks never change what it shows. While its
// window is LIVE it advances on its own ticks; any other window freezes
// it on a synthesized series.
type Focus struct {
	mu     sync.Mutex
	dash   *Dashboard
	widget catalog.WidgetConfig
	metric *catalog.MetricDefinition
	gen    *Generator
	synth  *Synthesizer
	buf    *Buffer
	window Window
	now    func() time.Time

	// liveCap bounds the buffer while LIVE; synthesized series keep every point
	liveCap int

	// clock state; ctx is set once Start is called
	ctx    context.Context
	period time.Duration
	onTick func(time.Time)
	handle *Handle
}

// NewFocus opens a focused view on w, seeded for window.
func NewFocus(d *Dashboard, w catalog.WidgetConfig, window Window) (*Focus, error) {
	gen := d.forkGenerator()
	f := &Focus{
		dash:   d,
		widget: w,
		gen:    gen,
		synth:  NewSynthesizer(gen, d.opts.SynthPoints, d.opts.Now),
		now:    d.opts.Now,

		liveCap: d.opts.FocusHistorySize,
	}
	if m, ok := d.cat.Metric(w.LinkedMetricID); ok {
		f.metric = m
	}

	pts, err := f.load(window)
	if err != nil {
		return nil, err
	}
	f.replace(window, pts)
	return f, nil
}

// load produces the series for window without touching the buffer.
func (f *Focus) load(window Window) ([]Point, error) {
	if window.IsCustom() {
		if _, err := CustomWindow(window.Start, window.End); err != nil {
			return nil, err
		}
	}
	if f.metric == nil {
		return nil, nil
	}
	if window.Timeframe.IsLive() {
		return f.dash.History(f.metric.ID), nil
	}
	return f.synth.Synthesize(f.metric, window)
}

// replace swaps in a fresh buffer holding pts. Must hold f.mu after construction.
func (f *Focus) replace(w Window, pts []Point) {
	size := f.liveCap
	if !w.Timeframe.IsLive() {
		size = max(size, len(pts))
	}
	f.buf = NewBuffer(size)
	f.buf.Reset(pts)
	f.window = w
}

// Widget returns the focused widget.
func (f *Focus) Widget() catalog.WidgetConfig {
	return f.widget
}

// Metric returns the linked metric, or nil when unresolved.
func (f *Focus) Metric() *catalog.MetricDefinition {
	return f.metric
}

// Window returns the active window.
func (f *Focus) Window() Window {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.window
}

// Points returns a copy of the focused buffer.
func (f *Focus) Points() []Point {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buf.Points()
}

// Stats summarizes the focused buffer.
func (f *Focus) Stats() Stats {
	return Summarize(f.Points())
}

// Cap returns the focused buffer capacity.
func (f *Focus) Cap() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buf.Cap()
}

// Tick appends one point while the window is LIVE. It reports whether a
// point was added.
func (f *Focus) Tick(now time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.window.Timeframe.IsLive() || f.metric == nil {
		return false
	}
	var prev *float64
	if last, ok := f.buf.Last(); ok {
		prev = &last.Value
	}
	v := f.gen.Next(f.metric, prev)
	f.buf.Push(Point{Value: v, Timestamp: now.UnixMilli()})
	return true
}

// SetTimeframe switches to a preset. LIVE reseeds from the dashboard and
// resumes ticking; any other preset stops ticking and synthesizes.
func (f *Focus) SetTimeframe(tf Timeframe) error {
	return f.setWindow(PresetWindow(tf))
}

// SetCustomRange switches to an explicit range. An invalid range returns
// ErrInvalidRange and leaves the view unchanged.
func (f *Focus) SetCustomRange(start, end time.Time) error {
	w, err := CustomWindow(start, end)
	if err != nil {
		return err
	}
	return f.setWindow(w)
}

func (f *Focus) setWindow(w Window) error {
	f.mu.Lock()
	pts, err := f.load(w)
	if err != nil {
		f.mu.Unlock()
		return err
	}
	f.replace(w, pts)
	f.mu.Unlock()

	if w.Timeframe.IsLive() {
		f.resume()
	} else {
		f.stopClock()
	}
	return nil
}

// Start ticks the view every period while it is LIVE. Switching back to
// LIVE later resumes with the same period. A period <= 0 uses the
// dashboard interval. onTick, if set, runs on the clock goroutine after
// each point is added and must not block.
func (f *Focus) Start(ctx context.Context, period time.Duration, onTick func(time.Time)) {
	if period <= 0 {
		period = f.dash.opts.Interval
	}
	f.mu.Lock()
	f.ctx = ctx
	f.period = period
	f.onTick = onTick
	f.mu.Unlock()
	f.resume()
}

// Ticking reports whether the view's own clock is running.
func (f *Focus) Ticking() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handle != nil
}

func (f *Focus) resume() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ctx == nil || f.handle != nil || !f.window.Timeframe.IsLive() {
		return
	}
	notify := f.onTick
	f.handle = Start(f.ctx, f.period, func(now time.Time) {
		if f.Tick(now) && notify != nil {
			notify(now)
		}
	})
}

func (f *Focus) stopClock() {
	f.mu.Lock()
	h := f.handle
	f.handle = nil
	f.mu.Unlock()

	// outside the lock: an in-flight Tick needs f.mu to finish
	h.Stop()
}

// Close stops the view's clock. The view keeps its data but never ticks again.
func (f *Focus) Close() {
	f.mu.Lock()
	f.ctx = nil
	f.mu.Unlock()
	f.stopClock()
}
