package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rileyhilliard/plantdash/internal/catalog"
	pderrors "github.com/rileyhilliard/plantdash/internal/errors"
	"github.com/rileyhilliard/plantdash/internal/logger"
)

// DefaultSeedPoints is how many history points each metric starts with.
const DefaultSeedPoints = 10

// Options configures a Dashboard.
type Options struct {
	HistorySize      int
	FocusHistorySize int
	SeedPoints       int
	SynthPoints      int
	// Interval spaces the seeded history and is the default Run period.
	Interval  time.Duration
	Generator GeneratorConfig
	// Rand drives every random draw. Nil seeds from the clock.
	Rand   Rand
	Now    func() time.Time
	Logger logger.Logger
}

// DefaultOptions returns the standard simulation settings.
func DefaultOptions() Options {
	return Options{
		HistorySize:      DefaultHistorySize,
		FocusHistorySize: DefaultFocusHistorySize,
		SeedPoints:       DefaultSeedPoints,
		SynthPoints:      DefaultSynthPoints,
		Interval:         DefaultInterval,
		Generator:        DefaultGeneratorConfig(),
		Now:              time.Now,
		Logger:           logger.Noop(),
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.HistorySize <= 0 {
		o.HistorySize = def.HistorySize
	}
	if o.FocusHistorySize <= 0 {
		o.FocusHistorySize = def.FocusHistorySize
	}
	// the live value is always the newest history point
	if o.SeedPoints < 1 {
		o.SeedPoints = 1
	}
	if o.SynthPoints <= 1 {
		o.SynthPoints = def.SynthPoints
	}
	if o.Interval <= 0 {
		o.Interval = def.Interval
	}
	if o.Now == nil {
		o.Now = def.Now
	}
	if o.Logger == nil {
		o.Logger = def.Logger
	}
	return o
}

// Snapshot is the consolidated state published after each tick.
type Snapshot struct {
	Tick     uint64             `json:"tick"`
	Time     time.Time          `json:"time"`
	Values   map[string]float64 `json:"values"`
	TodayMax map[string]float64 `json:"today_max"`
}

// WidgetData is everything a renderer needs for one widget.
type WidgetData struct {
	Widget   catalog.WidgetConfig      `json:"widget"`
	Metric   *catalog.MetricDefinition `json:"metric,omitempty"`
	Resolved bool                      `json:"resolved"`
	Value    float64                   `json:"value"`
	History  []Point                   `json:"history"`
	Range    catalog.Range             `json:"range"`
	TodayMax float64                   `json:"today_max"`
}

// Format renders v with the linked metric's precision (2 decimals if unresolved).
func (wd WidgetData) Format(v float64) string {
	if wd.Metric == nil {
		return catalog.FormatNumber(v, 2)
	}
	return wd.Metric.Format(v)
}

// Dashboard owns the live values and rolling history for every catalog
// metric. Only Seed and Tick mutate it; reads are safe from any goroutine.
type Dashboard struct {
	mu       sync.RWMutex
	cat      *catalog.Catalog
	opts     Options
	gen      *Generator
	live     map[string]float64
	history  *History
	todayMax map[string]float64
	day      int
	ticks    uint64
	lastTick time.Time

	synthMu sync.Mutex
	synth   *Synthesizer

	subsMu  sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int

	log logger.Logger
}

// NewDashboard builds a model over cat and seeds it. Widgets whose metric
// is missing from the catalog are reported once as warnings.
func NewDashboard(cat *catalog.Catalog, opts Options) *Dashboard {
	opts = opts.withDefaults()
	gen := NewGenerator(opts.Rand, opts.Generator)

	d := &Dashboard{
		cat:      cat,
		opts:     opts,
		gen:      gen,
		live:     make(map[string]float64),
		history:  NewHistory(opts.HistorySize),
		todayMax: make(map[string]float64),
		synth:    NewSynthesizer(gen.Fork(), opts.SynthPoints, opts.Now),
		subs:     make(map[int]func(Snapshot)),
		log:      opts.Logger,
	}

	for _, w := range cat.Unresolved() {
		d.log.Warn("widget %q links to unknown metric %q; showing 0 on [0, 100]", w.ID, w.LinkedMetricID)
	}

	d.Seed(opts.Now())
	return d
}

// Catalog returns the catalog the model was built from.
func (d *Dashboard) Catalog() *catalog.Catalog {
	return d.cat
}

// Options returns the effective options.
func (d *Dashboard) Options() Options {
	return d.opts
}

// Seed resets every metric to a fresh uniform value preceded by a short
// random walk. The live value equals the newest seeded point.
func (d *Dashboard) Seed(now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.history.ClearAll()
	d.live = make(map[string]float64)
	d.todayMax = make(map[string]float64)
	d.day = dayKey(now)

	n := d.opts.SeedPoints
	step := d.opts.Interval.Milliseconds()
	for _, id := range d.cat.MetricIDs() {
		def := d.cat.Metrics[id]
		v := d.gen.Next(def, nil)

		pts := make([]Point, 0, n)
		for i := 0; i < n; i++ {
			if i > 0 {
				v = d.gen.Next(def, &v)
			}
			pts = append(pts, Point{Value: v, Timestamp: now.UnixMilli() - int64(n-1-i)*step})
		}
		d.history.Replace(id, pts)
		d.live[id] = v
		d.trackMax(id, v)
	}
	d.log.Debug("seeded %d metrics with %d points", len(d.live), n)
}

// Tick advances every metric once and publishes a snapshot to subscribers.
// An empty catalog only advances the tick counter.
func (d *Dashboard) Tick(now time.Time) Snapshot {
	d.mu.Lock()
	if day := dayKey(now); day != d.day {
		d.day = day
		d.todayMax = make(map[string]float64)
	}

	ts := now.UnixMilli()
	for _, id := range d.cat.MetricIDs() {
		def := d.cat.Metrics[id]
		var prev *float64
		if v, ok := d.live[id]; ok {
			prev = &v
		}
		v := d.gen.Next(def, prev)
		d.live[id] = v
		d.history.Push(id, Point{Value: v, Timestamp: ts})
		d.trackMax(id, v)
	}
	d.ticks++
	d.lastTick = now
	snap := d.snapshotLocked()
	d.mu.Unlock()

	d.publish(snap)
	return snap
}

// trackMax records v as today's max when higher. Must hold d.mu.
func (d *Dashboard) trackMax(id string, v float64) {
	if cur, ok := d.todayMax[id]; !ok || v > cur {
		d.todayMax[id] = v
	}
}

func dayKey(t time.Time) int {
	y, m, day := t.Date()
	return y*10000 + int(m)*100 + day
}

// Run ticks the model every period until ctx is cancelled or the handle
// is stopped. A period <= 0 uses the configured interval.
func (d *Dashboard) Run(ctx context.Context, period time.Duration) *Handle {
	if period <= 0 {
		period = d.opts.Interval
	}
	return Start(ctx, period, func(now time.Time) {
		d.Tick(now)
	})
}

// Subscribe registers fn to receive every tick's snapshot. fn runs on the
// ticking goroutine and must not block. The returned func unsubscribes.
func (d *Dashboard) Subscribe(fn func(Snapshot)) func() {
	d.subsMu.Lock()
	defer d.subsMu.Unlock()

	id := d.nextSub
	d.nextSub++
	d.subs[id] = fn

	return func() {
		d.subsMu.Lock()
		defer d.subsMu.Unlock()
		delete(d.subs, id)
	}
}

func (d *Dashboard) publish(snap Snapshot) {
	d.subsMu.Lock()
	fns := make([]func(Snapshot), 0, len(d.subs))
	for _, fn := range d.subs {
		fns = append(fns, fn)
	}
	d.subsMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Snapshot returns the current state.
func (d *Dashboard) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snapshotLocked()
}

func (d *Dashboard) snapshotLocked() Snapshot {
	snap := Snapshot{
		Tick:     d.ticks,
		Time:     d.lastTick,
		Values:   make(map[string]float64, len(d.live)),
		TodayMax: make(map[string]float64, len(d.todayMax)),
	}
	for id, v := range d.live {
		snap.Values[id] = v
	}
	for id, v := range d.todayMax {
		snap.TodayMax[id] = v
	}
	return snap
}

// Ticks returns how many ticks have run and when the last one happened.
func (d *Dashboard) Ticks() (uint64, time.Time) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.ticks, d.lastTick
}

// CurrentValue returns a metric's live value, or 0 if unknown.
func (d *Dashboard) CurrentValue(id string) float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.live[id]
}

// History returns a copy of a metric's buffer, or an empty slice.
func (d *Dashboard) History(id string) []Point {
	return d.history.Get(id)
}

// TodayMax returns the highest value seen for a metric since local midnight.
func (d *Dashboard) TodayMax(id string) (float64, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.todayMax[id]
	return v, ok
}

// DisplayRange resolves a widget's scale bound by bound: the widget's
// display override, then the linked metric's range, then [0, 100].
func (d *Dashboard) DisplayRange(w catalog.WidgetConfig) catalog.Range {
	r := catalog.DefaultDisplayRange
	if m, ok := d.cat.Metric(w.LinkedMetricID); ok {
		r = m.ValueRange
	}
	if w.DisplayMin != nil {
		r.Min = *w.DisplayMin
	}
	if w.DisplayMax != nil {
		r.Max = *w.DisplayMax
	}
	return r
}

// Resolve gathers the value, history and range for a widget.
// Unresolved widgets get value 0, no history, and the fallback range.
func (d *Dashboard) Resolve(w catalog.WidgetConfig) WidgetData {
	wd := WidgetData{
		Widget:  w,
		Range:   d.DisplayRange(w),
		History: []Point{},
	}
	m, ok := d.cat.Metric(w.LinkedMetricID)
	if !ok {
		return wd
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	wd.Metric = m
	wd.Resolved = true
	wd.Value = d.live[m.ID]
	wd.History = d.history.Get(m.ID)
	wd.TodayMax = d.todayMax[m.ID]
	return wd
}

// ResolveID is Resolve by widget id.
func (d *Dashboard) ResolveID(widgetID string) (WidgetData, error) {
	w, ok := d.cat.Widget(widgetID)
	if !ok {
		return WidgetData{}, unknownWidget(widgetID)
	}
	return d.Resolve(w), nil
}

// Synthesize builds a series for a metric over w without touching the
// live buffers.
func (d *Dashboard) Synthesize(metricID string, w Window) ([]Point, error) {
	m, err := d.Metric(metricID)
	if err != nil {
		return nil, err
	}

	d.synthMu.Lock()
	defer d.synthMu.Unlock()
	return d.synth.Synthesize(m, w)
}

// Metric looks up a metric definition, failing with ErrUnknownMetric.
func (d *Dashboard) Metric(id string) (*catalog.MetricDefinition, error) {
	m, ok := d.cat.Metric(id)
	if !ok {
		return nil, pderrors.WrapWithCode(
			fmt.Errorf("%w: %q", ErrUnknownMetric, id),
			pderrors.ErrCatalog,
			fmt.Sprintf("Metric '%s' is not in the catalog", id),
			"Run 'plantdash catalog' to list metric ids")
	}
	return m, nil
}

// Focus opens an isolated view of one widget's metric.
func (d *Dashboard) Focus(widgetID string, tf Timeframe) (*Focus, error) {
	w, ok := d.cat.Widget(widgetID)
	if !ok {
		return nil, unknownWidget(widgetID)
	}
	return NewFocus(d, w, PresetWindow(tf))
}

// forkGenerator derives an independent generator from the model's source.
func (d *Dashboard) forkGenerator() *Generator {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gen.Fork()
}

func unknownWidget(id string) error {
	return pderrors.WrapWithCode(
		fmt.Errorf("%w: %q", ErrUnknownWidget, id),
		pderrors.ErrCatalog,
		fmt.Sprintf("Widget '%s' is not in the catalog", id),
		"Run 'plantdash catalog' to list widget ids")
}
