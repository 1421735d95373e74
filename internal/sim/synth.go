package sim

import (
	"math"
	"time"

	"github.com/rileyhilliard/plantdash/internal/catalog"
)

// DefaultSynthPoints is the number of points produced per synthesized window.
const DefaultSynthPoints = 51

// Synthesizer fabricates plausible history for a timeframe or custom range.
// It draws from its own Generator and is not safe for concurrent use.
type Synthesizer struct {
	gen    *Generator
	points int
	now    func() time.Time
}

// NewSynthesizer creates a synthesizer. points <= 1 falls back to
// DefaultSynthPoints; a nil now uses time.Now.
func NewSynthesizer(gen *Generator, points int, now func() time.Time) *Synthesizer {
	if points <= 1 {
		points = DefaultSynthPoints
	}
	if now == nil {
		now = time.Now
	}
	return &Synthesizer{gen: gen, points: points, now: now}
}

// Points returns the fixed series length.
func (s *Synthesizer) Points() int {
	return s.points
}

// Synthesize returns exactly Points() samples for def over w, ending at now
// for presets or at w.End for custom windows. Custom windows that do not
// end after they start fail with ErrInvalidRange.
func (s *Synthesizer) Synthesize(def *catalog.MetricDefinition, w Window) ([]Point, error) {
	stamps, err := s.timestamps(w)
	if err != nil {
		return nil, err
	}

	prev := seedValue(def)
	out := make([]Point, len(stamps))
	for i, ts := range stamps {
		v := s.gen.Next(def, &prev)
		out[i] = Point{Value: v, Timestamp: ts}
		prev = v
	}
	return out, nil
}

// timestamps lays out strictly increasing millisecond timestamps for w.
func (s *Synthesizer) timestamps(w Window) ([]int64, error) {
	n := s.points
	out := make([]int64, n)

	if w.IsCustom() {
		if _, err := CustomWindow(w.Start, w.End); err != nil {
			return nil, err
		}
		start, end := w.Start.UnixMilli(), w.End.UnixMilli()
		span := end - start
		for i := 0; i < n; i++ {
			out[i] = start + span*int64(i)/int64(n-1)
			if i > 0 && out[i] <= out[i-1] {
				out[i] = out[i-1] + 1
			}
		}
		return out, nil
	}

	step := w.Timeframe.Step()
	if step <= 0 {
		step = time.Minute
	}
	end := s.now().UnixMilli()
	for i := 0; i < n; i++ {
		out[i] = end - int64(n-1-i)*step.Milliseconds()
	}
	return out, nil
}

// seedValue is the walk's starting point: the range midpoint, rounded to
// 0/1 for status metrics.
func seedValue(def *catalog.MetricDefinition) float64 {
	mid := def.ValueRange.Midpoint()
	if def.IsStatus() {
		return def.ValueRange.Clamp(math.Round(mid))
	}
	return mid
}
