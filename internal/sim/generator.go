package sim

import (
	"math/rand"
	"time"

	"github.com/rileyhilliard/plantdash/internal/catalog"
)

const (
	// DefaultDriftFactor bounds each step to ±5% of the metric's range.
	DefaultDriftFactor = 0.1
	// DefaultStatusFlipProbability is the per-tick chance a status metric toggles.
	DefaultStatusFlipProbability = 0.05
)

// Rand is the random source a Generator draws from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Int63() int64
}

// GeneratorConfig holds the random-walk coefficients.
type GeneratorConfig struct {
	DriftFactor           float64
	StatusFlipProbability float64
}

// DefaultGeneratorConfig returns the standard coefficients.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		DriftFactor:           DefaultDriftFactor,
		StatusFlipProbability: DefaultStatusFlipProbability,
	}
}

// Generator produces bounded random-walk values for metrics.
// A Generator is not safe for concurrent use; each owner holds its own
// (see Fork).
type Generator struct {
	rng Rand
	cfg GeneratorConfig
}

// NewGenerator creates a generator. A nil rng is seeded from the clock.
func NewGenerator(rng Rand, cfg GeneratorConfig) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng, cfg: cfg}
}

// NewSeededGenerator creates a generator with a deterministic source.
func NewSeededGenerator(seed int64, cfg GeneratorConfig) *Generator {
	return NewGenerator(rand.New(rand.NewSource(seed)), cfg)
}

// Config returns the generator's coefficients.
func (g *Generator) Config() GeneratorConfig {
	return g.cfg
}

// Fork returns an independent generator seeded from this one.
// The focused view uses a fork so it never advances the dashboard's source.
func (g *Generator) Fork() *Generator {
	return NewSeededGenerator(g.rng.Int63(), g.cfg)
}

// Initial draws a uniform value in r.
func (g *Generator) Initial(r catalog.Range) float64 {
	if r.Constant() {
		return r.Min
	}
	return r.Min + g.rng.Float64()*r.Span()
}

// Step drifts prev by at most DriftFactor/2 of the range and clamps.
func (g *Generator) Step(r catalog.Range, prev float64) float64 {
	drift := (g.rng.Float64() - 0.5) * r.Span() * g.cfg.DriftFactor
	return r.Clamp(prev + drift)
}

// Next produces the metric's next value given its previous one (nil if none).
func (g *Generator) Next(def *catalog.MetricDefinition, prev *float64) float64 {
	r := def.ValueRange
	if def.IsStatus() {
		return g.status(r, prev)
	}
	if prev == nil {
		return g.Initial(r)
	}
	return g.Step(r, *prev)
}

// status toggles between 0 and 1 with the configured flip probability.
func (g *Generator) status(r catalog.Range, prev *float64) float64 {
	if r.Constant() {
		return r.Min
	}
	if prev == nil {
		if g.rng.Float64() < 0.5 {
			return r.Clamp(0)
		}
		return r.Clamp(1)
	}
	if g.rng.Float64() < g.cfg.StatusFlipProbability {
		if *prev > 0.5 {
			return r.Clamp(0)
		}
		return r.Clamp(1)
	}
	return r.Clamp(*prev)
}
