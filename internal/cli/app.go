package cli

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/plantdash/internal/catalog"
	"github.com/rileyhilliard/plantdash/internal/config"
	pderrors "github.com/rileyhilliard/plantdash/internal/errors"
	"github.com/rileyhilliard/plantdash/internal/logger"
	"github.com/rileyhilliard/plantdash/internal/sim"
	"github.com/rileyhilliard/plantdash/internal/ui"
	"github.com/spf13/cobra"
)

// app is the resolved runtime input shared by every command.
type app struct {
	cfg     *config.Config
	cfgPath string
	cat     *catalog.Catalog
}

// overrides carries flag values that win over the config file.
type overrides struct {
	Catalog  string
	Seed     *int64
	Interval string
}

// globalOverrides reads the persistent flags the user actually set.
func globalOverrides(cmd *cobra.Command) overrides {
	o := overrides{Catalog: catalogFlag, Interval: intervalFlag}
	if f := cmd.Flags().Lookup("seed"); f != nil && f.Changed {
		seed := seedFlag
		o.Seed = &seed
	}
	return o
}

// loadApp loads config and catalog for cmd.
func loadApp(cmd *cobra.Command) (*app, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}
	return newApp(cfg, path, globalOverrides(cmd))
}

// newApp applies overrides to cfg, validates it and loads the catalog.
func newApp(cfg *config.Config, path string, o overrides) (*app, error) {
	if o.Catalog != "" {
		cfg.Catalog = config.ExpandTilde(o.Catalog)
	}
	if o.Seed != nil {
		cfg.Simulation.Seed = *o.Seed
	}
	if o.Interval != "" {
		d, err := time.ParseDuration(o.Interval)
		if err != nil {
			return nil, pderrors.WrapWithCode(err, pderrors.ErrConfig,
				fmt.Sprintf("'%s' doesn't look like a valid interval", o.Interval),
				"Try something like 2s, 500ms, or 1m.")
		}
		cfg.Simulation.Interval = d
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	applyColor(cfg.Output.Color)

	cat := catalog.Default()
	if cfg.Catalog != "" {
		loaded, err := catalog.Load(cfg.Catalog)
		if err != nil {
			return nil, err
		}
		cat = loaded
	}

	return &app{cfg: cfg, cfgPath: path, cat: cat}, nil
}

func applyColor(mode string) {
	switch mode {
	case "never":
		ui.DisableColors()
	case "always":
		lipgloss.SetColorProfile(termenv.ANSI256)
	}
}

// simOptions maps the simulation config onto engine options.
func (a *app) simOptions(log logger.Logger) sim.Options {
	s := a.cfg.Simulation
	opts := sim.DefaultOptions()
	opts.HistorySize = s.HistorySize
	opts.FocusHistorySize = s.FocusHistorySize
	opts.SeedPoints = s.SeedPoints
	opts.SynthPoints = s.SynthPoints
	opts.Interval = s.Interval
	opts.Generator = sim.GeneratorConfig{
		DriftFactor:           s.DriftFactor,
		StatusFlipProbability: s.StatusFlipProbability,
	}
	if s.Seed != 0 {
		opts.Rand = rand.New(rand.NewSource(s.Seed))
	}
	opts.Logger = log
	return opts
}

// newDashboard builds a seeded dashboard model.
func (a *app) newDashboard(log logger.Logger) *sim.Dashboard {
	return sim.NewDashboard(a.cat, a.simOptions(log))
}

// catalogSource describes where the catalog came from.
func (a *app) catalogSource() string {
	if a.cfg.Catalog == "" {
		return "built-in catalog"
	}
	return a.cfg.Catalog
}
