package config

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/plantdash/internal/errors"
)

const (
	// MinInterval is the fastest allowed tick period.
	MinInterval = 100 * time.Millisecond
	// MinHistorySize and MaxHistorySize bound buffer capacities.
	MinHistorySize = 10
	MaxHistorySize = 500
	// MaxSynthPoints bounds synthesized series length.
	MaxSynthPoints = 1000
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but plantdash only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade plantdash or lower the version field.")
	}

	if err := validateSimulation(cfg.Simulation); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'simulation' section in your .plantdash.yaml.")
	}

	if err := validateServer(cfg.Server); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'server' section in your .plantdash.yaml.")
	}

	if err := validateOutput(cfg.Output); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'output' section in your .plantdash.yaml.")
	}

	return nil
}

// validateSimulation checks simulation timing, buffer sizes and coefficients.
func validateSimulation(s SimulationConfig) error {
	if s.Interval < MinInterval {
		return fmt.Errorf("simulation.interval %s is too fast - use at least %s", s.Interval, MinInterval)
	}
	if s.FocusInterval != 0 && s.FocusInterval < MinInterval {
		return fmt.Errorf("simulation.focus_interval %s is too fast - use at least %s, or 0 to follow interval", s.FocusInterval, MinInterval)
	}
	if s.HistorySize < MinHistorySize || s.HistorySize > MaxHistorySize {
		return fmt.Errorf("simulation.history_size %d is out of range - use %d to %d", s.HistorySize, MinHistorySize, MaxHistorySize)
	}
	if s.FocusHistorySize < MinHistorySize || s.FocusHistorySize > MaxHistorySize {
		return fmt.Errorf("simulation.focus_history_size %d is out of range - use %d to %d", s.FocusHistorySize, MinHistorySize, MaxHistorySize)
	}
	if s.SeedPoints < 1 || s.SeedPoints > s.HistorySize {
		return fmt.Errorf("simulation.seed_points %d must be between 1 and history_size (%d)", s.SeedPoints, s.HistorySize)
	}
	if s.SynthPoints < 2 || s.SynthPoints > MaxSynthPoints {
		return fmt.Errorf("simulation.synth_points %d is out of range - use 2 to %d", s.SynthPoints, MaxSynthPoints)
	}
	if s.DriftFactor < 0 || s.DriftFactor > 1 {
		return fmt.Errorf("simulation.drift_factor %g must be between 0 and 1", s.DriftFactor)
	}
	if s.StatusFlipProbability < 0 || s.StatusFlipProbability > 1 {
		return fmt.Errorf("simulation.status_flip_probability %g must be between 0 and 1", s.StatusFlipProbability)
	}
	return nil
}

// validateServer checks serve-mode settings.
func validateServer(s ServerConfig) error {
	if s.Listen == "" {
		return fmt.Errorf("server.listen can't be empty - try ':9464'")
	}
	if s.ReadTimeout < 0 || s.WriteTimeout < 0 {
		return fmt.Errorf("server timeouts can't be negative")
	}
	return nil
}

// validateOutput checks output formatting settings.
func validateOutput(out OutputConfig) error {
	validColors := map[string]bool{"auto": true, "always": true, "never": true, "": true}
	if !validColors[out.Color] {
		return fmt.Errorf("output.color '%s' isn't valid - use 'auto', 'always', or 'never'", out.Color)
	}
	return nil
}
