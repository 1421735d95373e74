package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .plantdash.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Catalog is the path to a catalog document. Empty uses the built-in one.
	// Relative paths resolve against the config file's directory.
	Catalog string `yaml:"catalog" mapstructure:"catalog"`

	// LogFile receives log output while the dashboard owns the terminal.
	LogFile string `yaml:"log_file" mapstructure:"log_file"`

	Simulation SimulationConfig `yaml:"simulation" mapstructure:"simulation"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
}

// SimulationConfig controls the synthetic data engine.
type SimulationConfig struct {
	// Interval between dashboard ticks.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// FocusInterval between ticks of the detail view. Zero uses Interval.
	FocusInterval time.Duration `yaml:"focus_interval" mapstructure:"focus_interval"`

	// HistorySize is the dashboard buffer capacity per metric.
	HistorySize int `yaml:"history_size" mapstructure:"history_size"`

	// FocusHistorySize is the detail view buffer capacity.
	FocusHistorySize int `yaml:"focus_history_size" mapstructure:"focus_history_size"`

	// SeedPoints is how many points each metric starts with.
	SeedPoints int `yaml:"seed_points" mapstructure:"seed_points"`

	// SynthPoints is the length of every synthesized timeframe series.
	SynthPoints int `yaml:"synth_points" mapstructure:"synth_points"`

	// DriftFactor scales the per-tick random walk (0.1 = ±5% of range).
	DriftFactor float64 `yaml:"drift_factor" mapstructure:"drift_factor"`

	// StatusFlipProbability is the per-tick chance a status metric toggles.
	StatusFlipProbability float64 `yaml:"status_flip_probability" mapstructure:"status_flip_probability"`

	// Seed makes runs reproducible. Zero seeds from the clock.
	Seed int64 `yaml:"seed" mapstructure:"seed"`
}

// ServerConfig controls 'plantdash serve'.
type ServerConfig struct {
	Listen       string        `yaml:"listen" mapstructure:"listen"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Simulation: SimulationConfig{
			Interval:              2 * time.Second,
			HistorySize:           20,
			FocusHistorySize:      50,
			SeedPoints:            10,
			SynthPoints:           51,
			DriftFactor:           0.1,
			StatusFlipProbability: 0.05,
		},
		Server: ServerConfig{
			Listen:       ":9464",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}

// EffectiveFocusInterval returns FocusInterval, or Interval when unset.
func (s SimulationConfig) EffectiveFocusInterval() time.Duration {
	if s.FocusInterval > 0 {
		return s.FocusInterval
	}
	return s.Interval
}
