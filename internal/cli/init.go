package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/plantdash/internal/catalog"
	"github.com/rileyhilliard/plantdash/internal/config"
	pderrors "github.com/rileyhilliard/plantdash/internal/errors"
	"github.com/rileyhilliard/plantdash/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// starterCatalogFile is written next to the config by --with-catalog.
const starterCatalogFile = "catalog.yaml"

var (
	initForce       bool
	initWithCatalog bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .plantdash.yaml configuration",
	Long: `Write a .plantdash.yaml with the default simulation settings in the
current directory. With --with-catalog, also write the built-in catalog to
catalog.yaml and point the config at it so it can be edited.

Examples:
  plantdash init
  plantdash init --with-catalog
  plantdash init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(cmd.OutOrStdout(), InitOptions{
			Dir:            ".",
			Overwrite:      initForce,
			WithCatalog:    initWithCatalog,
			NonInteractive: !term.IsTerminal(int(os.Stdin.Fd())),
		})
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing files")
	initCmd.Flags().BoolVar(&initWithCatalog, "with-catalog", false, "also write an editable copy of the built-in catalog")
	rootCmd.AddCommand(initCmd)
}

// InitOptions holds options for the init command.
type InitOptions struct {
	Dir            string // Directory to write into
	Overwrite      bool   // Overwrite existing files without asking
	WithCatalog    bool   // Also write catalog.yaml
	NonInteractive bool   // Never prompt
}

// starterConfig is the document written by init. Durations are strings so
// the file reads the way users write it.
type starterConfig struct {
	Version    int    `yaml:"version"`
	Catalog    string `yaml:"catalog,omitempty"`
	Simulation struct {
		Interval              string  `yaml:"interval"`
		HistorySize           int     `yaml:"history_size"`
		FocusHistorySize      int     `yaml:"focus_history_size"`
		SeedPoints            int     `yaml:"seed_points"`
		SynthPoints           int     `yaml:"synth_points"`
		DriftFactor           float64 `yaml:"drift_factor"`
		StatusFlipProbability float64 `yaml:"status_flip_probability"`
		Seed                  int64   `yaml:"seed"`
	} `yaml:"simulation"`
	Server struct {
		Listen       string `yaml:"listen"`
		ReadTimeout  string `yaml:"read_timeout"`
		WriteTimeout string `yaml:"write_timeout"`
	} `yaml:"server"`
	Output struct {
		Color string `yaml:"color"`
	} `yaml:"output"`
}

func newStarterConfig(withCatalog bool) starterConfig {
	def := config.DefaultConfig()
	var sc starterConfig
	sc.Version = def.Version
	if withCatalog {
		sc.Catalog = starterCatalogFile
	}
	sc.Simulation.Interval = def.Simulation.Interval.String()
	sc.Simulation.HistorySize = def.Simulation.HistorySize
	sc.Simulation.FocusHistorySize = def.Simulation.FocusHistorySize
	sc.Simulation.SeedPoints = def.Simulation.SeedPoints
	sc.Simulation.SynthPoints = def.Simulation.SynthPoints
	sc.Simulation.DriftFactor = def.Simulation.DriftFactor
	sc.Simulation.StatusFlipProbability = def.Simulation.StatusFlipProbability
	sc.Server.Listen = def.Server.Listen
	sc.Server.ReadTimeout = def.Server.ReadTimeout.String()
	sc.Server.WriteTimeout = def.Server.WriteTimeout.String()
	sc.Output.Color = def.Output.Color
	return sc
}

func initCommand(w io.Writer, opts InitOptions) error {
	configPath := filepath.Join(opts.Dir, config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return pderrors.New(pderrors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return pderrors.WrapWithCode(err, pderrors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
	}

	data, err := yaml.Marshal(newStarterConfig(opts.WithCatalog))
	if err != nil {
		return pderrors.WrapWithCode(err, pderrors.ErrConfig, "Failed to encode config", "")
	}
	header := "# plantdash configuration. Environment overrides use PLANTDASH_<SECTION>_<KEY>.\n"
	if err := os.WriteFile(configPath, append([]byte(header), data...), 0o644); err != nil {
		return pderrors.WrapWithCode(err, pderrors.ErrConfig,
			"Failed to write "+configPath,
			"Check directory permissions")
	}
	fmt.Fprintf(w, "%s Wrote %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), configPath)

	if !opts.WithCatalog {
		return nil
	}

	catalogPath := filepath.Join(opts.Dir, starterCatalogFile)
	if _, err := os.Stat(catalogPath); err == nil && !opts.Overwrite {
		fmt.Fprintf(w, "%s Kept existing %s\n", ui.WarningStyle().Render(ui.SymbolWarning), catalogPath)
		return nil
	}
	if err := os.WriteFile(catalogPath, catalog.DefaultDocument(), 0o644); err != nil {
		return pderrors.WrapWithCode(err, pderrors.ErrConfig,
			"Failed to write "+catalogPath,
			"Check directory permissions")
	}
	fmt.Fprintf(w, "%s Wrote %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), catalogPath)
	return nil
}
