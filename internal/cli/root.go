package cli

import (
	"fmt"
	"os"
	"strings"

	pderrors "github.com/rileyhilliard/plantdash/internal/errors"
	"github.com/rileyhilliard/plantdash/internal/logger"
	"github.com/rileyhilliard/plantdash/internal/ui"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile      string
	catalogFlag  string
	seedFlag     int64
	intervalFlag string
	noColor      bool
	debugMode    bool
)

var rootCmd = &cobra.Command{
	Use:   "plantdash",
	Short: "Simulated plant-floor monitoring dashboard",
	Long: `plantdash renders a live industrial monitoring dashboard driven by
synthetic data. A catalog describes metrics (value ranges, units) and
widgets (gauges, tanks, status cards, charts) grouped into sections.

Run without a subcommand to open the interactive dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			ui.DisableColors()
		}
		if debugMode {
			logger.SetDebug(true)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .plantdash.yaml, searched upward)")
	pf.StringVar(&catalogFlag, "catalog", "", "catalog document (default: built-in)")
	pf.Int64Var(&seedFlag, "seed", 0, "random seed for reproducible runs (0 = time-seeded)")
	pf.StringVar(&intervalFlag, "interval", "", "tick interval (e.g., 2s, 500ms)")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")
	pf.BoolVar(&debugMode, "debug", false, "enable debug logging")
}

// Execute runs the root command and exits with the right status code.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	if code, ok := pderrors.GetExitCode(err); ok {
		os.Exit(code)
	}

	if isUnknownCommandError(err) {
		if name := extractUnknownCommand(err); name != "" {
			fmt.Fprintf(os.Stderr, "%s Unknown command '%s'\n\nRun 'plantdash --help' to see available commands.\n", ui.SymbolFail, name)
		} else {
			fmt.Fprintf(os.Stderr, "%s %v\n\nRun 'plantdash --help' for usage.\n", ui.SymbolFail, err)
		}
		os.Exit(2)
	}

	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// isUnknownCommandError reports whether cobra rejected the command line.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "unknown command") || strings.Contains(msg, "unknown flag")
}

// extractUnknownCommand pulls the quoted command name out of cobra's error.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
