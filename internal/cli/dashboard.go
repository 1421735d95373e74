package cli

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/plantdash/internal/dashboard"
	pderrors "github.com/rileyhilliard/plantdash/internal/errors"
	"github.com/rileyhilliard/plantdash/internal/logger"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// defaultLogFile receives TUI logs when log_file is unset.
const defaultLogFile = "plantdash.log"

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive dashboard",
	Long: `Open the full-screen dashboard. Every tick advances each metric by a
bounded random walk and redraws the widgets.

Keyboard shortcuts:
  arrows / hjkl  Move between widgets
  tab            Jump to the next group
  enter          Focus the selected widget
  1-6            Timeframe (LIVE, 1H, 8H, 24H, 7D, 30D) in the focused view
  c              Custom range in the focused view
  esc            Back
  ?              Help
  q / Ctrl+C     Quit

Logs go to plantdash.log in the temp directory, or to log_file.

Examples:
  plantdash
  plantdash dashboard --interval 1s --seed 42
  plantdash dashboard --catalog ./plant.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd)
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func dashboardCommand(cmd *cobra.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return pderrors.New(pderrors.ErrExec,
			"The dashboard needs an interactive terminal",
			"Use 'plantdash serve' to run headless, or 'plantdash history' for plain output.")
	}

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	logPath := a.cfg.LogFile
	if logPath == "" {
		logPath = filepath.Join(os.TempDir(), defaultLogFile)
	}
	f, err := tea.LogToFile(logPath, "plantdash")
	if err != nil {
		return pderrors.WrapWithCode(err, pderrors.ErrConfig,
			"Cannot open log file "+logPath,
			"Set log_file in .plantdash.yaml to a writable path.")
	}
	defer f.Close()

	log := logger.NewWriterLogger("dashboard", f)
	log.Info("starting dashboard with %s (%d metrics)", a.catalogSource(), len(a.cat.Metrics))

	// cancelling stops any focused-view clock still running on exit
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	d := a.newDashboard(log)
	model := dashboard.NewModel(d, dashboard.Options{
		Interval:      a.cfg.Simulation.Interval,
		FocusInterval: a.cfg.Simulation.EffectiveFocusInterval(),
		Location:      time.Local,
		Logger:        log,
		Context:       ctx,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return pderrors.Wrap(err, "Dashboard stopped unexpectedly")
	}
	return nil
}
