package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/plantdash/internal/catalog"
	"github.com/rileyhilliard/plantdash/internal/dashboard"
	pderrors "github.com/rileyhilliard/plantdash/internal/errors"
	"github.com/rileyhilliard/plantdash/internal/logger"
	"github.com/rileyhilliard/plantdash/internal/sim"
	"github.com/rileyhilliard/plantdash/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// historySparkWidth is the sparkline width in plain output.
const historySparkWidth = 50

var (
	historyWindow string
	historyStart  string
	historyEnd    string
	historyJSON   bool
)

var historyCmd = &cobra.Command{
	Use:   "history [metric]",
	Short: "Print a metric's series for a timeframe or range",
	Long: `Print the series a focused widget would show. LIVE returns the seeded
rolling buffer; presets (1H, 8H, 24H, 7D, 30D) and custom ranges return a
synthesized series ending at now or at --end.

Without a metric, an interactive picker opens on a terminal.

Examples:
  plantdash history "Acid Flow Meter" --window 24H
  plantdash history "Acid Flow Meter" --start 2024-05-01T08:00 --end 2024-05-01T20:00
  plantdash history "Acid Flow Meter" --window 7D --json
  plantdash history`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		a, err := loadApp(cmd)
		if err != nil {
			return finish(w, historyJSON, nil, err)
		}

		req := historyRequest{Window: historyWindow, Start: historyStart, End: historyEnd}
		if len(args) == 1 {
			req.Metric = args[0]
		}

		if req.Metric == "" {
			if historyJSON || !term.IsTerminal(int(os.Stdin.Fd())) {
				return finish(w, historyJSON, nil, pderrors.New(pderrors.ErrCatalog,
					"No metric given",
					"Pass a metric id; 'plantdash catalog' lists them."))
			}
			if err := pickHistory(a.cat, &req); err != nil {
				return err
			}
		}

		resp, err := runHistory(a.newDashboard(logger.Noop()), req, time.Local)
		if err != nil {
			return finish(w, historyJSON, nil, err)
		}
		if historyJSON {
			return WriteJSONSuccess(w, resp)
		}
		printHistory(w, a.cat, resp)
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyWindow, "window", "", "timeframe: LIVE, 1H, 8H, 24H, 7D, 30D (default LIVE)")
	historyCmd.Flags().StringVar(&historyStart, "start", "", "custom range start (2006-01-02T15:04)")
	historyCmd.Flags().StringVar(&historyEnd, "end", "", "custom range end (2006-01-02T15:04)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(historyCmd)
}

type historyRequest struct {
	Metric string
	Window string
	Start  string
	End    string
}

// HistoryResult is the --json payload of 'plantdash history'.
type HistoryResult struct {
	Metric string      `json:"metric"`
	Unit   string      `json:"unit"`
	Window string      `json:"window"`
	Points []sim.Point `json:"points"`
	Stats  sim.Stats   `json:"stats"`
}

func runHistory(d *sim.Dashboard, req historyRequest, loc *time.Location) (HistoryResult, error) {
	m, err := d.Metric(req.Metric)
	if err != nil {
		return HistoryResult{}, err
	}

	window, err := sim.ParseWindow(req.Window, req.Start, req.End, loc)
	if err != nil {
		return HistoryResult{}, err
	}

	var pts []sim.Point
	if window.Timeframe.IsLive() {
		pts = d.History(m.ID)
	} else if pts, err = d.Synthesize(m.ID, window); err != nil {
		return HistoryResult{}, err
	}

	return HistoryResult{
		Metric: m.ID,
		Unit:   m.Unit,
		Window: window.String(),
		Points: pts,
		Stats:  sim.Summarize(pts),
	}, nil
}

// pickHistory asks for the metric and timeframe.
func pickHistory(cat *catalog.Catalog, req *historyRequest) error {
	metricOpts := make([]huh.Option[string], 0, len(cat.Metrics))
	for _, id := range cat.MetricIDs() {
		m := cat.Metrics[id]
		label := id
		if m.Unit != "" {
			label = fmt.Sprintf("%s (%s)", id, m.Unit)
		}
		metricOpts = append(metricOpts, huh.NewOption(label, id))
	}
	tfOpts := make([]huh.Option[string], 0, len(sim.Presets))
	for _, tf := range sim.Presets {
		tfOpts = append(tfOpts, huh.NewOption(tf.String(), tf.String()))
	}

	if req.Window == "" {
		req.Window = sim.Timeframe24H.String()
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Metric").
				Options(metricOpts...).
				Height(12).
				Value(&req.Metric),
			huh.NewSelect[string]().
				Title("Timeframe").
				Options(tfOpts...).
				Value(&req.Window),
		),
	)
	if err := form.Run(); err != nil {
		return pderrors.WrapWithCode(err, pderrors.ErrExec,
			"Failed to get user input",
			"Pass the metric as an argument instead.")
	}
	return nil
}

func printHistory(w io.Writer, cat *catalog.Catalog, res HistoryResult) {
	m, _ := cat.Metric(res.Metric)

	ui.PrintHeader(w, ui.HeaderInfo{Title: res.Metric, Tagline: fmt.Sprintf("%s · %d points", res.Window, res.Stats.Count)})
	if len(res.Points) == 0 {
		fmt.Fprintln(w, ui.MutedStyle().Render("no data"))
		return
	}

	values := make([]float64, len(res.Points))
	for i, p := range res.Points {
		values[i] = p.Value
	}
	fmt.Fprintln(w, dashboard.Sparkline(values, historySparkWidth, m.ValueRange))
	fmt.Fprintln(w)

	unit := ""
	if m.Unit != "" {
		unit = " " + m.Unit
	}
	rows := make([][]string, len(res.Points))
	for i, p := range res.Points {
		rows[i] = []string{
			time.UnixMilli(p.Timestamp).Format("2006-01-02 15:04:05"),
			m.Format(p.Value) + unit,
		}
	}
	fmt.Fprintln(w, ui.RenderSimpleTable([]ui.TableColumn{{Title: "Time"}, {Title: "Value"}}, rows))
	fmt.Fprintln(w)

	s := res.Stats
	fmt.Fprintf(w, "current %s  min %s  max %s  avg %s%s\n",
		m.Format(s.Current), m.Format(s.Min), m.Format(s.Max), m.Format(s.Avg), unit)
}
