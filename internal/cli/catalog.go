package cli

import (
	"fmt"
	"io"

	"github.com/rileyhilliard/plantdash/internal/catalog"
	"github.com/rileyhilliard/plantdash/internal/logger"
	"github.com/rileyhilliard/plantdash/internal/sim"
	"github.com/rileyhilliard/plantdash/internal/ui"
	"github.com/spf13/cobra"
)

var catalogJSON bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the catalog's groups, widgets and metrics",
	Long: `Print the loaded catalog: every metric with its range and unit, every
widget with the scale it will be drawn on, and a warning for each widget
whose linked metric is missing.

Examples:
  plantdash catalog
  plantdash catalog --catalog ./plant.yaml
  plantdash catalog --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return finish(cmd.OutOrStdout(), catalogJSON, nil, err)
		}
		return catalogCommand(cmd.OutOrStdout(), a, catalogJSON)
	},
}

func init() {
	catalogCmd.Flags().BoolVar(&catalogJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(catalogCmd)
}

// CatalogReport is the --json payload of 'plantdash catalog'.
type CatalogReport struct {
	ID          string                      `json:"dashboard_id"`
	Title       string                      `json:"dashboard_title"`
	Description string                      `json:"description,omitempty"`
	Source      string                      `json:"source"`
	Metrics     []*catalog.MetricDefinition `json:"metrics"`
	Widgets     []WidgetRow                 `json:"widgets"`
	Warnings    []string                    `json:"warnings"`
}

// WidgetRow is one widget with its resolved scale.
type WidgetRow struct {
	Group    string             `json:"group"`
	ID       string             `json:"widget_id"`
	Type     catalog.WidgetType `json:"type"`
	Metric   string             `json:"linked_metric_id"`
	Resolved bool               `json:"resolved"`
	Range    catalog.Range      `json:"range"`
}

func buildCatalogReport(a *app) CatalogReport {
	cat := a.cat
	// scales come from the model so fallbacks match what the dashboard draws
	d := sim.NewDashboard(cat, sim.Options{SeedPoints: 1, Logger: logger.Noop()})

	report := CatalogReport{
		ID:          cat.ID,
		Title:       cat.Title,
		Description: cat.Description,
		Source:      a.catalogSource(),
		Metrics:     make([]*catalog.MetricDefinition, 0, len(cat.Metrics)),
		Warnings:    []string{},
	}
	for _, id := range cat.MetricIDs() {
		report.Metrics = append(report.Metrics, cat.Metrics[id])
	}
	for _, w := range cat.Widgets() {
		_, ok := cat.Metric(w.LinkedMetricID)
		report.Widgets = append(report.Widgets, WidgetRow{
			Group:    w.Group,
			ID:       w.ID,
			Type:     w.Type,
			Metric:   w.LinkedMetricID,
			Resolved: ok,
			Range:    d.DisplayRange(w),
		})
	}
	for _, w := range cat.Unresolved() {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("widget %s links to unknown metric %q and will show 0 on %s", w.ID, w.LinkedMetricID, catalog.DefaultDisplayRange))
	}
	return report
}

func catalogCommand(w io.Writer, a *app, asJSON bool) error {
	report := buildCatalogReport(a)
	if asJSON {
		return WriteJSONSuccess(w, report)
	}

	ui.PrintHeader(w, ui.HeaderInfo{Title: report.Title, Tagline: report.Description})
	fmt.Fprintf(w, "%s\n\n", ui.MutedStyle().Render(fmt.Sprintf("%s (%s)", report.ID, report.Source)))

	metricRows := make([][]string, 0, len(report.Metrics))
	for _, m := range report.Metrics {
		metricRows = append(metricRows, []string{
			m.ID, string(m.Role), m.ValueRange.String(), m.Unit, fmt.Sprintf("%d", m.Decimals),
		})
	}
	fmt.Fprintln(w, ui.TitleStyle().Render(fmt.Sprintf("Metrics (%d)", len(metricRows))))
	fmt.Fprintln(w, ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "Metric"}, {Title: "Role"}, {Title: "Range"}, {Title: "Unit"}, {Title: "Dec"},
	}, metricRows))
	fmt.Fprintln(w)

	widgetRows := make([][]string, 0, len(report.Widgets))
	for _, wr := range report.Widgets {
		marker := ui.SymbolComplete
		if !wr.Resolved {
			marker = ui.SymbolFail
		}
		widgetRows = append(widgetRows, []string{
			marker, wr.Group, wr.ID, string(wr.Type), wr.Metric, wr.Range.String(),
		})
	}
	fmt.Fprintln(w, ui.TitleStyle().Render(fmt.Sprintf("Widgets (%d in %d groups)", len(widgetRows), len(a.cat.Groups))))
	fmt.Fprintln(w, ui.RenderSimpleTable([]ui.TableColumn{
		{Title: " "}, {Title: "Group"}, {Title: "Widget"}, {Title: "Type"}, {Title: "Metric"}, {Title: "Scale"},
	}, widgetRows))

	if len(report.Warnings) > 0 {
		fmt.Fprintln(w)
		for _, warn := range report.Warnings {
			fmt.Fprintf(w, "%s %s\n", ui.WarningStyle().Render(ui.SymbolWarning), warn)
		}
	}
	return nil
}
