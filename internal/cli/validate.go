package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/rileyhilliard/plantdash/internal/catalog"
	pderrors "github.com/rileyhilliard/plantdash/internal/errors"
	"github.com/rileyhilliard/plantdash/internal/ui"
	"github.com/spf13/cobra"
)

var validateJSON bool

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a catalog document",
	Long: `Load a catalog document and report fatal errors (bad ranges, duplicate
ids, unknown widget types) and warnings (widgets linked to missing metrics).

Exits non-zero when the catalog cannot be used.

Examples:
  plantdash validate ./plant.yaml
  plantdash validate ./plant.json --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateCommand(cmd.OutOrStdout(), args[0], validateJSON)
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(validateCmd)
}

// ValidationReport is the --json payload of 'plantdash validate'.
type ValidationReport struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Groups   int      `json:"groups"`
	Widgets  int      `json:"widgets"`
	Metrics  int      `json:"metrics"`
	Warnings []string `json:"warnings"`
}

func validateCatalog(path string) (ValidationReport, error) {
	report := ValidationReport{File: path, Warnings: []string{}}
	cat, err := catalog.Load(path)
	if err != nil {
		return report, err
	}

	report.Valid = true
	report.Groups = len(cat.Groups)
	report.Widgets = len(cat.Widgets())
	report.Metrics = len(cat.Metrics)
	for _, w := range cat.Unresolved() {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("widget %s links to unknown metric %q", w.ID, w.LinkedMetricID))
	}
	return report, nil
}

func validateCommand(w io.Writer, path string, asJSON bool) error {
	report, err := validateCatalog(path)
	if asJSON {
		return finish(w, true, report, err)
	}

	var rows []ui.CheckRow
	if err != nil {
		row := ui.CheckRow{Status: "fail", Message: err.Error()}
		var pe *pderrors.Error
		if errors.As(err, &pe) {
			row.Message = pe.Message
			row.Suggestion = pe.Suggestion
		}
		fmt.Fprint(w, ui.RenderChecks(path, []ui.CheckRow{row}))
		return pderrors.NewExitError(1)
	}

	rows = append(rows, ui.CheckRow{
		Status:  "pass",
		Message: fmt.Sprintf("%d metrics, %d widgets in %d groups", report.Metrics, report.Widgets, report.Groups),
	})
	for _, warn := range report.Warnings {
		rows = append(rows, ui.CheckRow{
			Status:     "warn",
			Message:    warn,
			Suggestion: "The widget will show 0 on [0, 100]. Add the metric or fix linked_metric_id.",
		})
	}
	fmt.Fprint(w, ui.RenderChecks(path, rows))
	return nil
}
