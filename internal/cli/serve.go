package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rileyhilliard/plantdash/internal/exporter"
	"github.com/rileyhilliard/plantdash/internal/logger"
	"github.com/rileyhilliard/plantdash/internal/server"
	"github.com/rileyhilliard/plantdash/internal/ui"
	"github.com/spf13/cobra"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the simulation headless with an HTTP API",
	Long: `Run the dashboard clock without a terminal UI and serve it over HTTP:

  GET /metrics               Prometheus metrics
  GET /api/catalog           the loaded catalog
  GET /api/snapshot          latest values and tick
  GET /api/widgets/{id}      one widget's value, history and scale
  GET /api/history/{metric}  ?window=24H or ?start=...&end=...
  GET /ws                    websocket stream of tick snapshots

Stops cleanly on Ctrl+C or SIGTERM.

Examples:
  plantdash serve
  plantdash serve --listen 127.0.0.1:8080 --interval 1s`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		if serveListen != "" {
			a.cfg.Server.Listen = serveListen
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serveCommand(ctx, cmd.OutOrStdout(), a, logger.Default())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", fmt.Sprintf("listen address (default %q)", server.DefaultListen))
	rootCmd.AddCommand(serveCmd)
}

func serveCommand(ctx context.Context, w io.Writer, a *app, log logger.Logger) error {
	d := a.newDashboard(log)
	srv := server.New(d, exporter.New(a.cat), server.Options{
		Listen:       a.cfg.Server.Listen,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		Location:     time.Local,
		Logger:       log,
	})

	clock := d.Run(ctx, a.cfg.Simulation.Interval)
	defer clock.Stop()

	fmt.Fprintf(w, "%s %s on %s, ticking every %s\n",
		ui.SuccessStyle().Render(ui.SymbolComplete), a.cat.Title, a.cfg.Server.Listen, a.cfg.Simulation.Interval)
	fmt.Fprintln(w, ui.MutedStyle().Render("metrics at /metrics, snapshots at /ws; Ctrl+C to stop"))

	if err := srv.ListenAndServe(ctx); err != nil {
		return err
	}
	log.Info("stopped after graceful shutdown")
	return nil
}
