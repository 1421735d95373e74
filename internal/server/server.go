// Package server exposes the simulated dashboard over HTTP: a JSON API,
// Prometheus metrics and a websocket feed of tick snapshots and alarm
// changes.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rileyhilliard/plantdash/internal/alarm"
	pderrors "github.com/rileyhilliard/plantdash/internal/errors"
	"github.com/rileyhilliard/plantdash/internal/exporter"
	"github.com/rileyhilliard/plantdash/internal/logger"
	"github.com/rileyhilliard/plantdash/internal/sim"
)

// DefaultListen is the default listen address.
const DefaultListen = ":9464"

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Listen       string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// Location interprets start/end query bounds. Nil uses time.Local.
	Location *time.Location
	Logger   logger.Logger
}

// Server serves one dashboard.
type Server struct {
	dash     *sim.Dashboard
	exp      *exporter.Exporter
	alarms   *alarm.Board
	hub      *Hub
	router   *mux.Router
	upgrader websocket.Upgrader
	opts     Options
	log      logger.Logger
}

// New builds a server for d. Snapshots are mirrored into exp once Start
// or ListenAndServe is called.
func New(d *sim.Dashboard, exp *exporter.Exporter, opts Options) *Server {
	if opts.Listen == "" {
		opts.Listen = DefaultListen
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}

	s := &Server{
		dash:   d,
		exp:    exp,
		alarms: alarm.NewBoard(d),
		hub:    NewHub(opts.Logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		opts: opts,
		log:  opts.Logger,
	}
	s.routes()

	clients := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: exporter.Namespace,
			Name:      "websocket_clients",
			Help:      "Number of connected websocket clients",
		},
		func() float64 { return float64(s.hub.ClientCount()) },
	)
	if err := exp.Registry().Register(clients); err != nil {
		s.log.Warn("cannot register websocket client gauge: %v", err)
	}
	return s
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.Handle("/metrics", s.exp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWebSocket)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/catalog", s.handleCatalog).Methods(http.MethodGet)
	api.HandleFunc("/snapshot", s.handleSnapshot).Methods(http.MethodGet)
	api.HandleFunc("/widgets/{id}", s.handleWidget).Methods(http.MethodGet)
	api.HandleFunc("/history/{metric}", s.handleHistory).Methods(http.MethodGet)
	api.HandleFunc("/alarms", s.handleAlarms).Methods(http.MethodGet)
	api.HandleFunc("/alarms/ack", s.handleAckAll).Methods(http.MethodPost)
	api.HandleFunc("/alarms/{id}/ack", s.handleAck).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, pderrors.New(pderrors.ErrServe,
			"No route for "+r.URL.Path, "See /api/catalog, /api/snapshot, /api/alarms, /metrics or /ws"))
	})
	s.router = r
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Alarms returns the alarm board fed by every tick.
func (s *Server) Alarms() *alarm.Board {
	return s.alarms
}

// Start runs the websocket hub and mirrors every dashboard tick into the
// exporter, the alarm board and the hub until ctx is done. It does not
// listen.
func (s *Server) Start(ctx context.Context) {
	snap := s.dash.Snapshot()
	s.exp.Observe(snap)
	s.logAlarms(s.alarms.Evaluate(snap))
	s.exp.ObserveAlarms(s.alarms.Active())
	go s.hub.Run(ctx)

	unsubscribe := s.dash.Subscribe(s.publish)
	go func() {
		<-ctx.Done()
		unsubscribe()
	}()
}

func (s *Server) publish(snap sim.Snapshot) {
	s.exp.Observe(snap)
	if err := s.hub.Broadcast("snapshot", snap); err != nil {
		s.log.Error("cannot broadcast tick %d: %v", snap.Tick, err)
	}

	changes := s.alarms.Evaluate(snap)
	s.exp.ObserveAlarms(s.alarms.Active())
	if changes.Empty() {
		return
	}
	s.logAlarms(changes)
	if err := s.hub.Broadcast("alarm", changes); err != nil {
		s.log.Error("cannot broadcast alarms for tick %d: %v", snap.Tick, err)
	}
}

func (s *Server) logAlarms(ch alarm.Changes) {
	for _, a := range ch.Raised {
		s.log.Warn("alarm raised: %s", a.Message)
	}
	for _, a := range ch.Escalated {
		s.log.Warn("alarm escalated: %s", a.Message)
	}
	for _, a := range ch.Cleared {
		s.log.Info("alarm cleared: %s", a.ID)
	}
}

// ListenAndServe starts the server and blocks until ctx is done, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Listen)
	if err != nil {
		return pderrors.WrapWithCode(err, pderrors.ErrServe,
			"Cannot listen on "+s.opts.Listen,
			"Choose another address with --listen or server.listen")
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.Start(ctx)

	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("serving dashboard on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return pderrors.WrapWithCode(err, pderrors.ErrServe, "HTTP server stopped", "")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return pderrors.WrapWithCode(err, pderrors.ErrServe, "Graceful shutdown failed", "")
	}
	return nil
}
