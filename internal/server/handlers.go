package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rileyhilliard/plantdash/internal/alarm"
	pderrors "github.com/rileyhilliard/plantdash/internal/errors"
	"github.com/rileyhilliard/plantdash/internal/sim"
)

// HistoryResponse is the body of /api/history/{metric}.
type HistoryResponse struct {
	Metric string      `json:"metric"`
	Window string      `json:"window"`
	Points []sim.Point `json:"points"`
	Stats  sim.Stats   `json:"stats"`
}

// AlarmsResponse is the body of /api/alarms.
type AlarmsResponse struct {
	Active         []alarm.Alarm `json:"active"`
	Unacknowledged int           `json:"unacknowledged"`
}

type errorBody struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	body := errorBody{Code: pderrors.CodeOf(err), Message: err.Error()}
	var pe *pderrors.Error
	if errors.As(err, &pe) {
		body.Message = pe.Message
		body.Suggestion = pe.Suggestion
	}
	writeJSON(w, status, map[string]errorBody{"error": body})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	ticks, last := s.dash.Ticks()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"ticks":     ticks,
		"last_tick": last,
		"clients":   s.hub.ClientCount(),
	})
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.Catalog())
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.Snapshot())
}

func (s *Server) handleWidget(w http.ResponseWriter, r *http.Request) {
	wd, err := s.dash.ResolveID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, wd)
}

// handleHistory returns a metric's series. ?start=&end= selects a custom
// range, ?window= a preset; LIVE (the default) returns the rolling buffer.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["metric"]
	if _, err := s.dash.Metric(id); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	window, err := s.parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var pts []sim.Point
	if window.Timeframe.IsLive() {
		pts = s.dash.History(id)
	} else {
		pts, err = s.dash.Synthesize(id, window)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, HistoryResponse{
		Metric: id,
		Window: window.String(),
		Points: pts,
		Stats:  sim.Summarize(pts),
	})
}

func (s *Server) handleAlarms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, AlarmsResponse{
		Active:         s.alarms.Active(),
		Unacknowledged: s.alarms.Unacknowledged(),
	})
}

func (s *Server) handleAck(w http.ResponseWriter, r *http.Request) {
	a, err := s.alarms.Acknowledge(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	s.exp.ObserveAlarms(s.alarms.Active())
	s.log.Info("alarm acknowledged: %s", a.ID)
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleAckAll(w http.ResponseWriter, _ *http.Request) {
	n := s.alarms.AcknowledgeAll()
	s.exp.ObserveAlarms(s.alarms.Active())
	s.log.Info("acknowledged %d alarms", n)
	writeJSON(w, http.StatusOK, map[string]int{"acknowledged": n})
}

func (s *Server) parseWindow(r *http.Request) (sim.Window, error) {
	q := r.URL.Query()
	return sim.ParseWindow(q.Get("window"), q.Get("start"), q.Get("end"), s.opts.Location)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed: %v", err)
		return
	}

	client := NewClient(s.hub, conn)

	// the current state goes out before any tick
	if data, err := json.Marshal(Message{Type: "snapshot", Payload: s.dash.Snapshot()}); err == nil {
		client.Send <- data
	}
	if !s.hub.Register(client) {
		_ = conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
