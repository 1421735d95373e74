// Package exporter publishes dashboard snapshots as Prometheus metrics.
package exporter

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rileyhilliard/plantdash/internal/alarm"
	"github.com/rileyhilliard/plantdash/internal/catalog"
	"github.com/rileyhilliard/plantdash/internal/sim"
)

// Namespace prefixes every exported metric.
const Namespace = "plantdash"

// Exporter mirrors snapshots into gauges on a private registry.
type Exporter struct {
	reg *prometheus.Registry
	cat *catalog.Catalog

	value    *prometheus.GaugeVec
	todayMax *prometheus.GaugeVec
	ticks    prometheus.Counter
	metrics  prometheus.Gauge
	alarms   *prometheus.GaugeVec
	unacked  prometheus.Gauge

	mu       sync.Mutex
	lastTick uint64
}

// New creates an exporter for cat with Go runtime and process collectors.
func New(cat *catalog.Catalog) *Exporter {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	e := &Exporter{
		reg: reg,
		cat: cat,
		value: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "metric_value",
				Help:      "Current simulated value of a catalog metric",
			},
			[]string{"metric", "role", "unit"},
		),
		todayMax: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "metric_today_max",
				Help:      "Highest value of a catalog metric since local midnight",
			},
			[]string{"metric"},
		),
		ticks: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "simulation_ticks_total",
				Help:      "Number of simulation ticks since start",
			},
		),
		metrics: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "simulation_metrics",
				Help:      "Number of metrics in the loaded catalog",
			},
		),
		alarms: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "alarms_active",
				Help:      "Number of active alarms by severity",
			},
			[]string{"severity"},
		),
		unacked: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "alarms_unacknowledged",
				Help:      "Number of active alarms nobody has acknowledged",
			},
		),
	}
	for _, sev := range []alarm.Severity{alarm.SeverityWarning, alarm.SeverityCritical} {
		e.alarms.WithLabelValues(sev.String()).Set(0)
	}
	e.metrics.Set(float64(len(cat.Metrics)))
	return e
}

// Observe updates every gauge from snap. Snapshots older than the last
// one observed never move the tick counter backwards.
func (e *Exporter) Observe(snap sim.Snapshot) {
	for id, v := range snap.Values {
		role, unit := "", ""
		if m, ok := e.cat.Metric(id); ok {
			role, unit = string(m.Role), m.Unit
		}
		e.value.WithLabelValues(id, role, unit).Set(v)
	}
	for id, v := range snap.TodayMax {
		e.todayMax.WithLabelValues(id).Set(v)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if snap.Tick > e.lastTick {
		e.ticks.Add(float64(snap.Tick - e.lastTick))
		e.lastTick = snap.Tick
	}
}

// ObserveAlarms sets the alarm gauges from the current active list.
func (e *Exporter) ObserveAlarms(active []alarm.Alarm) {
	counts := map[alarm.Severity]int{alarm.SeverityWarning: 0, alarm.SeverityCritical: 0}
	unacked := 0
	for _, a := range active {
		counts[a.Severity]++
		if !a.Acknowledged {
			unacked++
		}
	}
	for sev, n := range counts {
		e.alarms.WithLabelValues(sev.String()).Set(float64(n))
	}
	e.unacked.Set(float64(unacked))
}

// Registry returns the private registry, for collectors owned elsewhere.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.reg, promhttp.HandlerOpts{})
}
