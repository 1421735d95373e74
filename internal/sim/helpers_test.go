package sim

import (
	"time"

	"github.com/rileyhilliard/plantdash/internal/catalog"
)

// seqRand replays a fixed sequence of Float64 draws.
type seqRand struct {
	vals []float64
	i    int
}

func (s *seqRand) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func (s *seqRand) Int63() int64 { return 42 }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func metric(id string, role catalog.Role, min, max float64) *catalog.MetricDefinition {
	return &catalog.MetricDefinition{
		ID:         id,
		Role:       role,
		ValueRange: catalog.Range{Min: min, Max: max},
		Decimals:   2,
	}
}

func ptr(v float64) *float64 { return &v }

const testCatalog = `
dashboard_id: test
dashboard_title: Test
layout_groups:
  - group_id: g
    title: G
    widgets:
      - {widget_id: flow, type: gauge, linked_metric_id: Flow, display_max: 10}
      - {widget_id: pump, type: status_card, linked_metric_id: Pump}
      - {widget_id: ghost, type: numeric_card, linked_metric_id: Missing}
      - {widget_id: temp, type: time_series, linked_metric_id: Temp, display_min: 20}
metrics:
  Flow: {role: process_value, value_range: {min: 0, max: 5}, unit: m3/h, decimals: 2}
  Pump: {role: status, value_range: {min: 0, max: 1}}
  Temp: {role: temperature, value_range: {min: 33.1, max: 129.0}, unit: °C, decimals: 1}
`

func testCatalogT() *catalog.Catalog {
	c, err := catalog.Parse([]byte(testCatalog))
	if err != nil {
		panic(err)
	}
	return c
}
