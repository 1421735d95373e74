package alarm

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/rileyhilliard/plantdash/internal/catalog"
	pderrors "github.com/rileyhilliard/plantdash/internal/errors"
	"github.com/rileyhilliard/plantdash/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

const testCatalogYAML = `
dashboard_id: test
dashboard_title: Test Plant
layout_groups:
  - group_id: reactor
    title: Reactor
    widgets:
      - widget_id: temp
        title: Reactor Temp
        type: gauge
        linked_metric_id: Temp
      - widget_id: temp_zoom
        title: Reactor Temp Zoom
        type: time_series
        linked_metric_id: Temp
        display_max: 50
      - widget_id: temp_flat
        title: Flat
        type: bar
        linked_metric_id: Temp
        display_min: 5
        display_max: 5
      - widget_id: pump
        title: Pump
        type: status_card
        linked_metric_id: Pump
      - widget_id: ghost
        title: Ghost
        type: numeric_card
        linked_metric_id: Missing
metrics:
  Temp:
    role: temperature
    value_range: {min: 0, max: 100}
    unit: C
    decimals: 1
  Pump:
    role: status
    value_range: {min: 0, max: 1}
`

func newTestBoard(t *testing.T) *Board {
	t.Helper()
	cat, err := catalog.Parse([]byte(testCatalogYAML))
	require.NoError(t, err)

	opts := sim.DefaultOptions()
	opts.Rand = rand.New(rand.NewSource(3))
	opts.Now = func() time.Time { return testNow }
	return NewBoard(sim.NewDashboard(cat, opts))
}

func snapshot(at time.Time, temp float64) sim.Snapshot {
	return sim.Snapshot{Tick: 1, Time: at, Values: map[string]float64{"Temp": temp, "Pump": 1}}
}

func ids(alarms []Alarm) []string {
	out := make([]string, len(alarms))
	for i, a := range alarms {
		out[i] = a.ID
	}
	return out
}

func TestSeverityOf(t *testing.T) {
	tests := []struct {
		name     string
		fraction float64
		expected Severity
	}{
		{name: "empty", fraction: 0, expected: SeverityNormal},
		{name: "at warning boundary", fraction: 0.75, expected: SeverityNormal},
		{name: "above warning", fraction: 0.76, expected: SeverityWarning},
		{name: "at critical boundary", fraction: 0.9, expected: SeverityWarning},
		{name: "above critical", fraction: 0.95, expected: SeverityCritical},
		{name: "full", fraction: 1, expected: SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SeverityOf(tt.fraction))
		})
	}
}

func TestSeverity_Text(t *testing.T) {
	data, err := json.Marshal(map[string]Severity{"s": SeverityCritical})
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"critical"}`, string(data))

	var s Severity
	require.NoError(t, s.UnmarshalText([]byte("warning")))
	assert.Equal(t, SeverityWarning, s)
	assert.Error(t, s.UnmarshalText([]byte("loud")))
}

func TestNewBoard_SkipsUnalarmableWidgets(t *testing.T) {
	b := newTestBoard(t)
	// status, unresolved and constant-scale widgets are left out
	assert.Equal(t, 2, b.Watched())
}

func TestBoard_Raise(t *testing.T) {
	tests := []struct {
		name       string
		temp       float64
		wantRaised map[string]Severity
	}{
		{name: "normal on both scales", temp: 20, wantRaised: map[string]Severity{}},
		{name: "zoomed scale warns first", temp: 40, wantRaised: map[string]Severity{"temp_zoom": SeverityWarning}},
		{name: "warning and critical", temp: 80, wantRaised: map[string]Severity{"temp": SeverityWarning, "temp_zoom": SeverityCritical}},
		{name: "both critical", temp: 95, wantRaised: map[string]Severity{"temp": SeverityCritical, "temp_zoom": SeverityCritical}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBoard(t)
			ch := b.Evaluate(snapshot(testNow, tt.temp))

			got := make(map[string]Severity)
			for _, a := range ch.Raised {
				got[a.ID] = a.Severity
				assert.Equal(t, "Temp", a.Tag)
				assert.Equal(t, "C", a.Unit)
				assert.Equal(t, tt.temp, a.Value)
				assert.Equal(t, testNow, a.RaisedAt)
				assert.False(t, a.Acknowledged)
			}
			assert.Equal(t, tt.wantRaised, got)
			assert.Empty(t, ch.Escalated)
			assert.Empty(t, ch.Cleared)
			assert.Len(t, b.Active(), len(tt.wantRaised))
			assert.Equal(t, len(tt.wantRaised), b.Unacknowledged())
		})
	}
}

func TestBoard_Message(t *testing.T) {
	b := newTestBoard(t)
	ch := b.Evaluate(snapshot(testNow, 80))
	require.Len(t, ch.Raised, 2)

	for _, a := range ch.Raised {
		if a.ID == "temp" {
			assert.Equal(t, "Reactor Temp high warning: 80.0 C (80% of [0, 100])", a.Message)
		}
	}
}

func TestBoard_Lifecycle(t *testing.T) {
	b := newTestBoard(t)
	t1 := testNow.Add(2 * time.Second)
	t2 := testNow.Add(4 * time.Second)

	ch := b.Evaluate(snapshot(testNow, 80))
	assert.ElementsMatch(t, []string{"temp", "temp_zoom"}, ids(ch.Raised))

	acked, err := b.Acknowledge("temp")
	require.NoError(t, err)
	assert.True(t, acked.Acknowledged)
	assert.Equal(t, testNow, acked.AckedAt)
	assert.Equal(t, 1, b.Unacknowledged())

	// staying in the same band changes nothing
	ch = b.Evaluate(snapshot(t1, 82))
	assert.True(t, ch.Empty())

	// warning to critical needs a fresh acknowledgement
	ch = b.Evaluate(snapshot(t1, 95))
	require.Len(t, ch.Escalated, 1)
	esc := ch.Escalated[0]
	assert.Equal(t, "temp", esc.ID)
	assert.Equal(t, SeverityCritical, esc.Severity)
	assert.Equal(t, t1, esc.RaisedAt)
	assert.False(t, esc.Acknowledged)
	assert.True(t, esc.AckedAt.IsZero())
	assert.Equal(t, 2, b.Unacknowledged())

	// easing back to warning keeps the alarm and its acknowledgement
	_, err = b.Acknowledge("temp")
	require.NoError(t, err)
	ch = b.Evaluate(snapshot(t2, 85))
	assert.True(t, ch.Empty())
	for _, a := range b.Active() {
		if a.ID == "temp" {
			assert.Equal(t, SeverityWarning, a.Severity)
			assert.True(t, a.Acknowledged)
			assert.Equal(t, 85.0, a.Value)
		}
	}

	// back in the normal band clears both
	ch = b.Evaluate(snapshot(t2, 10))
	assert.ElementsMatch(t, []string{"temp", "temp_zoom"}, ids(ch.Cleared))
	for _, a := range ch.Cleared {
		assert.Equal(t, 10.0, a.Value)
	}
	assert.Empty(t, b.Active())
	assert.Zero(t, b.Unacknowledged())
}

func TestBoard_IgnoresMissingValues(t *testing.T) {
	b := newTestBoard(t)
	ch := b.Evaluate(sim.Snapshot{Time: testNow, Values: map[string]float64{"Pump": 1}})
	assert.True(t, ch.Empty())
}

func TestBoard_ZeroSnapshotTimeUsesClock(t *testing.T) {
	b := newTestBoard(t)
	ch := b.Evaluate(snapshot(time.Time{}, 99))
	require.NotEmpty(t, ch.Raised)
	assert.Equal(t, testNow, ch.Raised[0].RaisedAt)
}

func TestBoard_ActiveOrder(t *testing.T) {
	b := newTestBoard(t)
	b.Evaluate(snapshot(testNow, 80))

	// critical sorts before warning
	assert.Equal(t, []string{"temp_zoom", "temp"}, ids(b.Active()))

	// acknowledged alarms sink below unacknowledged ones
	_, err := b.Acknowledge("temp_zoom")
	require.NoError(t, err)
	assert.Equal(t, []string{"temp", "temp_zoom"}, ids(b.Active()))
}

func TestBoard_AcknowledgeUnknown(t *testing.T) {
	b := newTestBoard(t)
	_, err := b.Acknowledge("temp")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownAlarm))
	assert.True(t, pderrors.IsCode(err, pderrors.ErrAlarm))
}

func TestBoard_AcknowledgeAll(t *testing.T) {
	b := newTestBoard(t)
	b.Evaluate(snapshot(testNow, 95))
	_, err := b.Acknowledge("temp")
	require.NoError(t, err)

	assert.Equal(t, 1, b.AcknowledgeAll())
	assert.Zero(t, b.Unacknowledged())
	assert.Zero(t, b.AcknowledgeAll())
	for _, a := range b.Active() {
		assert.True(t, a.Acknowledged)
		assert.Equal(t, testNow, a.AckedAt)
	}
}
