package alarm

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rileyhilliard/plantdash/internal/catalog"
	pderrors "github.com/rileyhilliard/plantdash/internal/errors"
	"github.com/rileyhilliard/plantdash/internal/sim"
)

// ErrUnknownAlarm is returned when acknowledging an alarm that is not active.
var ErrUnknownAlarm = errors.New("unknown alarm")

// Alarm is one active out-of-band reading, keyed by widget.
type Alarm struct {
	ID           string    `json:"id"`
	Tag          string    `json:"tag"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	Severity     Severity  `json:"severity"`
	Value        float64   `json:"value"`
	Unit         string    `json:"unit,omitempty"`
	RaisedAt     time.Time `json:"raised_at"`
	Acknowledged bool      `json:"acknowledged"`
	AckedAt      time.Time `json:"acked_at,omitempty"`
}

// Changes lists what one evaluation did. Escalated alarms moved from
// warning to critical and need acknowledging again.
type Changes struct {
	Raised    []Alarm `json:"raised,omitempty"`
	Escalated []Alarm `json:"escalated,omitempty"`
	Cleared   []Alarm `json:"cleared,omitempty"`
}

// Empty reports whether nothing changed.
func (c Changes) Empty() bool {
	return len(c.Raised) == 0 && len(c.Escalated) == 0 && len(c.Cleared) == 0
}

// rule watches one widget's value against its display range.
type rule struct {
	widget catalog.WidgetConfig
	metric *catalog.MetricDefinition
	scale  catalog.Range
}

// Board holds the active alarms for a dashboard. Widgets on status metrics,
// unresolved widgets and widgets with a constant scale never alarm.
type Board struct {
	mu     sync.Mutex
	rules  []rule
	active map[string]*Alarm
	now    func() time.Time
}

// NewBoard builds a board over every alarmable widget of d.
func NewBoard(d *sim.Dashboard) *Board {
	b := &Board{
		active: make(map[string]*Alarm),
		now:    d.Options().Now,
	}
	for _, w := range d.Catalog().Widgets() {
		m, ok := d.Catalog().Metric(w.LinkedMetricID)
		if !ok || m.IsStatus() {
			continue
		}
		scale := d.DisplayRange(w)
		if scale.Span() <= 0 {
			continue
		}
		b.rules = append(b.rules, rule{widget: w, metric: m, scale: scale})
	}
	return b
}

// Watched returns how many widgets the board evaluates.
func (b *Board) Watched() int {
	return len(b.rules)
}

// Evaluate applies the severity thresholds to snap. A reading that crosses
// into warning or critical raises an alarm, a warning that turns critical
// escalates it and clears its acknowledgement, and a reading back in the
// normal band clears it.
func (b *Board) Evaluate(snap sim.Snapshot) Changes {
	at := snap.Time
	if at.IsZero() {
		at = b.now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var ch Changes
	for _, r := range b.rules {
		v, ok := snap.Values[r.metric.ID]
		if !ok {
			continue
		}
		sev := SeverityOf(r.scale.Fraction(v))
		cur, active := b.active[r.widget.ID]

		switch {
		case sev == SeverityNormal && active:
			cur.Value = v
			delete(b.active, r.widget.ID)
			ch.Cleared = append(ch.Cleared, *cur)

		case sev == SeverityNormal:
			// nothing to clear

		case !active:
			a := &Alarm{
				ID:       r.widget.ID,
				Tag:      r.metric.ID,
				Title:    r.widget.Title,
				Severity: sev,
				Value:    v,
				Unit:     r.metric.Unit,
				RaisedAt: at,
			}
			a.Message = message(r, sev, v)
			b.active[a.ID] = a
			ch.Raised = append(ch.Raised, *a)

		case sev > cur.Severity:
			cur.Severity = sev
			cur.Value = v
			cur.Message = message(r, sev, v)
			cur.RaisedAt = at
			cur.Acknowledged = false
			cur.AckedAt = time.Time{}
			ch.Escalated = append(ch.Escalated, *cur)

		default:
			// critical easing back to warning keeps the alarm and its ack
			cur.Severity = sev
			cur.Value = v
			cur.Message = message(r, sev, v)
		}
	}
	return ch
}

func message(r rule, sev Severity, v float64) string {
	reading := r.metric.Format(v)
	if r.metric.Unit != "" {
		reading += " " + r.metric.Unit
	}
	return fmt.Sprintf("%s high %s: %s (%.0f%% of %s)",
		r.widget.Title, sev, reading, r.scale.Fraction(v)*100, r.scale)
}

// Active returns the active alarms, unacknowledged first, then by
// severity, newest first within a severity.
func (b *Board) Active() []Alarm {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Alarm, 0, len(b.active))
	for _, a := range b.active {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		a, c := out[i], out[j]
		if a.Acknowledged != c.Acknowledged {
			return !a.Acknowledged
		}
		if a.Severity != c.Severity {
			return a.Severity > c.Severity
		}
		if !a.RaisedAt.Equal(c.RaisedAt) {
			return a.RaisedAt.After(c.RaisedAt)
		}
		return a.ID < c.ID
	})
	return out
}

// Unacknowledged counts active alarms nobody has acknowledged yet.
func (b *Board) Unacknowledged() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, a := range b.active {
		if !a.Acknowledged {
			n++
		}
	}
	return n
}

// Acknowledge marks the alarm for widget id as seen. Acknowledging twice
// keeps the first acknowledgement time.
func (b *Board) Acknowledge(id string) (Alarm, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	a, ok := b.active[id]
	if !ok {
		return Alarm{}, pderrors.WrapWithCode(
			fmt.Errorf("%w: %q", ErrUnknownAlarm, id),
			pderrors.ErrAlarm,
			fmt.Sprintf("No active alarm for '%s'", id),
			"Alarms clear once the reading is back in range; list them with /api/alarms")
	}
	if !a.Acknowledged {
		a.Acknowledged = true
		a.AckedAt = b.now()
	}
	return *a, nil
}

// AcknowledgeAll acknowledges every active alarm and returns how many
// were newly acknowledged.
func (b *Board) AcknowledgeAll() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	now := b.now()
	for _, a := range b.active {
		if !a.Acknowledged {
			a.Acknowledged = true
			a.AckedAt = now
			n++
		}
	}
	return n
}
