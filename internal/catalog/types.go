package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Role classifies a metric. Only RoleStatus changes how values are generated.
type Role string

const (
	RoleProcessValue   Role = "process_value"
	RoleTemperature    Role = "temperature"
	RolePressure       Role = "pressure"
	RoleTankLevel      Role = "tank_level"
	RoleStatus         Role = "status"
	RoleQuality        Role = "quality"
	RoleEnergy         Role = "energy"
	RoleMaintenance    Role = "maintenance"
	RoleTotaliser      Role = "totaliser"
	RoleStackParameter Role = "stack_parameter"
	RoleFlow           Role = "flow"
	RoleSpeed          Role = "speed"
	RoleMotorLoad      Role = "motor_load"
	RoleMotorCurrent   Role = "motor_current"
	RoleThroughput     Role = "throughput"
)

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// DefaultDisplayRange is used for widgets whose metric cannot be resolved.
var DefaultDisplayRange = Range{Min: 0, Max: 100}

// Span returns Max - Min.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Constant reports whether the range holds a single value.
func (r Range) Constant() bool {
	return r.Min == r.Max
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Clamp limits v to the range.
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Midpoint returns the center of the range.
func (r Range) Midpoint() float64 {
	return r.Min + r.Span()/2
}

// Fraction returns where v sits in the range as 0..1.
// A constant range reports 0 for values at or below Max and 1 above.
func (r Range) Fraction(v float64) float64 {
	if r.Span() <= 0 {
		if v > r.Max {
			return 1
		}
		return 0
	}
	f := (v - r.Min) / r.Span()
	return math.Max(0, math.Min(1, f))
}

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Min, r.Max)
}

// MetricDefinition describes one simulated process signal.
type MetricDefinition struct {
	// ID is the catalog map key. It is filled in on load.
	ID         string `yaml:"-" json:"id"`
	Role       Role   `yaml:"role" json:"role"`
	ValueRange Range  `yaml:"value_range" json:"value_range"`
	Unit       string `yaml:"unit" json:"unit"`
	Decimals   int    `yaml:"decimals" json:"decimals"`
}

// IsStatus reports whether the metric is a binary run/stop signal.
func (m MetricDefinition) IsStatus() bool {
	return m.Role == RoleStatus
}

// Format renders v with the metric's display precision.
func (m MetricDefinition) Format(v float64) string {
	return FormatNumber(v, m.Decimals)
}

// FormatNumber renders v with a fixed number of decimals and thousands
// separators on the integer part.
func FormatNumber(v float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	if len(intPart) <= 3 {
		return sign + intPart + frac
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + frac
}

// WidgetType selects a render strategy.
type WidgetType string

const (
	WidgetGauge       WidgetType = "gauge"
	WidgetTank        WidgetType = "vertical_tank"
	WidgetBar         WidgetType = "bar"
	WidgetNumericCard WidgetType = "numeric_card"
	WidgetTimeSeries  WidgetType = "time_series"
	WidgetStatusCard  WidgetType = "status_card"
	WidgetDonut       WidgetType = "donut"
)

// WidgetTypes lists every supported widget type.
var WidgetTypes = []WidgetType{
	WidgetGauge,
	WidgetTank,
	WidgetBar,
	WidgetNumericCard,
	WidgetTimeSeries,
	WidgetStatusCard,
	WidgetDonut,
}

// Valid reports whether t is a known widget type.
func (t WidgetType) Valid() bool {
	for _, known := range WidgetTypes {
		if t == known {
			return true
		}
	}
	return false
}

// WidgetConfig binds a visual element to a metric.
type WidgetConfig struct {
	ID             string     `yaml:"widget_id" json:"widget_id"`
	Title          string     `yaml:"title" json:"title"`
	Type           WidgetType `yaml:"type" json:"type"`
	LinkedMetricID string     `yaml:"linked_metric_id" json:"linked_metric_id"`
	Unit           string     `yaml:"unit" json:"unit"`
	DisplayMin     *float64   `yaml:"display_min,omitempty" json:"display_min,omitempty"`
	DisplayMax     *float64   `yaml:"display_max,omitempty" json:"display_max,omitempty"`
	ShowTodayMax   bool       `yaml:"show_today_max,omitempty" json:"show_today_max,omitempty"`

	// Group is the owning layout group id. It is filled in on load.
	Group string `yaml:"-" json:"group"`
}

// LayoutGroup is a titled panel of widgets.
type LayoutGroup struct {
	ID          string         `yaml:"group_id" json:"group_id"`
	Title       string         `yaml:"title" json:"title"`
	Description string         `yaml:"description" json:"description"`
	Widgets     []WidgetConfig `yaml:"widgets" json:"widgets"`
}

// Catalog is the immutable dashboard definition: metrics plus layout.
type Catalog struct {
	ID          string                       `yaml:"dashboard_id" json:"dashboard_id"`
	Title       string                       `yaml:"dashboard_title" json:"dashboard_title"`
	Description string                       `yaml:"description" json:"description"`
	Groups      []LayoutGroup                `yaml:"layout_groups" json:"layout_groups"`
	Metrics     map[string]*MetricDefinition `yaml:"metrics" json:"metrics"`
}
