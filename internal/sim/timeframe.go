package sim

import (
	"fmt"
	"strings"
	"time"

	pderrors "github.com/rileyhilliard/plantdash/internal/errors"
)

// Timeframe selects the history window shown for a metric.
type Timeframe string

const (
	TimeframeLive   Timeframe = "LIVE"
	Timeframe1H     Timeframe = "1H"
	Timeframe8H     Timeframe = "8H"
	Timeframe24H    Timeframe = "24H"
	Timeframe7D     Timeframe = "7D"
	Timeframe30D    Timeframe = "30D"
	TimeframeCustom Timeframe = "CUSTOM"
)

// Presets lists the selectable timeframes in display order.
var Presets = []Timeframe{
	TimeframeLive,
	Timeframe1H,
	Timeframe8H,
	Timeframe24H,
	Timeframe7D,
	Timeframe30D,
}

// RangeLayout is the accepted text layout for custom range bounds.
const RangeLayout = "2006-01-02T15:04"

var timeframeSteps = map[Timeframe]time.Duration{
	TimeframeLive: time.Minute,
	Timeframe1H:   time.Minute,
	Timeframe8H:   10 * time.Minute,
	Timeframe24H:  30 * time.Minute,
	Timeframe7D:   4 * time.Hour,
	Timeframe30D:  12 * time.Hour,
}

// ParseTimeframe parses a preset name case-insensitively ("24h", "7D", "live").
func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := timeframeSteps[tf]; ok {
		return tf, nil
	}
	return "", pderrors.WrapWithCode(
		fmt.Errorf("%w: %q", ErrUnknownTimeframe, s),
		pderrors.ErrRange,
		fmt.Sprintf("Unknown timeframe '%s'", s),
		fmt.Sprintf("Use one of: %s, or a custom start/end", joinTimeframes(Presets)))
}

// Step returns the spacing between synthesized points. Custom windows
// compute their step from the range instead and report zero here.
func (t Timeframe) Step() time.Duration {
	return timeframeSteps[t]
}

// IsLive reports whether the timeframe follows the running simulation.
func (t Timeframe) IsLive() bool {
	return t == TimeframeLive
}

func (t Timeframe) String() string {
	return string(t)
}

func joinTimeframes(tfs []Timeframe) string {
	parts := make([]string, len(tfs))
	for i, tf := range tfs {
		parts[i] = string(tf)
	}
	return strings.Join(parts, ", ")
}

// Window is a timeframe plus explicit bounds for custom ranges.
type Window struct {
	Timeframe Timeframe
	Start     time.Time
	End       time.Time
}

// PresetWindow wraps a preset timeframe.
func PresetWindow(tf Timeframe) Window {
	return Window{Timeframe: tf}
}

// CustomWindow validates and builds a custom window.
func CustomWindow(start, end time.Time) (Window, error) {
	if !end.After(start) {
		return Window{}, pderrors.WrapWithCode(
			fmt.Errorf("%w: %s is not after %s", ErrInvalidRange, end.Format(RangeLayout), start.Format(RangeLayout)),
			pderrors.ErrRange,
			"Invalid custom range",
			"Pick an end time later than the start time")
	}
	return Window{Timeframe: TimeframeCustom, Start: start, End: end}, nil
}

// IsCustom reports whether the window has explicit bounds.
func (w Window) IsCustom() bool {
	return w.Timeframe == TimeframeCustom
}

func (w Window) String() string {
	if w.IsCustom() {
		return w.Start.Format(RangeLayout) + " → " + w.End.Format(RangeLayout)
	}
	return string(w.Timeframe)
}

var rangeLayouts = []string{
	RangeLayout,
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime parses a custom range bound in loc. RFC 3339 values keep
// their own offset.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	for _, layout := range rangeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, pderrors.New(pderrors.ErrRange,
		fmt.Sprintf("Cannot parse time '%s'", s),
		"Use the form 2006-01-02T15:04")
}

// ParseCustomRange parses start and end bounds into a custom window.
func ParseCustomRange(start, end string, loc *time.Location) (Window, error) {
	s, err := ParseTime(start, loc)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseTime(end, loc)
	if err != nil {
		return Window{}, err
	}
	return CustomWindow(s, e)
}

// ParseRangeInput parses "START..END" or "START END" as typed in the TUI.
// Without "..", the fields split into equal halves so that bounds in the
// "2006-01-02 15:04" layout can be separated by a space too.
func ParseRangeInput(s string, loc *time.Location) (Window, error) {
	s = strings.TrimSpace(s)
	var parts []string
	if strings.Contains(s, "..") {
		parts = strings.SplitN(s, "..", 2)
	} else if f := strings.Fields(s); len(f) > 0 && len(f)%2 == 0 {
		half := len(f) / 2
		parts = []string{strings.Join(f[:half], " "), strings.Join(f[half:], " ")}
	}
	if len(parts) != 2 {
		return Window{}, pderrors.New(pderrors.ErrRange,
			fmt.Sprintf("Expected a start and an end, got '%s'", s),
			"Type two times separated by a space, e.g. 2024-05-01T08:00 2024-05-01T20:00")
	}
	return ParseCustomRange(parts[0], parts[1], loc)
}

// ParseWindow picks a window from optional inputs: start and end together
// select a custom range, otherwise name selects a preset. Both empty is LIVE.
func ParseWindow(name, start, end string, loc *time.Location) (Window, error) {
	if start != "" || end != "" {
		if start == "" || end == "" {
			return Window{}, pderrors.New(pderrors.ErrRange,
				"A custom range needs both start and end",
				"Give both bounds, e.g. start 2024-05-01T08:00 and end 2024-05-01T20:00")
		}
		return ParseCustomRange(start, end, loc)
	}
	if strings.TrimSpace(name) == "" {
		return PresetWindow(TimeframeLive), nil
	}
	tf, err := ParseTimeframe(name)
	if err != nil {
		return Window{}, err
	}
	return PresetWindow(tf), nil
}
