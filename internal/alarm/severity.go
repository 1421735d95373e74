package alarm

import "fmt"

// Severity thresholds as fractions of a widget's display range.
const (
	WarningFraction  = 0.75
	CriticalFraction = 0.9
)

// Severity classifies a reading against its display range.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityWarning
	SeverityCritical
)

// SeverityOf maps a display-range fraction to a severity. Both
// thresholds are exclusive.
func SeverityOf(fraction float64) Severity {
	switch {
	case fraction > CriticalFraction:
		return SeverityCritical
	case fraction > WarningFraction:
		return SeverityWarning
	default:
		return SeverityNormal
	}
}

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityWarning:
		return "warning"
	default:
		return "normal"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "critical":
		*s = SeverityCritical
	case "warning":
		*s = SeverityWarning
	case "normal":
		*s = SeverityNormal
	default:
		return fmt.Errorf("unknown severity %q", b)
	}
	return nil
}
