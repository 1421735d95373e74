package sim

import "errors"

// ErrInvalidRange is returned when a custom window does not end after it starts.
var ErrInvalidRange = errors.New("custom range end must be after start")

// ErrUnknownTimeframe is returned for timeframe names that are not presets.
var ErrUnknownTimeframe = errors.New("unknown timeframe")

// ErrUnknownMetric is returned when a metric id is not in the catalog.
var ErrUnknownMetric = errors.New("unknown metric")

// ErrUnknownWidget is returned when a widget id is not in the catalog.
var ErrUnknownWidget = errors.New("unknown widget")
