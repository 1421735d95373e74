// Package catalog loads and validates the dashboard definition: the metric
// definitions that drive the simulator and the layout groups and widgets
// that present them.
//
// A catalog document is YAML (JSON documents parse as well):
//
//	dashboard_id: unit_head
//	dashboard_title: Unit Head
//	layout_groups:
//	  - group_id: stack
//	    title: Stack Parameters
//	    widgets:
//	      - widget_id: stack_pm
//	        type: gauge
//	        linked_metric_id: OCMS-1 SSP PM
//	        display_max: 180
//	metrics:
//	  OCMS-1 SSP PM:
//	    role: stack_parameter
//	    value_range: {min: 2.2, max: 174.3}
//	    unit: mg/Nm3
//	    decimals: 2
//
// Catalogs are loaded once and never mutated afterwards.
package catalog

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/rileyhilliard/plantdash/internal/errors"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultDocument []byte

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultDocument)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return c
}

// DefaultDocument returns the raw built-in catalog document.
func DefaultDocument() []byte {
	out := make([]byte, len(defaultDocument))
	copy(out, defaultDocument)
	return out
}

// Load reads and validates a catalog document from path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrCatalog,
				"Catalog file not found: "+path,
				"Check the path passed to --catalog or the 'catalog' key in .plantdash.yaml")
		}
		return nil, errors.WrapWithCode(err, errors.ErrCatalog,
			"Cannot read catalog file: "+path,
			"Check file permissions")
	}

	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrCatalog,
			"Catalog is not valid YAML or JSON",
			"Fix the syntax error reported above")
	}

	if c.Metrics == nil {
		c.Metrics = make(map[string]*MetricDefinition)
	}
	for id, m := range c.Metrics {
		if m == nil {
			m = &MetricDefinition{}
			c.Metrics[id] = m
		}
		m.ID = id
	}
	for gi := range c.Groups {
		for wi := range c.Groups[gi].Widgets {
			c.Groups[gi].Widgets[wi].Group = c.Groups[gi].ID
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the catalog for fatal configuration errors.
// Unresolved metric links are not fatal; see Unresolved.
func (c *Catalog) Validate() error {
	for _, id := range c.MetricIDs() {
		if err := validateMetric(c.Metrics[id]); err != nil {
			return err
		}
	}

	groups := make(map[string]bool)
	widgets := make(map[string]bool)
	for _, g := range c.Groups {
		if g.ID == "" {
			return errors.New(errors.ErrCatalog,
				fmt.Sprintf("Layout group '%s' has no group_id", g.Title),
				"Give every layout group a unique group_id")
		}
		if groups[g.ID] {
			return errors.New(errors.ErrCatalog,
				fmt.Sprintf("Layout group '%s' is defined more than once", g.ID),
				"Group ids must be unique")
		}
		groups[g.ID] = true

		for _, w := range g.Widgets {
			if err := validateWidget(w); err != nil {
				return err
			}
			if widgets[w.ID] {
				return errors.New(errors.ErrCatalog,
					fmt.Sprintf("Widget '%s' is defined more than once", w.ID),
					"Widget ids must be unique across all layout groups")
			}
			widgets[w.ID] = true
		}
	}

	return nil
}

func validateMetric(m *MetricDefinition) error {
	if m.ID == "" {
		return errors.New(errors.ErrCatalog,
			"Metric with an empty id",
			"Every key under 'metrics' must be a non-empty name")
	}
	r := m.ValueRange
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
		return errors.New(errors.ErrCatalog,
			fmt.Sprintf("Metric '%s' has a non-finite value_range %s", m.ID, r),
			"Use finite numbers for min and max")
	}
	if r.Min > r.Max {
		return errors.New(errors.ErrCatalog,
			fmt.Sprintf("Metric '%s' has min %g greater than max %g", m.ID, r.Min, r.Max),
			"Swap the value_range bounds, or set them equal for a constant signal")
	}
	if m.Decimals < 0 {
		return errors.New(errors.ErrCatalog,
			fmt.Sprintf("Metric '%s' has negative decimals (%d)", m.ID, m.Decimals),
			"Use 0 or more decimals")
	}
	return nil
}

func validateWidget(w WidgetConfig) error {
	if w.ID == "" {
		return errors.New(errors.ErrCatalog,
			fmt.Sprintf("Widget '%s' in group '%s' has no widget_id", w.Title, w.Group),
			"Give every widget a unique widget_id")
	}
	if !w.Type.Valid() {
		return errors.New(errors.ErrCatalog,
			fmt.Sprintf("Widget '%s' has unknown type '%s'", w.ID, w.Type),
			fmt.Sprintf("Use one of: %v", WidgetTypes))
	}
	if w.DisplayMin != nil && w.DisplayMax != nil && *w.DisplayMin > *w.DisplayMax {
		return errors.New(errors.ErrCatalog,
			fmt.Sprintf("Widget '%s' has display_min %g greater than display_max %g", w.ID, *w.DisplayMin, *w.DisplayMax),
			"Swap the display bounds")
	}
	return nil
}

// Metric looks up a metric definition by id.
func (c *Catalog) Metric(id string) (*MetricDefinition, bool) {
	m, ok := c.Metrics[id]
	return m, ok
}

// MetricIDs returns all metric ids in sorted order.
func (c *Catalog) MetricIDs() []string {
	ids := make([]string, 0, len(c.Metrics))
	for id := range c.Metrics {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Widgets returns every widget in layout order.
func (c *Catalog) Widgets() []WidgetConfig {
	var out []WidgetConfig
	for _, g := range c.Groups {
		out = append(out, g.Widgets...)
	}
	return out
}

// Widget looks up a widget by id.
func (c *Catalog) Widget(id string) (WidgetConfig, bool) {
	for _, g := range c.Groups {
		for _, w := range g.Widgets {
			if w.ID == id {
				return w, true
			}
		}
	}
	return WidgetConfig{}, false
}

// Unresolved returns widgets whose linked metric is not defined.
func (c *Catalog) Unresolved() []WidgetConfig {
	var out []WidgetConfig
	for _, w := range c.Widgets() {
		if _, ok := c.Metrics[w.LinkedMetricID]; !ok {
			out = append(out, w)
		}
	}
	return out
}
