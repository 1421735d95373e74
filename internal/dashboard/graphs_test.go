package dashboard

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/plantdash/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSparkline(t *testing.T) {
	r := catalog.Range{Min: 0, Max: 10}

	tests := []struct {
		name     string
		values   []float64
		width    int
		expected string
	}{
		{name: "empty", values: nil, width: 5, expected: ""},
		{name: "zero width", values: []float64{1}, width: 0, expected: ""},
		{name: "right aligned", values: []float64{0, 10}, width: 4, expected: "  ▁█"},
		{name: "clamped outside range", values: []float64{-5, 50}, width: 2, expected: "▁█"},
		{name: "downsampled keeps peaks", values: []float64{0, 10, 0, 0}, width: 2, expected: "█▁"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sparkline(tt.values, tt.width, r))
		})
	}
}

func TestBrailleChart(t *testing.T) {
	r := catalog.Range{Min: 0, Max: 10}

	t.Run("single cell", func(t *testing.T) {
		lines := BrailleChart([]float64{0, 10}, 1, 1, r)
		require.Len(t, lines, 1)
		// baseline dot on the left, full column on the right
		assert.Equal(t, "⣸", lines[0])
	})

	t.Run("dimensions", func(t *testing.T) {
		values := make([]float64, 100)
		for i := range values {
			values[i] = float64(i % 10)
		}
		lines := BrailleChart(values, 20, 4, r)
		require.Len(t, lines, 4)
		for _, l := range lines {
			assert.Equal(t, 20, lipgloss.Width(l))
		}
	})

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, BrailleChart(nil, 10, 2, r))
		assert.Nil(t, BrailleChart([]float64{1}, 0, 2, r))
	})
}

func TestVerticalTank(t *testing.T) {
	lines := VerticalTank(4, 0.5)
	require.Len(t, lines, 4)
	assert.Equal(t, "░░░░", lines[0])
	assert.Equal(t, "░░░░", lines[1])
	assert.Equal(t, "████", lines[2])
	assert.Equal(t, "████", lines[3])

	full := VerticalTank(3, 2)
	for _, l := range full {
		assert.Equal(t, "████", l)
	}
	assert.Nil(t, VerticalTank(0, 0.5))
}

func TestDonutGlyph(t *testing.T) {
	tests := []struct {
		fraction float64
		expected string
	}{
		{0, "○"},
		{0.25, "◔"},
		{0.5, "◑"},
		{0.75, "◕"},
		{1, "●"},
		{-1, "○"},
		{3, "●"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DonutGlyph(tt.fraction), "fraction %g", tt.fraction)
	}
}

func TestResample(t *testing.T) {
	assert.Equal(t, []float64{5, 8}, resample([]float64{1, 5, 2, 8}, 2))
	assert.Equal(t, []float64{1, 2}, resample([]float64{1, 2}, 5))
}
