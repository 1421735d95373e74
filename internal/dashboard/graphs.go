package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/plantdash/internal/alarm"
	"github.com/rileyhilliard/plantdash/internal/catalog"
)

// Braille cells are a 2x4 dot matrix starting at U+2800:
//
//	Row 0:   ⠁  ⠈   (bits 0, 3)
//	Row 1:   ⠂  ⠐   (bits 1, 4)
//	Row 2:   ⠄  ⠠   (bits 2, 5)
//	Row 3:   ⡀  ⢀   (bits 6, 7)
const brailleBase = '⠀'

var brailleDots = [4][2]uint8{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values as one row of block characters scaled to r.
// Short series are right-aligned, long ones downsampled.
func Sparkline(values []float64, width int, r catalog.Range) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	data := values
	if len(data) > width {
		data = resample(data, width)
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", width-len(data)))
	for _, v := range data {
		idx := int(r.Fraction(v) * float64(len(sparklineBlocks)-1))
		b.WriteRune(sparklineBlocks[clampInt(idx, len(sparklineBlocks)-1)])
	}
	return b.String()
}

// BrailleChart plots values over height rows of width braille cells, two
// samples per cell, scaled to r. Each column is coloured by the severity
// of its highest sample.
func BrailleChart(values []float64, width, height int, r catalog.Range) []string {
	if len(values) == 0 || width <= 0 || height <= 0 {
		return nil
	}

	totalDots := height * 4
	target := width * 2

	data := values
	if len(data) > target {
		data = resample(data, target)
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = brailleBase
		}
	}

	colMax := make([]float64, width)
	for i := range colMax {
		colMax[i] = -1
	}

	offset := target - len(data)
	for i, v := range data {
		frac := r.Fraction(v)
		dotHeight := clampInt(int(frac*float64(totalDots)+0.5), totalDots)
		if dotHeight == 0 {
			// keep the baseline visible
			dotHeight = 1
		}

		col := (i + offset) / 2
		sub := (i + offset) % 2
		if frac > colMax[col] {
			colMax[col] = frac
		}

		for dot := 0; dot < dotHeight; dot++ {
			row := height - 1 - dot/4
			grid[row][col] |= rune(1) << brailleDots[3-dot%4][sub]
		}
	}

	lines := make([]string, height)
	for ri, row := range grid {
		var b strings.Builder
		for ci, ch := range row {
			color := ColorTextMuted
			if colMax[ci] >= 0 {
				color = SeverityColor(alarm.SeverityOf(colMax[ci]))
			}
			b.WriteString(lipgloss.NewStyle().Foreground(color).Render(string(ch)))
		}
		lines[ri] = b.String()
	}
	return lines
}

// VerticalTank renders a column height rows tall filled to fraction.
func VerticalTank(height int, fraction float64) []string {
	if height <= 0 {
		return nil
	}
	fraction = clampFraction(fraction)
	filled := int(fraction*float64(height) + 0.5)
	style := fractionStyle(fraction)
	empty := MutedStyle

	lines := make([]string, height)
	for row := 0; row < height; row++ {
		if height-row <= filled {
			lines[row] = style.Render("████")
		} else {
			lines[row] = empty.Render("░░░░")
		}
	}
	return lines
}

// DonutGlyph picks a quarter-step circle glyph for fraction.
func DonutGlyph(fraction float64) string {
	glyphs := []string{"○", "◔", "◑", "◕", "●"}
	idx := int(clampFraction(fraction)*float64(len(glyphs)-1) + 0.5)
	return glyphs[clampInt(idx, len(glyphs)-1)]
}

func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// resample shrinks data to size buckets, keeping each bucket's peak.
func resample(data []float64, size int) []float64 {
	if len(data) <= size || size <= 0 {
		return data
	}

	out := make([]float64, size)
	bucket := float64(len(data)) / float64(size)
	for i := 0; i < size; i++ {
		start := int(float64(i) * bucket)
		end := int(float64(i+1) * bucket)
		if end > len(data) {
			end = len(data)
		}
		if start >= end {
			start = end - 1
		}

		peak := data[start]
		for _, v := range data[start+1 : end] {
			if v > peak {
				peak = v
			}
		}
		out[i] = peak
	}
	return out
}
