// ABOUTME: Sparkline widget renders mini trend charts using block characters
// ABOUTME: Used for the monthly revenue series on the dashboard

package widgets

import (
	"github.com/charmbracelet/lipgloss"
)

// SparklineBlocks are the Unicode block characters for different heights
var SparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values (oldest first) scaled against zero and the
// largest value, so a month with no revenue always shows the lowest block.
// Only the last width values are drawn.
func Sparkline(values []float64, width int, color lipgloss.Color) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	peak := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}

	result := make([]rune, len(values))
	for i, v := range values {
		result[i] = block(v, peak)
	}

	style := lipgloss.NewStyle()
	if color != "" {
		style = style.Foreground(color)
	}
	return style.Render(string(result))
}

// block maps v in [0, peak] to a block character
func block(v, peak float64) rune {
	if peak <= 0 || v <= 0 {
		return SparklineBlocks[0]
	}
	idx := int(v / peak * float64(len(SparklineBlocks)-1))
	if idx >= len(SparklineBlocks) {
		idx = len(SparklineBlocks) - 1
	}
	return SparklineBlocks[idx]
}
