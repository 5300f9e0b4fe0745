// ABOUTME: Compact metric block widget for dashboard displays
// ABOUTME: A titled bordered box holding a value and a subtitle line

package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sultankost/kost/internal/tui/icons"
)

// MetricBlockConfig holds configuration for a metric block
type MetricBlockConfig struct {
	Width       int
	BorderColor lipgloss.Color
	TitleColor  lipgloss.Color
	ValueColor  lipgloss.Color
}

// DefaultMetricBlockConfig returns sensible defaults
func DefaultMetricBlockConfig() MetricBlockConfig {
	return MetricBlockConfig{
		Width:       26,
		BorderColor: lipgloss.Color("#6B7280"), // Muted gray
		TitleColor:  lipgloss.Color("#0EA5E9"), // Sky
		ValueColor:  lipgloss.Color("#F9FAFB"), // Light
	}
}

// MetricBlock renders a block with an icon title, a bold value line and any
// number of extra lines (already styled)
func MetricBlock(icon icons.Icon, title, value string, lines []string, config MetricBlockConfig) string {
	if config.Width <= 0 {
		config.Width = 26
	}
	inner := config.Width - 4

	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Foreground(config.TitleColor).Render(icon.String() + " " + title))
	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Foreground(config.ValueColor).Bold(true).Render(truncate(value, inner)))
	for _, l := range lines {
		sb.WriteString("\n")
		sb.WriteString(l)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(config.BorderColor).
		Padding(0, 1).
		Width(config.Width - 2).
		Render(sb.String())
}

// truncate shortens a string to maxLen runes with an ellipsis if needed
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-1]) + "…"
}
