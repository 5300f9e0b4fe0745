// ABOUTME: Progress bar with threshold colouring for occupancy displays
// ABOUTME: Low occupancy is red, middling amber and healthy green

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBarConfig holds configuration for the progress bar
type ProgressBarConfig struct {
	Width         int
	LowThreshold  float64 // below this the bar is critical (default 50)
	GoodThreshold float64 // at or above this the bar is healthy (default 80)
	GoodColor     lipgloss.Color
	WarnColor     lipgloss.Color
	CritColor     lipgloss.Color
	EmptyColor    lipgloss.Color
}

// DefaultProgressBarConfig returns sensible defaults
func DefaultProgressBarConfig() ProgressBarConfig {
	return ProgressBarConfig{
		Width:         20,
		LowThreshold:  50,
		GoodThreshold: 80,
		GoodColor:     lipgloss.Color("#10B981"), // Green
		WarnColor:     lipgloss.Color("#F59E0B"), // Amber
		CritColor:     lipgloss.Color("#EF4444"), // Red
		EmptyColor:    lipgloss.Color("#374151"), // Dark gray
	}
}

// Level returns the status level of percent under config
func (c ProgressBarConfig) Level(percent float64) StatusLevel {
	switch {
	case percent >= c.GoodThreshold:
		return StatusOK
	case percent >= c.LowThreshold:
		return StatusWarning
	default:
		return StatusCritical
	}
}

func (c ProgressBarConfig) color(level StatusLevel) lipgloss.Color {
	switch level {
	case StatusOK:
		return c.GoodColor
	case StatusWarning:
		return c.WarnColor
	default:
		return c.CritColor
	}
}

// ProgressBar renders percent as a bar coloured by its level
func ProgressBar(percent float64, config ProgressBarConfig) string {
	if config.Width <= 0 {
		config.Width = 20
	}
	percent = clampPercent(percent)

	filled := int(percent / 100.0 * float64(config.Width))
	color := config.color(config.Level(percent))

	return "[" +
		lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(config.EmptyColor).Render(strings.Repeat("░", config.Width-filled)) +
		"]"
}

// ProgressBarWithLabel renders the bar followed by the percentage and a
// status icon
func ProgressBarWithLabel(percent float64, config ProgressBarConfig) string {
	level := config.Level(clampPercent(percent))
	style := lipgloss.NewStyle().Foreground(config.color(level))
	return fmt.Sprintf("%s %s %s", ProgressBar(percent, config), style.Render(fmt.Sprintf("%3.0f%%", percent)), StatusIcon(level))
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
