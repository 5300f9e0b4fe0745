// ABOUTME: Status levels and coloured status text with icons
// ABOUTME: Colours room statuses and rent periods

package widgets

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/sultankost/kost/internal/client"
	"github.com/sultankost/kost/internal/tui/icons"
)

// StatusLevel represents the severity of a status
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusInfo
	StatusNeutral
)

// rentWarningDays is how close to the end of a rent period a tenant is
// flagged
const rentWarningDays = 7

var levelColors = map[StatusLevel]lipgloss.Color{
	StatusOK:       lipgloss.Color("#10B981"),
	StatusWarning:  lipgloss.Color("#F59E0B"),
	StatusCritical: lipgloss.Color("#EF4444"),
	StatusInfo:     lipgloss.Color("#3B82F6"),
	StatusNeutral:  lipgloss.Color("#6B7280"),
}

// RoomStatusLevel maps a room status to a level: vacant rooms are
// highlighted because they are the ones to fill
func RoomStatusLevel(status string) StatusLevel {
	switch status {
	case client.StatusVacant:
		return StatusOK
	case client.StatusOccupied:
		return StatusInfo
	case client.StatusMaintenance:
		return StatusWarning
	default:
		return StatusNeutral
	}
}

// RentLevel maps the days left in a rent period to a level
func RentLevel(daysLeft int) StatusLevel {
	switch {
	case daysLeft < 0:
		return StatusCritical
	case daysLeft <= rentWarningDays:
		return StatusWarning
	default:
		return StatusOK
	}
}

// StatusIcon returns the appropriate icon for a status level
func StatusIcon(level StatusLevel) string {
	icon := "•"
	switch level {
	case StatusOK:
		icon = icons.CheckOK.String()
	case StatusWarning:
		icon = icons.Warning.String()
	case StatusCritical:
		icon = icons.Critical.String()
	case StatusInfo:
		icon = icons.Info.String()
	}
	return lipgloss.NewStyle().Foreground(levelColor(level)).Render(icon)
}

// StatusText returns styled status text with icon
func StatusText(text string, level StatusLevel) string {
	textStyle := lipgloss.NewStyle().Foreground(levelColor(level))
	return fmt.Sprintf("%s %s", StatusIcon(level), textStyle.Render(text))
}

func levelColor(level StatusLevel) lipgloss.Color {
	if c, ok := levelColors[level]; ok {
		return c
	}
	return levelColors[StatusNeutral]
}
