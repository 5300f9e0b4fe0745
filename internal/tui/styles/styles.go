// ABOUTME: Shared lipgloss styles for the kost admin TUI
// ABOUTME: One palette for panels, headings and money figures across screens

package styles

import "github.com/charmbracelet/lipgloss"

var (
	Primary   = lipgloss.Color("#14B8A6") // Teal
	Secondary = lipgloss.Color("#22C55E") // Green, money in
	Danger    = lipgloss.Color("#F43F5E") // Rose, overdue rent
	Muted     = lipgloss.Color("#78716C") // Stone
	Text      = lipgloss.Color("#FAFAF9")

	// Surface backs the selected table row
	Surface = lipgloss.Color("#44403C")

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted)

	// StatusOK marks confirmations such as a recorded payment
	StatusOK = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// StatusCritical marks errors and overdue tenants
	StatusCritical = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(1, 2)

	// ActivePanel frames the screen that has focus
	ActivePanel = Panel.
			BorderForeground(Primary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)
)
