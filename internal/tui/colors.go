package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/duedeck/internal/models"
)

// Color constants for the duedeck TUI theme
const (
	ColorBorder = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Field labels, user input, titles
	ColorSecondaryText = "#B1B8C7"
	ColorDisabledText  = "#6D7383"
	ColorPlaceholder   = "#B1B8C7"
	ColorHelpText      = "240"

	// Accent Colors
	ColorAccentMain   = "#7C3AED" // Logo, active borders
	ColorAccentBright = "#A78BFA" // Highlights, focused field

	// State Colors
	ColorError   = "#EF4444" // Validation errors, overdue
	ColorSuccess = "#22C55E"
	ColorWarning = "#F59E0B"

	// Priority Colors
	ColorP1         = "#EF4444"
	ColorP2         = "#F59E0B"
	ColorP3         = "#38BDF8"
	ColorBackburner = "#6D7383"
)

// priorityColor maps a priority tier to its column accent
func priorityColor(p models.Priority) lipgloss.Color {
	switch p {
	case models.PriorityP1:
		return lipgloss.Color(ColorP1)
	case models.PriorityP2:
		return lipgloss.Color(ColorP2)
	case models.PriorityP3:
		return lipgloss.Color(ColorP3)
	case models.PriorityBackburner:
		return lipgloss.Color(ColorBackburner)
	}
	return lipgloss.Color(ColorSuccess)
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}
