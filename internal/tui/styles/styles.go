// ABOUTME: Shared lipgloss styles for the storefront browser
// ABOUTME: Brand palette, frame pieces and order status badges

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/delcarajo/storefront/internal/models"
)

var (
	// Colors - Core palette
	Primary   = lipgloss.Color("#F59E0B") // Amber
	Secondary = lipgloss.Color("#10B981") // Green
	Warning   = lipgloss.Color("#F97316") // Orange
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Text      = lipgloss.Color("#F9FAFB") // Light
	Info      = lipgloss.Color("#3B82F6") // Blue

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			MarginBottom(1)

	Error = lipgloss.NewStyle().
		Foreground(Danger).
		Bold(true)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(1, 2)

	Help = lipgloss.NewStyle().
		Foreground(Muted).
		MarginTop(1)

	// Key style for keyboard shortcuts
	KeyStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	// Price in bolívares
	LocalPrice = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)
)

// StatusColor maps an order status to its badge color
func StatusColor(s models.OrderStatus) lipgloss.Color {
	switch s {
	case models.StatusPendingPayment:
		return Primary
	case models.StatusPaymentConfirmed:
		return Info
	case models.StatusInTransit:
		return Warning
	case models.StatusDelivered:
		return Secondary
	case models.StatusCancelled:
		return Danger
	default:
		return Muted
	}
}

// StatusBadge renders the Spanish label of s on its status color
func StatusBadge(s models.OrderStatus) string {
	return lipgloss.NewStyle().
		Background(StatusColor(s)).
		Foreground(lipgloss.Color("#000000")).
		Padding(0, 1).
		Bold(true).
		Render(s.Label())
}
