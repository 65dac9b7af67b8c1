package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	// Status colors
	Completed = lipgloss.Color("#95E1A3") // Green
	Pending   = lipgloss.Color("#FFE66D") // Yellow
	Failed    = lipgloss.Color("#FF6B6B") // Red

	// Direction colors
	Incoming = lipgloss.Color("#95E1A3") // Green
	Outgoing = lipgloss.Color("#FF6B6B") // Red

	// UI colors
	Primary   = lipgloss.Color("#4ECDC4")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
)

// Styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	BalanceStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)

	StaleStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Italic(true)

	ListStyle = lipgloss.NewStyle().
			Padding(1, 2)

	RowStyle = lipgloss.NewStyle().
			Padding(0, 1)

	RowSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Bold(true).
				Foreground(Primary)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(Failed).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1)

	DetailStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(1, 2)

	IncomingStyle = lipgloss.NewStyle().Foreground(Incoming)
	OutgoingStyle = lipgloss.NewStyle().Foreground(Outgoing)
)

// statusStyle returns the style for a transaction status badge.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case "completed":
		return lipgloss.NewStyle().Foreground(Completed)
	case "failed":
		return lipgloss.NewStyle().Foreground(Failed)
	default:
		return lipgloss.NewStyle().Foreground(Pending)
	}
}
