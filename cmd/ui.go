package cmd

import "github.com/charmbracelet/lipgloss"

// Output styles, matching the dark palette used across our tools.
var (
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#56b6c2"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7fd88f"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f5a742"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e06c75"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
)
