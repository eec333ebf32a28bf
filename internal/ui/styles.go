package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent    = lipgloss.Color("#2BB3A3")
	highlight = lipgloss.Color("#7FDBCA")
	muted     = lipgloss.Color("#6B7280")
	danger    = lipgloss.Color("#FF4757")
	caution   = lipgloss.Color("#F5A623")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			MarginTop(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(muted).
			MarginBottom(1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(danger).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(caution)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(highlight).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(muted).
			MarginTop(1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2)
)
