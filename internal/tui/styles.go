package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#FF6E4A")
	muted  = lipgloss.Color("241")

	titleStyle     = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	headingStyle   = lipgloss.NewStyle().Bold(true)
	tipStyle       = lipgloss.NewStyle().Foreground(muted).Italic(true)
	highlightStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	focusStyle     = lipgloss.NewStyle().Foreground(accent)
	costStyle      = lipgloss.NewStyle().Bold(true)
	sectionStyle   = lipgloss.NewStyle().MarginTop(1)
	footerStyle    = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			MarginTop(1)
)
