package tui

import "github.com/charmbracelet/lipgloss"

// Styles.
var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	navStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	navActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	formLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	formFocusStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")).Width(10)
	loadingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)
