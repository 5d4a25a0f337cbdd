// Package view renders backend records as terminal markup. Every function is
// a pure mapping from its input to a string; none of them perform I/O.
package view

import "github.com/charmbracelet/lipgloss"

// Styles.
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	labelStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	chartStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("33")) // navy-ish line
	cardStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

// Placeholder renders the dim message shown when a panel has no data.
func Placeholder(msg string) string {
	return dimStyle.Render(msg)
}

func card(title string, body string) string {
	return cardStyle.Render(sectionStyle.Render(" "+title+" ") + "\n" + body)
}

func field(label, value string) string {
	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// sentimentStyle colours a sentiment label.
func sentimentStyle(s string) lipgloss.Style {
	switch s {
	case "positive":
		return positiveStyle
	case "negative":
		return negativeStyle
	default:
		return valueStyle
	}
}
