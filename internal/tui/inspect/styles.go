package inspect

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("99")
	mutedColor   = lipgloss.Color("245")
	accentColor  = lipgloss.Color("212")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			PaddingLeft(1).
			MarginBottom(1)

	itemStyle = lipgloss.NewStyle().PaddingLeft(2)

	selectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Bold(true).
				Foreground(accentColor)

	detailLabelStyle = lipgloss.NewStyle().Foreground(mutedColor).Width(12)

	footerStyle = lipgloss.NewStyle().Foreground(mutedColor).MarginTop(1)
)
