package feed

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	author    lipgloss.Style
	handle    lipgloss.Style
	body      lipgloss.Style
	meta      lipgloss.Style
	counts    lipgloss.Style
	liked     lipgloss.Style
	warning   lipgloss.Style
	section   lipgloss.Style
	empty     lipgloss.Style
	edited    lipgloss.Style
	fieldKey  lipgloss.Style
	fieldVal  lipgloss.Style
	separator lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		header:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		author:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		handle:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		body:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		meta:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		counts:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		liked:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		warning:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:   lipgloss.NewStyle().MarginTop(1),
		empty:     lipgloss.NewStyle().Faint(true),
		edited:    lipgloss.NewStyle().Faint(true).Italic(true),
		fieldKey:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		fieldVal:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		separator: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}
