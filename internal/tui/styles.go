package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the style definitions for the search widget.
type Styles struct {
	Title   lipgloss.Style
	Code    lipgloss.Style
	Dim     lipgloss.Style
	Error   lipgloss.Style
	Loading lipgloss.Style
	Help    lipgloss.Style
}

// NewStyles creates the default style set.
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Code:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
		Dim:     lipgloss.NewStyle().Faint(true),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Loading: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Help:    lipgloss.NewStyle().Faint(true).MarginTop(1),
	}
}
