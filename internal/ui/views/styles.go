package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title       lipgloss.Style
	Path        lipgloss.Style
	Dim         lipgloss.Style
	Status      lipgloss.Style
	StatusError lipgloss.Style
	Filter      lipgloss.Style
	Indicator   lipgloss.Style
	Help        lipgloss.Style
	Main        lipgloss.Style
	Scroll      lipgloss.Style
	Selected    lipgloss.Style
	Directory   lipgloss.Style
	File        lipgloss.Style
	Symlink     lipgloss.Style
	Broken      lipgloss.Style
	Special     lipgloss.Style
	Hidden      lipgloss.Style
	Size        lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Path:        lipgloss.NewStyle().Foreground(lipgloss.Color("39")).MarginBottom(1),
		Dim:         lipgloss.NewStyle().Faint(true),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		Filter:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Indicator:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Help:        lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Scroll:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Selected:  lipgloss.NewStyle().Background(lipgloss.Color("238")).Bold(true),
		Directory: lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true), // blue
		File:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Symlink:   lipgloss.NewStyle().Foreground(lipgloss.Color("51")), // cyan
		Broken:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Special:   lipgloss.NewStyle().Foreground(lipgloss.Color("178")),
		Hidden:    lipgloss.NewStyle().Faint(true),
		Size:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
