// Package ui implements the interactive disclosure browser: a searchable,
// sortable, virtualized table over the loaded dataset.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette. Kept deliberately small; the table is the product here.
var (
	ColorPrimary = lipgloss.Color("#2196F3") // Blue
	ColorAccent  = lipgloss.Color("#8BC34A") // Green
	ColorMuted   = lipgloss.Color("243")
	ColorWarning = lipgloss.Color("#FFC107") // Yellow
	ColorError   = lipgloss.Color("#e53935") // Red
)

// Styles bundles the lipgloss styles used by the browser.
type Styles struct {
	Title     lipgloss.Style
	Header    lipgloss.Style
	HeaderSel lipgloss.Style
	Row       lipgloss.Style
	RowAlt    lipgloss.Style
	Muted     lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Search    lipgloss.Style
}

// DefaultStyles returns the standard browser styling.
func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
		Header:    lipgloss.NewStyle().Bold(true).Underline(true),
		HeaderSel: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(ColorAccent),
		Row:       lipgloss.NewStyle(),
		RowAlt:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Muted:     lipgloss.NewStyle().Foreground(ColorMuted),
		Status:    lipgloss.NewStyle().Foreground(ColorPrimary),
		Error:     lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		Search:    lipgloss.NewStyle().Foreground(ColorAccent),
	}
}
