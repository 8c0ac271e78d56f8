package ui

import (
	"charm.land/lipgloss/v2"
)

// Theme defines the styles used across the builder UI.
type Theme struct {
	Title    lipgloss.Style // app name in the header
	Crumbs   lipgloss.Style // keys pressed so far
	Preview  lipgloss.Style // composed-so-far command
	Key      lipgloss.Style // trigger key column
	Name     lipgloss.Style // node display name
	Count    lipgloss.Style // "+N" child counter
	Prompt   lipgloss.Style // choice/input/search prompts
	Selected lipgloss.Style // highlighted option row
	Flash    lipgloss.Style // transient error flash
	Footer   lipgloss.Style // bottom hint bar
	HelpKey  lipgloss.Style
}

// DefaultTheme returns the standard styles. With noColor set every style is
// a plain passthrough so the output stays readable on dumb terminals.
func DefaultTheme(noColor bool) Theme {
	if noColor {
		plain := lipgloss.NewStyle()
		return Theme{
			Title:    plain,
			Crumbs:   plain,
			Preview:  plain,
			Key:      plain.Bold(true),
			Name:     plain,
			Count:    plain,
			Prompt:   plain,
			Selected: plain.Reverse(true),
			Flash:    plain,
			Footer:   plain,
			HelpKey:  plain.Bold(true),
		}
	}
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		Crumbs:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Preview:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Key:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		Name:     lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		Count:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Prompt:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")),
		Flash:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Footer:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		HelpKey:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
	}
}
