package tui

import "github.com/charmbracelet/lipgloss"

var (
	// HeaderStyle styles the column header row.
	HeaderStyle = lipgloss.NewStyle().Bold(true)

	// FooterStyle styles the scan footer under the table.
	FooterStyle = lipgloss.NewStyle().Faint(true)

	statusStyles = map[string]lipgloss.Style{
		// The installation the resolver would hand out right now.
		"active": lipgloss.NewStyle().Foreground(lipgloss.Color("2")),

		// Usable but not selected.
		"ok": lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		"rc": lipgloss.NewStyle().Foreground(lipgloss.Color("4")),

		// Needs attention.
		"legacy":  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"invalid": lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

// StatusStyle returns the lipgloss style for the given status string.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
