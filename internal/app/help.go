package app

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/hstiawan/visit-tracker/internal/theme"
)

// helpGroupTitles names the keybinding groups in FullHelp order.
var helpGroupTitles = []string{
	"Navigation",
	"Data",
	"Visit",
}

// renderHelp draws the full keybinding reference.
func (m Model) renderHelp() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	keyStyle := lipgloss.NewStyle().Foreground(theme.ColorTeal).Width(10)
	descStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

	var sections []string
	sections = append(sections, titleStyle.Render("Keyboard shortcuts"), "")

	for i, group := range m.keys.FullHelp() {
		title := ""
		if i < len(helpGroupTitles) {
			title = helpGroupTitles[i]
		}
		sections = append(sections, descStyle.Bold(true).Render(title))
		for _, binding := range group {
			sections = append(sections, renderBinding(binding, keyStyle, descStyle))
		}
		sections = append(sections, "")
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

func renderBinding(b key.Binding, keyStyle, descStyle lipgloss.Style) string {
	h := b.Help()
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		keyStyle.Render(h.Key),
		descStyle.Render(h.Desc),
	)
}
