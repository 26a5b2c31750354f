package components

import (
	"charm.land/lipgloss/v2"

	"github.com/kchang/trivia/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for stacked cards so
// that they line up.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded-border card at the given content width.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(0, 2).
		Render(content)
}

// TitledCard renders a card whose first line is a bold heading.
func TitledCard(title, content string, cw int) string {
	heading := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(title)
	return Card(heading+"\n"+content, cw)
}

// Centered places content in the middle of a width x height area.
func Centered(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
