package components

import (
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/kchang/trivia/internal/ui/layout"
	"github.com/kchang/trivia/internal/ui/theme"
)

// Button is an action bound to one or more keys. Only an armed button
// reacts to them.
type Button struct {
	Label   string
	Keys    []string
	Armed   bool
	OnPress func() tea.Cmd
}

// NewButton creates an armed button. With no keys it answers to Enter.
func NewButton(label string, onPress func() tea.Cmd, keys ...string) Button {
	if len(keys) == 0 {
		keys = []string{"enter"}
	}
	return Button{
		Label:   label,
		Keys:    keys,
		Armed:   true,
		OnPress: onPress,
	}
}

func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || !b.Armed || b.OnPress == nil {
		return b, nil
	}
	if slices.Contains(b.Keys, kmsg.String()) {
		return b, b.OnPress()
	}
	return b, nil
}

// Hint describes the button for the footer, e.g. "Enter/r  Retry".
func (b Button) Hint() layout.KeyHint {
	names := make([]string, len(b.Keys))
	for i, k := range b.Keys {
		if k == "enter" {
			k = "Enter"
		}
		names[i] = k
	}
	return layout.KeyHint{Key: strings.Join(names, "/"), Description: b.Label}
}

func (b Button) View() string {
	label := "▸ " + b.Label
	if b.Armed {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}
