package welcome

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kchang/trivia/internal/router"
	"github.com/kchang/trivia/internal/screen"
	"github.com/kchang/trivia/internal/ui/components"
	"github.com/kchang/trivia/internal/ui/layout"
	"github.com/kchang/trivia/internal/ui/theme"
)

const intro = "No questions have been downloaded yet.\n" +
	"Questions come from the Open Trivia Database and are fetched once,\n" +
	"politely paced at one request every few seconds. This takes a few minutes."

// WelcomeScreen is shown while the question repository is empty. Fetching
// only starts when the user asks for it.
type WelcomeScreen struct {
	menu         components.Menu
	fetchFactory func() screen.Screen
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that replaces itself with the screen produced
// by fetchFactory when the user chooses to fetch.
func New(fetchFactory func() screen.Screen) *WelcomeScreen {
	w := &WelcomeScreen{fetchFactory: fetchFactory}
	w.menu = components.NewMenu([]components.MenuItem{
		{Label: "Fetch questions", Hint: "download the question set", Action: w.transition},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	})
	return w
}

func (w *WelcomeScreen) Title() string {
	return "Welcome"
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "q", Description: "Quit"},
	}
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return nil
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "q":
			return w, tea.Quit
		case "f":
			return w, w.transition()
		}
	}

	var cmd tea.Cmd
	w.menu, cmd = w.menu.Update(msg)
	return w, cmd
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.fetchFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{
		RenderBanner(width),
		"",
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Test your knowledge, then claim your spot on the leaderboard."),
		"",
		theme.Subtitle.Render(intro),
		"",
		w.menu.View(),
	}
	return components.Centered(strings.Join(sections, "\n"), width, height)
}
