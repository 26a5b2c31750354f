package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/kchang/trivia/internal/game"
	"github.com/kchang/trivia/internal/router"
	"github.com/kchang/trivia/internal/screen"
	"github.com/kchang/trivia/internal/screens/fetch"
	"github.com/kchang/trivia/internal/screens/filters"
	"github.com/kchang/trivia/internal/screens/leaderboard"
	"github.com/kchang/trivia/internal/screens/play"
	"github.com/kchang/trivia/internal/ui/components"
	"github.com/kchang/trivia/internal/ui/layout"
)

// HomeScreen shows repository statistics, the running score and the main
// menu.
type HomeScreen struct {
	game *game.Game
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(g *game.Game) *HomeScreen {
	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			s := build()
			return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		}
	}

	items := []components.MenuItem{
		{Label: "Play", Action: push(func() screen.Screen { return play.New(g) })},
		{Label: "Filters", Action: push(func() screen.Screen { return filters.New(g) })},
		{Label: "Leaderboard", Action: push(func() screen.Screen { return leaderboard.New(g) })},
		{
			Label:    "Fetch questions again",
			Hint:     "starts a new game",
			Action:   push(func() screen.Screen { return fetch.New(g, nil) }),
			Disabled: !g.CanFetch(),
		},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	}

	return &HomeScreen{
		game: g,
		menu: components.NewMenu(items),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "p", Description: "Play"},
		{Key: "q", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "q":
			return h, tea.Quit
		case "p":
			s := play.New(h.game)
			return h, func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	compact := layout.IsCompactWidth(width)

	var sections []string
	if h.game.Ready() {
		sections = append(sections, renderStats(h.game.Engine().Catalog(), cw, compact))
		score, total := h.game.Score()
		sections = append(sections, renderScore(score, total, cw))
	}
	sections = append(sections, components.Card(h.menu.View(), cw))

	return components.Centered(strings.Join(sections, "\n"), width, height)
}
