// Package leaderboard implements the top scores screen.
package leaderboard

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/kchang/trivia/internal/game"
	"github.com/kchang/trivia/internal/screen"
	"github.com/kchang/trivia/internal/store"
	"github.com/kchang/trivia/internal/ui/components"
	"github.com/kchang/trivia/internal/ui/layout"
	"github.com/kchang/trivia/internal/ui/theme"
)

type loadedMsg struct {
	Entries []store.LeaderboardEntry
	Err     error
}

// LeaderboardScreen displays the top scores.
type LeaderboardScreen struct {
	game    *game.Game
	entries []store.LeaderboardEntry
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*LeaderboardScreen)(nil)
var _ screen.KeyHintProvider = (*LeaderboardScreen)(nil)

// New creates a new LeaderboardScreen.
func New(g *game.Game) *LeaderboardScreen {
	return &LeaderboardScreen{game: g}
}

func (s *LeaderboardScreen) Init() tea.Cmd {
	return s.load()
}

func (s *LeaderboardScreen) load() tea.Cmd {
	g := s.game
	return func() tea.Msg {
		entries, err := g.TopScores(context.Background())
		return loadedMsg{Entries: entries, Err: err}
	}
}

func (s *LeaderboardScreen) Title() string {
	return "Leaderboard"
}

func (s *LeaderboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "r", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LeaderboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.entries = msg.Entries
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			return s, s.load()
		}
	}
	return s, nil
}

func (s *LeaderboardScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Top %d", s.game.TopN())))
	b.WriteString("\n\n")

	switch {
	case !s.loaded:
		b.WriteString(theme.Hint.Render("Loading scores..."))
	case s.errMsg != "":
		b.WriteString(theme.Incorrect.Render("Could not load the leaderboard: " + s.errMsg))
	default:
		b.WriteString(RenderTable(s.entries))
	}

	return components.Centered(b.String(), width, height)
}
