package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kchang/trivia/internal/game"
	"github.com/kchang/trivia/internal/router"
	"github.com/kchang/trivia/internal/screen"
	"github.com/kchang/trivia/internal/screens/leaderboard"
	"github.com/kchang/trivia/internal/session"
	"github.com/kchang/trivia/internal/store"
	"github.com/kchang/trivia/internal/ui/components"
	"github.com/kchang/trivia/internal/ui/layout"
	"github.com/kchang/trivia/internal/ui/theme"
)

const maxUsernameLen = 32

// submittedMsg carries the result of a leaderboard write back to the
// update loop.
type submittedMsg struct {
	Sub     session.Submission
	Err     error
	Entries []store.LeaderboardEntry
	TopErr  error
}

// SummaryScreen ends the game: it shows the final score, records it on the
// leaderboard once and then shows the top scores. Leaving it starts a new
// session unless the player chose to keep playing.
type SummaryScreen struct {
	game   *game.Game
	input  components.TextInput
	resume func() screen.Screen

	pending bool
	saved   bool
	entries []store.LeaderboardEntry
	errMsg  string
	keep    bool
	closed  bool
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.Closer = (*SummaryScreen)(nil)

// New creates a new SummaryScreen for the game's live session. resume
// builds the screen shown when the player keeps playing the same session;
// nil hides that action.
func New(g *game.Game, resume func() screen.Screen) *SummaryScreen {
	return &SummaryScreen{
		game:   g,
		input:  components.NewTextInput("Your name", maxUsernameLen),
		resume: resume,
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *SummaryScreen) Title() string {
	return "Game Over"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	var hints []layout.KeyHint
	if s.saved {
		hints = []layout.KeyHint{
			{Key: "Enter", Description: "New game"},
			{Key: "Esc", Description: "Home"},
		}
	} else {
		hints = []layout.KeyHint{
			{Key: "Enter", Description: "Submit score"},
			{Key: "Esc", Description: "Skip"},
		}
	}
	if s.resume != nil {
		hints = append(hints, layout.KeyHint{Key: "Tab", Description: "Keep playing"})
	}
	return hints
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		s.finish(msg)
		return s, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if s.saved {
				return s, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return s, s.submit()
		case "tab":
			if s.resume != nil && !s.pending {
				s.keep = true
				next := s.resume()
				return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
			}
			return s, nil
		}
	}
	if s.saved || s.pending {
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// submit validates the name on the update loop and returns a command that
// writes the score and reloads the top scores.
func (s *SummaryScreen) submit() tea.Cmd {
	st := s.game.State()
	if st == nil || s.pending {
		return nil
	}
	eng := s.game.Engine()
	sub, err := eng.PrepareSubmission(st, s.input.Value())
	if err != nil {
		s.fail(err)
		return nil
	}

	s.pending = true
	s.errMsg = ""
	g := s.game
	return func() tea.Msg {
		ctx := context.Background()
		if err := eng.WriteSubmission(ctx, sub); err != nil {
			return submittedMsg{Sub: sub, Err: err}
		}
		entries, err := g.TopScores(ctx)
		return submittedMsg{Sub: sub, Entries: entries, TopErr: err}
	}
}

func (s *SummaryScreen) finish(msg submittedMsg) {
	s.pending = false
	if msg.Err != nil {
		s.fail(msg.Err)
		return
	}
	if st := s.game.State(); st != nil && st.SessionID == msg.Sub.SessionID {
		s.game.Engine().MarkSubmitted(st, msg.Sub)
	}

	s.saved = true
	s.errMsg = ""
	s.input.Submit(true)
	s.input.Blur()
	if msg.TopErr != nil {
		s.errMsg = "Your score was saved, but the leaderboard could not be loaded."
		return
	}
	s.entries = msg.Entries
}

func (s *SummaryScreen) fail(err error) {
	s.errMsg = describeError(err)
	s.input.Submit(false)
	if errors.Is(err, session.ErrAlreadySubmitted) {
		s.saved = true
		s.input.Blur()
	}
}

func describeError(err error) string {
	var dsErr *store.DataStoreError
	switch {
	case errors.Is(err, session.ErrInvalidUsername):
		return "Please enter a name."
	case errors.Is(err, session.ErrNothingToSubmit):
		return "Answer at least one question to get on the leaderboard."
	case errors.Is(err, session.ErrAlreadySubmitted):
		return "This game's score has already been submitted."
	case errors.As(err, &dsErr):
		return "Could not save your score. Please try again."
	}
	return err.Error()
}

// Close starts a fresh session once the finished game is left behind.
func (s *SummaryScreen) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.keep {
		return
	}
	s.game.NewSession()
}

func (s *SummaryScreen) View(width, height int) string {
	st := s.game.State()
	if st == nil {
		return ""
	}
	sum := s.game.Engine().Summary(st)

	var b strings.Builder
	b.WriteString(theme.Title.Render("Game over!"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(
		fmt.Sprintf("You scored %d out of %d (%.0f%%)", sum.Score, sum.Total, sum.Percent)))
	b.WriteString("\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Duration: %d:%02d", mins, secs)))
	b.WriteString("\n\n")

	if s.pending {
		b.WriteString(theme.Subtitle.Render("Saving score..."))
		b.WriteString("\n")
	} else if !s.saved {
		b.WriteString(theme.Body.Render("Enter your name for the leaderboard:"))
		b.WriteString("\n")
		b.WriteString(s.input.View())
		b.WriteString("\n")
	} else if s.entries != nil || s.errMsg == "" {
		b.WriteString(theme.Correct.Render("Score saved!"))
		b.WriteString("\n\n")
		b.WriteString(leaderboard.RenderTable(s.entries))
		b.WriteString("\n")
	}

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.Incorrect.Render(s.errMsg))
	}

	return components.Centered(b.String(), width, height)
}
