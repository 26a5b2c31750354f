// Package play implements the question loop screen.
package play

import (
	"context"
	"errors"
	"slices"

	tea "charm.land/bubbletea/v2"

	"github.com/kchang/trivia/internal/game"
	"github.com/kchang/trivia/internal/router"
	"github.com/kchang/trivia/internal/screen"
	"github.com/kchang/trivia/internal/screens/filters"
	"github.com/kchang/trivia/internal/screens/summary"
	"github.com/kchang/trivia/internal/session"
	"github.com/kchang/trivia/internal/ui/components"
	"github.com/kchang/trivia/internal/ui/layout"
)

// requestMsg asks the screen to draw the next question.
type requestMsg struct{}

// PlayScreen presents one question at a time from the live session.
type PlayScreen struct {
	game   *game.Game
	choice components.MultiChoice

	// notice is the last non-question outcome: exhausted or nothing selected.
	notice session.Effect
	errMsg string
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)

// New creates a PlayScreen over the game's live session.
func New(g *game.Game) *PlayScreen {
	return &PlayScreen{game: g}
}

func (p *PlayScreen) Title() string {
	return "Play"
}

func (p *PlayScreen) Init() tea.Cmd {
	st := p.game.State()
	if st == nil {
		return nil
	}
	if st.Phase == session.PhaseAwaitingQuestion {
		return func() tea.Msg { return requestMsg{} }
	}
	p.restore(st)
	return nil
}

// restore rebuilds the option picker for a question already on screen.
func (p *PlayScreen) restore(st *session.State) {
	q := st.Current
	if q == nil {
		return
	}
	p.choice = components.NewMultiChoice(q.Options, slices.Index(q.Options, q.CorrectAnswer))
	if st.Phase == session.PhaseAnswerSubmitted {
		if i := slices.Index(q.Options, st.LastSelected); i >= 0 {
			p.choice.Selected = i
			p.choice.ChosenIndex = i
			p.choice.Submitted = true
		}
	}
}

func (p *PlayScreen) KeyHints() []layout.KeyHint {
	st := p.game.State()
	switch {
	case st == nil:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	case st.Phase == session.PhaseQuestionDisplayed:
		return []layout.KeyHint{
			{Key: "1-4", Description: "Answer"},
			{Key: "↑↓ Enter", Description: "Choose"},
			{Key: "n", Description: "Skip"},
			{Key: "f", Description: "Filters"},
			{Key: "s", Description: "End game"},
		}
	case st.Phase == session.PhaseAnswerSubmitted:
		return []layout.KeyHint{
			{Key: "n/Enter", Description: "Next question"},
			{Key: "f", Description: "Filters"},
			{Key: "s", Description: "End game"},
		}
	}
	return []layout.KeyHint{
		{Key: "f", Description: "Filters"},
		{Key: "n", Description: "Try again"},
		{Key: "s", Description: "End game"},
		{Key: "Esc", Description: "Back"},
	}
}

func (p *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	st := p.game.State()
	if st == nil {
		return p, nil
	}

	switch msg := msg.(type) {
	case requestMsg:
		p.request(st)
		return p, nil

	case filters.AppliedMsg:
		if st.Phase == session.PhaseAwaitingQuestion {
			p.request(st)
		}
		return p, nil

	case tea.KeyMsg:
		return p.handleKey(st, msg)
	}
	return p, nil
}

func (p *PlayScreen) handleKey(st *session.State, msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "f":
		s := filters.New(p.game)
		return p, func() tea.Msg { return router.PushScreenMsg{Screen: s} }
	case "s":
		s := summary.New(p.game, func() screen.Screen { return New(p.game) })
		return p, func() tea.Msg { return router.ReplaceScreenMsg{Screen: s} }
	}

	switch st.Phase {
	case session.PhaseQuestionDisplayed:
		if msg.String() == "n" {
			p.next(st)
			return p, nil
		}
		var cmd tea.Cmd
		p.choice, cmd = p.choice.Update(msg)
		if p.choice.Submitted {
			p.dispatch(st, session.SubmitAnswer{Selected: p.choice.Choice()})
		}
		return p, cmd

	case session.PhaseAnswerSubmitted:
		switch msg.String() {
		case "n", "enter":
			p.next(st)
		}

	case session.PhaseAwaitingQuestion:
		switch msg.String() {
		case "n", "enter":
			p.request(st)
		}
	}
	return p, nil
}

// next leaves the current question, answered or skipped, and draws another.
func (p *PlayScreen) next(st *session.State) {
	if _, err := p.dispatch(st, session.Advance{}); err != nil {
		return
	}
	p.request(st)
}

func (p *PlayScreen) request(st *session.State) {
	effect, err := p.dispatch(st, session.RequestQuestion{})
	if err != nil {
		return
	}
	switch effect {
	case session.EffectShowQuestion:
		p.notice = session.EffectNone
		p.restore(st)
	case session.EffectExhausted, session.EffectNeedSelection:
		p.notice = effect
	}
}

func (p *PlayScreen) dispatch(st *session.State, ev session.Event) (session.Effect, error) {
	effect, err := p.game.Engine().Handle(context.Background(), st, ev)
	if err != nil {
		var te *session.TransitionError
		if !errors.As(err, &te) {
			p.errMsg = err.Error()
		}
		return effect, err
	}
	p.errMsg = ""
	return effect, nil
}
