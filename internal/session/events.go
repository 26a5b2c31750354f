package session

import (
	"context"
	"errors"

	"github.com/kchang/trivia/internal/trivia"
)

// Event is a discrete user action fed to Engine.Handle.
type Event interface {
	eventName() string
}

// RequestQuestion asks for the next question.
type RequestQuestion struct{}

// SubmitAnswer submits the chosen option for the current question.
type SubmitAnswer struct {
	Selected string
}

// Advance moves past the current question, answered or not.
type Advance struct{}

// SubmitScore records the session score on the leaderboard.
type SubmitScore struct {
	Username string
}

// SetFilters replaces the category and difficulty selections.
type SetFilters struct {
	Categories   []string
	Difficulties []trivia.Difficulty
}

func (RequestQuestion) eventName() string { return "RequestQuestion" }
func (SubmitAnswer) eventName() string    { return "SubmitAnswer" }
func (Advance) eventName() string         { return "Advance" }
func (SubmitScore) eventName() string     { return "SubmitScore" }
func (SetFilters) eventName() string      { return "SetFilters" }

// Effect tells the presentation layer what to render after an event.
type Effect int

const (
	EffectNone          Effect = iota
	EffectShowQuestion         // Current holds a fresh question
	EffectShowFeedback         // Answer scored; show FeedbackMessage
	EffectExhausted            // Filters leave nothing unseen
	EffectNeedSelection        // A filter set is empty
	EffectScoreSaved           // Leaderboard latch closed
)

func (e Effect) String() string {
	switch e {
	case EffectNone:
		return "None"
	case EffectShowQuestion:
		return "ShowQuestion"
	case EffectShowFeedback:
		return "ShowFeedback"
	case EffectExhausted:
		return "Exhausted"
	case EffectNeedSelection:
		return "NeedSelection"
	case EffectScoreSaved:
		return "ScoreSaved"
	}
	return "Unknown"
}

// Handle applies ev to st and reports the resulting effect. Exhaustion and an
// empty selection are expected outcomes and come back as effects with a nil
// error. Invalid transitions, bad usernames and storage failures are returned
// as errors with EffectNone.
func (e *Engine) Handle(ctx context.Context, st *State, ev Event) (Effect, error) {
	switch ev := ev.(type) {
	case RequestQuestion:
		err := e.RequestQuestion(st)
		switch {
		case err == nil:
			return EffectShowQuestion, nil
		case errors.Is(err, ErrQuestionsExhausted):
			return EffectExhausted, nil
		case errors.Is(err, ErrNothingSelected):
			return EffectNeedSelection, nil
		}
		return EffectNone, err

	case SubmitAnswer:
		if _, err := e.SubmitAnswer(st, ev.Selected); err != nil {
			return EffectNone, err
		}
		return EffectShowFeedback, nil

	case Advance:
		if err := e.Advance(st); err != nil {
			return EffectNone, err
		}
		return EffectNone, nil

	case SubmitScore:
		if err := e.SubmitToLeaderboard(ctx, st, ev.Username); err != nil {
			return EffectNone, err
		}
		return EffectScoreSaved, nil

	case SetFilters:
		e.SetFilters(st, ev.Categories, ev.Difficulties)
		return EffectNone, nil
	}
	return EffectNone, &TransitionError{Event: eventName(ev), Phase: st.Phase}
}

func eventName(ev Event) string {
	if ev == nil {
		return "<nil>"
	}
	return ev.eventName()
}
