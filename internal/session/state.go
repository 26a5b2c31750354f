package session

import (
	"time"

	"github.com/kchang/trivia/internal/trivia"
)

// Phase is the position of a session in the question loop.
type Phase int

const (
	PhaseAwaitingQuestion  Phase = iota // No question shown; ready to draw
	PhaseQuestionDisplayed              // Question shown, waiting for an answer
	PhaseAnswerSubmitted                // Answer scored, feedback visible
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingQuestion:
		return "AwaitingQuestion"
	case PhaseQuestionDisplayed:
		return "QuestionDisplayed"
	case PhaseAnswerSubmitted:
		return "AnswerSubmitted"
	}
	return "Unknown"
}

// BoardState is the one-way leaderboard submission latch.
type BoardState int

const (
	BoardOpen         BoardState = iota // No score submitted yet
	BoardSessionEnded                   // Score written; no further submissions
)

// State is the mutable record of one play-through. It is never persisted and
// is only changed through Engine methods.
type State struct {
	// SessionID identifies the play-through in logs and on the summary screen.
	SessionID string

	// StartedAt is when the session was created.
	StartedAt time.Time

	// Score counts correct answers. Never exceeds Total.
	Score int

	// Total counts submitted answers. Skipped questions do not count.
	Total int

	// Used holds the IDs of every question shown so far. It only grows.
	Used map[int]bool

	SelectedCategories   map[string]bool
	SelectedDifficulties map[trivia.Difficulty]bool

	// AllCategoriesSelected mirrors the select/deselect-all toggle.
	AllCategoriesSelected bool

	// Current is the question on screen, nil while awaiting one.
	Current *trivia.Question

	// LastSelected is the option submitted for Current.
	LastSelected string

	AnswerSubmitted   bool
	ShowFeedback      bool
	LastAnswerCorrect bool

	Phase Phase
	Board BoardState
}

// New returns a zero-valued state: nothing used, nothing scored and no
// filters selected.
func New(sessionID string, startedAt time.Time) *State {
	return &State{
		SessionID:            sessionID,
		StartedAt:            startedAt,
		Used:                 make(map[int]bool),
		SelectedCategories:   make(map[string]bool),
		SelectedDifficulties: make(map[trivia.Difficulty]bool),
		Phase:                PhaseAwaitingQuestion,
		Board:                BoardOpen,
	}
}

// Submitted reports whether the leaderboard latch is closed.
func (s *State) Submitted() bool {
	return s.Board == BoardSessionEnded
}

// SelectedCategoryList returns the selected categories in the given order.
func (s *State) SelectedCategoryList(order []string) []string {
	var out []string
	for _, c := range order {
		if s.SelectedCategories[c] {
			out = append(out, c)
		}
	}
	return out
}
