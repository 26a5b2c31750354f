package session

import (
	"errors"
	"fmt"
)

var (
	// ErrQuestionsExhausted means the filters and the used set leave no candidates.
	ErrQuestionsExhausted = errors.New("no more questions match the selected filters")

	// ErrNothingSelected means the category or difficulty selection is empty.
	ErrNothingSelected = errors.New("please select at least one category and difficulty")

	// ErrInvalidUsername is returned for an empty or whitespace-only name.
	ErrInvalidUsername = errors.New("invalid username")

	// ErrAlreadySubmitted is returned once the session's score has been recorded.
	ErrAlreadySubmitted = errors.New("score already submitted for this session")

	// ErrNothingToSubmit is returned before any question has been answered.
	ErrNothingToSubmit = errors.New("answer at least one question before submitting")

	// ErrNoLeaderboard is returned when the engine has no Board.
	ErrNoLeaderboard = errors.New("no leaderboard configured")
)

// TransitionError reports an event that is not valid in the current phase.
type TransitionError struct {
	Event string
	Phase Phase
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s is not allowed in phase %s", e.Event, e.Phase)
}
