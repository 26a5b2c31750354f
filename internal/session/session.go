// Package session implements the per-play-through state machine: drawing
// questions, scoring answers and the one-shot leaderboard submission.
package session

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kchang/trivia/internal/selection"
	"github.com/kchang/trivia/internal/trivia"
)

// Board records final scores.
type Board interface {
	Submit(ctx context.Context, username string, score int) error
}

// Engine owns the immutable question repository and applies transitions to
// a State. It holds no per-session data itself.
type Engine struct {
	questions []trivia.Question
	catalog   selection.Catalog
	rng       *rand.Rand
	board     Board
	now       func() time.Time
	logger    *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger.Named("session")
		}
	}
}

// NewEngine creates an Engine over questions. board may be nil, in which
// case leaderboard submission always fails.
func NewEngine(questions []trivia.Question, rng *rand.Rand, board Board, opts ...Option) *Engine {
	e := &Engine{
		questions: questions,
		catalog:   selection.NewCatalog(questions),
		rng:       rng,
		board:     board,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog describes the repository the engine draws from.
func (e *Engine) Catalog() selection.Catalog {
	return e.catalog
}

// NewState starts a session: nothing used or scored, no categories
// selected and every known difficulty selected.
func (e *Engine) NewState() *State {
	st := New(uuid.NewString(), e.now())
	for _, d := range e.catalog.Difficulties {
		st.SelectedDifficulties[d] = true
	}
	return st
}

// RequestQuestion draws the next question. Valid only while awaiting one.
// On ErrNothingSelected or ErrQuestionsExhausted the state is unchanged.
func (e *Engine) RequestQuestion(st *State) error {
	if st.Phase != PhaseAwaitingQuestion {
		return e.reject("RequestQuestion", st)
	}
	if len(st.SelectedCategories) == 0 || len(st.SelectedDifficulties) == 0 {
		return ErrNothingSelected
	}

	filtered := selection.ApplyFilters(e.questions, st.SelectedCategories, st.SelectedDifficulties)
	q, ok := selection.Draw(e.rng, filtered, st.Used)
	if !ok {
		return ErrQuestionsExhausted
	}

	st.Used[q.ID] = true
	st.Current = &q
	st.LastSelected = ""
	st.Phase = PhaseQuestionDisplayed
	return nil
}

// SubmitAnswer scores selected against the current question by exact string
// equality. Valid only while a question is displayed, so an answer is never
// counted twice.
func (e *Engine) SubmitAnswer(st *State, selected string) (bool, error) {
	if st.Phase != PhaseQuestionDisplayed || st.Current == nil {
		return false, e.reject("SubmitAnswer", st)
	}

	correct := st.Current.IsCorrect(selected)
	st.Total++
	if correct {
		st.Score++
	}
	st.LastSelected = selected
	st.LastAnswerCorrect = correct
	st.AnswerSubmitted = true
	st.ShowFeedback = true
	st.Phase = PhaseAnswerSubmitted
	return correct, nil
}

// Advance clears the current question. From AnswerSubmitted it moves on
// after feedback; from QuestionDisplayed it skips the question unscored. A
// skipped question stays used.
func (e *Engine) Advance(st *State) error {
	if st.Phase != PhaseAnswerSubmitted && st.Phase != PhaseQuestionDisplayed {
		return e.reject("Advance", st)
	}
	st.Current = nil
	st.LastSelected = ""
	st.AnswerSubmitted = false
	st.ShowFeedback = false
	st.Phase = PhaseAwaitingQuestion
	return nil
}

// Submission is a validated leaderboard entry for one session.
type Submission struct {
	SessionID string
	Username  string
	Score     int
	Total     int
}

// SubmitToLeaderboard records the session's score under username. It
// succeeds at most once per session; a failed write leaves the latch open
// so the user can try again.
func (e *Engine) SubmitToLeaderboard(ctx context.Context, st *State, username string) error {
	sub, err := e.PrepareSubmission(st, username)
	if err != nil {
		return err
	}
	if err := e.WriteSubmission(ctx, sub); err != nil {
		return err
	}
	e.MarkSubmitted(st, sub)
	return nil
}

// PrepareSubmission validates a leaderboard submission without touching
// st or the board.
func (e *Engine) PrepareSubmission(st *State, username string) (Submission, error) {
	if st.Submitted() {
		return Submission{}, ErrAlreadySubmitted
	}
	if st.Total == 0 {
		return Submission{}, ErrNothingToSubmit
	}
	name := strings.TrimSpace(username)
	if name == "" {
		return Submission{}, ErrInvalidUsername
	}
	if e.board == nil {
		return Submission{}, ErrNoLeaderboard
	}
	return Submission{SessionID: st.SessionID, Username: name, Score: st.Score, Total: st.Total}, nil
}

// WriteSubmission stores sub on the leaderboard. It reads no session state,
// so it may run off the update loop.
func (e *Engine) WriteSubmission(ctx context.Context, sub Submission) error {
	if e.board == nil {
		return ErrNoLeaderboard
	}
	if err := e.board.Submit(ctx, sub.Username, sub.Score); err != nil {
		e.logger.Error("leaderboard submission failed",
			zap.String("session_id", sub.SessionID),
			zap.Error(err))
		return err
	}
	return nil
}

// MarkSubmitted closes the session's submission latch after a successful
// write.
func (e *Engine) MarkSubmitted(st *State, sub Submission) {
	st.Board = BoardSessionEnded
	e.logger.Info("score submitted",
		zap.String("session_id", sub.SessionID),
		zap.String("username", sub.Username),
		zap.Int("score", sub.Score),
		zap.Int("total", sub.Total))
}

// SetFilters replaces both selections. Used, Score and Total are kept.
func (e *Engine) SetFilters(st *State, categories []string, difficulties []trivia.Difficulty) {
	st.SelectedCategories = make(map[string]bool, len(categories))
	for _, c := range categories {
		st.SelectedCategories[c] = true
	}
	st.SelectedDifficulties = make(map[trivia.Difficulty]bool, len(difficulties))
	for _, d := range difficulties {
		st.SelectedDifficulties[d] = true
	}
	e.syncAllCategories(st)
}

// ToggleCategory flips one category in the selection.
func (e *Engine) ToggleCategory(st *State, category string) {
	if st.SelectedCategories[category] {
		delete(st.SelectedCategories, category)
	} else {
		st.SelectedCategories[category] = true
	}
	e.syncAllCategories(st)
}

// ToggleDifficulty flips one difficulty in the selection.
func (e *Engine) ToggleDifficulty(st *State, d trivia.Difficulty) {
	if st.SelectedDifficulties[d] {
		delete(st.SelectedDifficulties, d)
	} else {
		st.SelectedDifficulties[d] = true
	}
}

// ToggleAllCategories selects every category, or clears the selection when
// all are already selected.
func (e *Engine) ToggleAllCategories(st *State) {
	if st.AllCategoriesSelected {
		st.SelectedCategories = make(map[string]bool)
		st.AllCategoriesSelected = false
		return
	}
	st.SelectedCategories = e.catalog.CategorySet()
	st.AllCategoriesSelected = len(e.catalog.Categories) > 0
}

func (e *Engine) syncAllCategories(st *State) {
	all := len(e.catalog.Categories) > 0
	for _, c := range e.catalog.Categories {
		if !st.SelectedCategories[c] {
			all = false
			break
		}
	}
	st.AllCategoriesSelected = all
}

// Remaining counts unused questions under the current filters.
func (e *Engine) Remaining(st *State) int {
	filtered := selection.ApplyFilters(e.questions, st.SelectedCategories, st.SelectedDifficulties)
	return selection.Remaining(filtered, st.Used)
}

func (e *Engine) reject(event string, st *State) error {
	err := &TransitionError{Event: event, Phase: st.Phase}
	e.logger.Warn("invalid transition",
		zap.String("session_id", st.SessionID),
		zap.String("event", event),
		zap.Stringer("phase", st.Phase))
	return err
}

// FeedbackMessage describes the outcome of the last submitted answer.
func FeedbackMessage(st *State) string {
	if !st.ShowFeedback || st.Current == nil {
		return ""
	}
	if st.LastAnswerCorrect {
		return fmt.Sprintf("Correct! You have %d out of %d points.", st.Score, st.Total)
	}
	return fmt.Sprintf("Incorrect. The correct answer was: %s. You have %d out of %d points.",
		st.Current.CorrectAnswer, st.Score, st.Total)
}
