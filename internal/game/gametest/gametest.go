// Package gametest provides in-memory collaborators for tests of code
// built on game.Game.
package gametest

import (
	"context"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/kchang/trivia/internal/game"
	"github.com/kchang/trivia/internal/ingest"
	"github.com/kchang/trivia/internal/questionstore"
	"github.com/kchang/trivia/internal/store"
	"github.com/kchang/trivia/internal/trivia"
)

// Questions returns a small fixed repository: two Geography questions
// (easy, hard) and one History question (easy).
func Questions() []trivia.Question {
	return []trivia.Question{
		{
			ID: 0, Text: "What is the capital of France?", Category: "Geography",
			Difficulty: trivia.DifficultyEasy, Kind: trivia.KindMultiple, CorrectAnswer: "Paris",
			Slots:   [trivia.SlotCount]string{"Paris", "London", "Berlin", "Madrid"},
			Options: []string{"Berlin", "Paris", "London", "Madrid"},
		},
		{
			ID: 1, Text: "What is the capital of Mongolia?", Category: "Geography",
			Difficulty: trivia.DifficultyHard, Kind: trivia.KindMultiple, CorrectAnswer: "Ulaanbaatar",
			Slots:   [trivia.SlotCount]string{"Ulaanbaatar", "Astana", "Bishkek", "Tashkent"},
			Options: []string{"Ulaanbaatar", "Astana", "Bishkek", "Tashkent"},
		},
		{
			ID: 2, Text: "The Battle of Hastings was fought in 1066.", Category: "History",
			Difficulty: trivia.DifficultyEasy, Kind: trivia.KindBoolean, CorrectAnswer: "True",
			Slots:   [trivia.SlotCount]string{"True", "False", "", ""},
			Options: []string{"True", "False"},
		},
	}
}

// Repository serves a fixed collection, or Err when set.
type Repository struct {
	Questions []trivia.Question
	Err       error
}

// Load implements game.Repository.
func (r *Repository) Load() ([]trivia.Question, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	if len(r.Questions) == 0 {
		return nil, questionstore.ErrRepositoryEmpty
	}
	return r.Questions, nil
}

// Board is an in-memory leaderboard.
type Board struct {
	Entries   []store.LeaderboardEntry
	SubmitErr error
	TopErr    error
	Submits   int
}

// Submit implements session.Board.
func (b *Board) Submit(_ context.Context, username string, score int) error {
	b.Submits++
	if b.SubmitErr != nil {
		return b.SubmitErr
	}
	b.Entries = append(b.Entries, store.LeaderboardEntry{
		ID:        len(b.Entries) + 1,
		Username:  username,
		Score:     score,
		Timestamp: time.Date(2024, 5, 1, 12, 0, len(b.Entries), 0, time.Local),
	})
	return nil
}

// TopN implements game.Leaderboard.
func (b *Board) TopN(_ context.Context, n int) ([]store.LeaderboardEntry, error) {
	if b.TopErr != nil {
		return nil, b.TopErr
	}
	out := append([]store.LeaderboardEntry(nil), b.Entries...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Fetcher returns a fixed result after replaying Steps to the progress
// callback.
type Fetcher struct {
	Questions []trivia.Question
	Steps     []ingest.Progress
	Err       error
	Calls     int
}

// Run implements game.Fetcher.
func (f *Fetcher) Run(_ context.Context, _ int, progress func(ingest.Progress)) ([]trivia.Question, error) {
	f.Calls++
	for _, p := range f.Steps {
		if progress != nil {
			progress(p)
		}
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Questions, nil
}

// New returns a Game loaded with Questions and wired to the given fakes.
// Nil board or fetcher are replaced with empty ones.
func New(board *Board, fetcher *Fetcher) *game.Game {
	if board == nil {
		board = &Board{}
	}
	if fetcher == nil {
		fetcher = &Fetcher{Questions: Questions()}
	}
	g := game.New(&Repository{Questions: Questions()}, board, fetcher,
		rand.New(rand.NewPCG(1, 2)), game.Config{}, nil)
	if err := g.Load(); err != nil {
		panic(err)
	}
	return g
}

// Empty returns a Game whose repository has no questions yet.
func Empty(fetcher *Fetcher) *game.Game {
	if fetcher == nil {
		fetcher = &Fetcher{Questions: Questions()}
	}
	return game.New(&Repository{}, &Board{}, fetcher,
		rand.New(rand.NewPCG(1, 2)), game.Config{}, nil)
}

// SelectAll selects every category and difficulty on g's live session.
func SelectAll(g *game.Game) {
	c := g.Engine().Catalog()
	g.Engine().SetFilters(g.State(), c.Categories, c.Difficulties)
}
