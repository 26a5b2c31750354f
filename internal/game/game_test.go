package game_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kchang/trivia/internal/game"
	"github.com/kchang/trivia/internal/game/gametest"
	"github.com/kchang/trivia/internal/ingest"
	"github.com/kchang/trivia/internal/questionstore"
	"github.com/kchang/trivia/internal/session"
)

func newGame(repo game.Repository) *game.Game {
	return game.New(repo, &gametest.Board{}, &gametest.Fetcher{}, rand.New(rand.NewPCG(7, 7)), game.Config{}, nil)
}

func TestLoad_EmptyRepository(t *testing.T) {
	g := newGame(&gametest.Repository{})

	err := g.Load()
	assert.ErrorIs(t, err, questionstore.ErrRepositoryEmpty)
	assert.False(t, g.Ready())
	assert.Nil(t, g.State())

	score, total := g.Score()
	assert.Zero(t, score)
	assert.Zero(t, total)
}

func TestLoad_StartsSession(t *testing.T) {
	g := newGame(&gametest.Repository{Questions: gametest.Questions()})

	require.NoError(t, g.Load())
	assert.True(t, g.Ready())
	require.NotNil(t, g.State())
	assert.Equal(t, 3, g.Engine().Catalog().Total)
	assert.Empty(t, g.State().SelectedCategories)
}

func TestLoad_PropagatesReadErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	g := newGame(&gametest.Repository{Err: boom})

	assert.ErrorIs(t, g.Load(), boom)
	assert.False(t, g.Ready())
}

func TestNewSession_KeepsFiltersResetsScore(t *testing.T) {
	g := gametest.New(nil, nil)
	st := g.State()
	g.Engine().ToggleCategory(st, "History")
	require.NoError(t, g.Engine().RequestQuestion(st))
	_, err := g.Engine().SubmitAnswer(st, "True")
	require.NoError(t, err)
	oldID := st.SessionID

	g.NewSession()

	assert.NotEqual(t, oldID, g.State().SessionID)
	score, total := g.Score()
	assert.Zero(t, score)
	assert.Zero(t, total)
	assert.Empty(t, g.State().Used)
	assert.Equal(t, map[string]bool{"History": true}, g.State().SelectedCategories)
}

func TestFetch_DoesNotTouchSession(t *testing.T) {
	fetched := gametest.Questions()[:1]
	fetcher := &gametest.Fetcher{
		Questions: fetched,
		Steps:     []ingest.Progress{{Stage: ingest.StageToken}, {Stage: ingest.StageDone, Retrieved: 1, Target: 1}},
	}
	g := gametest.New(nil, fetcher)
	before := g.State()

	var stages []ingest.Stage
	qs, err := g.Fetch(context.Background(), func(p ingest.Progress) { stages = append(stages, p.Stage) })
	require.NoError(t, err)

	assert.Equal(t, []ingest.Stage{ingest.StageToken, ingest.StageDone}, stages)
	assert.Same(t, before, g.State())

	g.Use(qs)
	assert.NotSame(t, before, g.State())
	assert.Equal(t, 1, g.Engine().Catalog().Total)
}

func TestFetch_NotConfigured(t *testing.T) {
	g := game.New(&gametest.Repository{}, nil, nil, rand.New(rand.NewPCG(1, 1)), game.Config{}, nil)

	assert.False(t, g.CanFetch())
	_, err := g.Fetch(context.Background(), nil)
	assert.Error(t, err)
}

func TestTopScores(t *testing.T) {
	board := &gametest.Board{}
	g := gametest.New(board, nil)
	for i := 0; i < 12; i++ {
		require.NoError(t, board.Submit(context.Background(), "p", i))
	}

	top, err := g.TopScores(context.Background())
	require.NoError(t, err)
	assert.Len(t, top, 10)
	assert.Equal(t, 11, top[0].Score)
	assert.Equal(t, 10, g.TopN())
}

func TestTopScores_NoBoard(t *testing.T) {
	g := game.New(&gametest.Repository{}, nil, nil, rand.New(rand.NewPCG(1, 1)), game.Config{}, nil)

	_, err := g.TopScores(context.Background())
	assert.ErrorIs(t, err, session.ErrNoLeaderboard)
}

func TestSubmitThroughGameBoard(t *testing.T) {
	board := &gametest.Board{}
	g := gametest.New(board, nil)
	gametest.SelectAll(g)
	st := g.State()

	require.NoError(t, g.Engine().RequestQuestion(st))
	_, err := g.Engine().SubmitAnswer(st, st.Current.CorrectAnswer)
	require.NoError(t, err)
	require.NoError(t, g.Engine().SubmitToLeaderboard(context.Background(), st, "alice"))

	require.Len(t, board.Entries, 1)
	assert.Equal(t, "alice", board.Entries[0].Username)
	assert.Equal(t, 1, board.Entries[0].Score)
}
