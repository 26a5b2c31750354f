package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kchang/trivia/internal/game/gametest"
	"github.com/kchang/trivia/internal/store"
)

func load(t *testing.T, s *LeaderboardScreen) {
	t.Helper()
	cmd := s.Init()
	require.NotNil(t, cmd)
	s.Update(cmd())
}

func TestEmptyLeaderboard(t *testing.T) {
	s := New(gametest.New(&gametest.Board{}, nil))
	assert.Contains(t, s.View(100, 30), "Loading")

	load(t, s)

	assert.Contains(t, s.View(100, 30), EmptyText)
}

func TestTopTenOrdered(t *testing.T) {
	board := &gametest.Board{}
	for i := 1; i <= 15; i++ {
		require.NoError(t, board.Submit(context.Background(), fmt.Sprintf("player%02d", i), i))
	}
	s := New(gametest.New(board, nil))
	load(t, s)

	require.Len(t, s.entries, 10)
	assert.Equal(t, 15, s.entries[0].Score)
	assert.Equal(t, 6, s.entries[9].Score)

	view := s.View(120, 40)
	assert.Contains(t, view, "Top 10")
	assert.Contains(t, view, "player15")
	assert.NotContains(t, view, "player05")
}

func TestLoadError(t *testing.T) {
	board := &gametest.Board{TopErr: &store.DataStoreError{Op: "top", Err: errors.New("locked")}}
	s := New(gametest.New(board, nil))
	load(t, s)

	assert.Contains(t, s.View(100, 30), "Could not load the leaderboard")
}

func TestRefresh(t *testing.T) {
	board := &gametest.Board{}
	s := New(gametest.New(board, nil))
	load(t, s)
	require.Empty(t, s.entries)

	require.NoError(t, board.Submit(context.Background(), "alice", 4))
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	require.NotNil(t, cmd)
	s.Update(cmd())

	require.Len(t, s.entries, 1)
}

func TestRenderTable(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 6, 0, time.Local)
	out := RenderTable([]store.LeaderboardEntry{
		{ID: 1, Username: "alice", Score: 9, Timestamp: ts},
		{ID: 2, Username: "a-very-long-username-indeed", Score: 7},
	})

	assert.Contains(t, out, "Rank")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "2024-03-09 14:05:06")
	assert.Contains(t, out, "a-very-long-usernam…")
	assert.Contains(t, out, " -")
}
