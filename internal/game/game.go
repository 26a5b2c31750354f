// Package game bundles the services and the live session shared by the
// terminal screens.
package game

import (
	"context"
	"errors"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/kchang/trivia/internal/ingest"
	"github.com/kchang/trivia/internal/questionstore"
	"github.com/kchang/trivia/internal/session"
	"github.com/kchang/trivia/internal/store"
	"github.com/kchang/trivia/internal/trivia"
)

// Repository loads the durable question collection.
type Repository interface {
	Load() ([]trivia.Question, error)
}

// Leaderboard records and ranks final scores.
type Leaderboard interface {
	session.Board
	TopN(ctx context.Context, n int) ([]store.LeaderboardEntry, error)
}

// Fetcher rebuilds the repository from the remote API.
type Fetcher interface {
	Run(ctx context.Context, estimatedTotal int, progress func(ingest.Progress)) ([]trivia.Question, error)
}

// Config holds presentation settings.
type Config struct {
	// TopN is how many leaderboard rows to show. Default: 10.
	TopN int

	// FetchTotal is the ingestion target; <= 0 asks the API.
	FetchTotal int
}

// Game is the application context passed to every screen. It is only
// touched from the Bubble Tea update loop.
type Game struct {
	repo    Repository
	board   Leaderboard
	fetcher Fetcher
	rng     *rand.Rand
	cfg     Config
	logger  *zap.Logger

	engine *session.Engine
	state  *session.State
}

// New creates a Game with no questions loaded. board and fetcher may be nil.
func New(repo Repository, board Leaderboard, fetcher Fetcher, rng *rand.Rand, cfg Config, logger *zap.Logger) *Game {
	if cfg.TopN <= 0 {
		cfg.TopN = store.DefaultTopN
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Game{
		repo:    repo,
		board:   board,
		fetcher: fetcher,
		rng:     rng,
		cfg:     cfg,
		logger:  logger,
	}
}

// Load reads the repository and starts a session over it. An empty
// repository is reported as questionstore.ErrRepositoryEmpty and leaves the
// game not ready.
func (g *Game) Load() error {
	questions, err := g.repo.Load()
	if err != nil {
		if !errors.Is(err, questionstore.ErrRepositoryEmpty) {
			g.logger.Error("load questions", zap.Error(err))
		}
		return err
	}
	g.Use(questions)
	return nil
}

// Use installs a freshly ingested or loaded collection and starts a new
// session over it. Question IDs are only meaningful within one collection,
// so the previous session cannot carry over.
func (g *Game) Use(questions []trivia.Question) {
	var board session.Board
	if g.board != nil {
		board = g.board
	}
	g.engine = session.NewEngine(questions, g.rng, board, session.WithLogger(g.logger))
	g.state = g.engine.NewState()
	g.logger.Info("session started",
		zap.String("session_id", g.state.SessionID),
		zap.Int("questions", len(questions)))
}

// Ready reports whether questions are loaded.
func (g *Game) Ready() bool {
	return g.engine != nil
}

// Engine returns the current engine, nil before Load or Use.
func (g *Game) Engine() *session.Engine {
	return g.engine
}

// State returns the live session, nil before Load or Use.
func (g *Game) State() *session.State {
	return g.state
}

// Score returns the running score and answer count.
func (g *Game) Score() (score, total int) {
	if g.state == nil {
		return 0, 0
	}
	return g.state.Score, g.state.Total
}

// NewSession discards the live session and starts another over the same
// questions. Filter selections are carried over.
func (g *Game) NewSession() {
	if g.engine == nil {
		return
	}
	prev := g.state
	g.state = g.engine.NewState()
	if prev != nil {
		var diffs []trivia.Difficulty
		for d, on := range prev.SelectedDifficulties {
			if on {
				diffs = append(diffs, d)
			}
		}
		g.engine.SetFilters(g.state, prev.SelectedCategoryList(g.engine.Catalog().Categories), diffs)
	}
	g.logger.Info("session started", zap.String("session_id", g.state.SessionID))
}

// CanFetch reports whether a Fetcher is configured.
func (g *Game) CanFetch() bool {
	return g.fetcher != nil
}

// Fetch runs ingestion. It is safe to call from a command goroutine: it
// does not touch the session. Install the result with Use.
func (g *Game) Fetch(ctx context.Context, progress func(ingest.Progress)) ([]trivia.Question, error) {
	if g.fetcher == nil {
		return nil, errors.New("fetching is not configured")
	}
	return g.fetcher.Run(ctx, g.cfg.FetchTotal, progress)
}

// FetchTotal returns the configured ingestion target.
func (g *Game) FetchTotal() int {
	return g.cfg.FetchTotal
}

// TopScores returns the leaderboard. Safe to call from a command goroutine.
func (g *Game) TopScores(ctx context.Context) ([]store.LeaderboardEntry, error) {
	if g.board == nil {
		return nil, session.ErrNoLeaderboard
	}
	return g.board.TopN(ctx, g.cfg.TopN)
}

// TopN returns how many leaderboard rows are shown.
func (g *Game) TopN() int {
	return g.cfg.TopN
}
