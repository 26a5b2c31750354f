package cmd

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kchang/trivia/internal/app"
	"github.com/kchang/trivia/internal/config"
	"github.com/kchang/trivia/internal/game"
	"github.com/kchang/trivia/internal/ingest"
	"github.com/kchang/trivia/internal/logging"
	"github.com/kchang/trivia/internal/opentdb"
	"github.com/kchang/trivia/internal/questionstore"
	"github.com/kchang/trivia/internal/store"
)

// env carries what every command needs: resolved config and a logger.
type env struct {
	cfg     config.Config
	logger  *zap.Logger
	cleanup func()
}

func loadEnv() (*env, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	logger, cleanup, err := logging.New(logging.Config{File: cfg.Log.File, Level: cfg.Log.Level})
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return &env{cfg: cfg, logger: logger, cleanup: cleanup}, nil
}

func (e *env) close() {
	e.cleanup()
}

func (e *env) openStore() (*store.Store, error) {
	if err := store.EnsureDir(e.cfg.DB); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	st, err := store.Open(e.cfg.DB, e.logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

func (e *env) questions() *questionstore.Store {
	return questionstore.New(e.cfg.QuestionsFile)
}

func (e *env) ingester(qs *questionstore.Store) *ingest.Ingester {
	client := opentdb.NewClient(opentdb.Config{
		BaseURL: e.cfg.API.BaseURL,
		Timeout: e.cfg.API.Timeout,
	})
	return ingest.New(
		opentdb.WithLogging(client, e.logger),
		qs,
		newRand(),
		ingest.Config{BatchSize: e.cfg.Ingest.BatchSize, Delay: e.cfg.Ingest.Delay},
		e.logger,
	)
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// runApp opens the stores, builds the game and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	qs := e.questions()
	g := game.New(qs, st.Leaderboard(), e.ingester(qs), newRand(), game.Config{
		TopN:       e.cfg.Leaderboard.Limit,
		FetchTotal: e.cfg.Ingest.Total,
	}, e.logger)

	// An empty repository is fine: the welcome screen offers to fetch.
	if err := g.Load(); err != nil && !errors.Is(err, questionstore.ErrRepositoryEmpty) {
		return fmt.Errorf("load questions: %w", err)
	}

	e.logger.Info("starting", zap.String("version", version), zap.Bool("ready", g.Ready()))
	return app.Run(g)
}
