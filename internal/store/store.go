// Package store owns the SQLite database that holds the shared leaderboard.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
	"go.uber.org/zap"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the database handle and provides access to repositories.
type Store struct {
	db     *sql.DB
	drv    *entsql.Driver
	logger *zap.Logger
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and migrates the schema.
func Open(dsn string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("store")

	db, err := sql.Open("sqlite", withConnPragmas(dsn))
	if err != nil {
		return nil, &DataStoreError{Op: "open", Err: err}
	}

	if err := applyPragmas(db); err != nil {
		_ = db.Close()
		return nil, &DataStoreError{Op: "open", Err: fmt.Errorf("apply pragmas: %w", err)}
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := migrate(context.Background(), drv); err != nil {
		_ = drv.Close()
		logger.Error("schema migration failed", zap.String("dsn", dsn), zap.Error(err))
		return nil, &DataStoreError{Op: "migrate", Err: err}
	}

	logger.Info("database opened", zap.String("dsn", dsn))
	return &Store{db: db, drv: drv, logger: logger}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// Leaderboard returns a Leaderboard backed by this store.
func (s *Store) Leaderboard() *Leaderboard {
	return NewLeaderboard(s.drv, s.logger)
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// withConnPragmas adds the per-connection pragmas to dsn so every pooled
// connection gets them, not just the one applyPragmas ran on.
func withConnPragmas(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)"
}

// Table definitions for the migrator.
var (
	leaderboardColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colUsername, Type: field.TypeString},
		{Name: colScore, Type: field.TypeInt},
		{Name: colTimestamp, Type: field.TypeString},
	}
	leaderboardTable = &schema.Table{
		Name:       tableLeaderboard,
		Columns:    leaderboardColumns,
		PrimaryKey: []*schema.Column{leaderboardColumns[0]},
		Indexes: []*schema.Index{
			{Name: "leaderboard_username", Unique: false, Columns: []*schema.Column{leaderboardColumns[1]}},
			{Name: "leaderboard_score", Unique: false, Columns: []*schema.Column{leaderboardColumns[2]}},
		},
	}
)

func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, leaderboardTable); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// DefaultDataDir resolves the application data directory:
// $XDG_DATA_HOME/trivia, falling back to ~/.local/share/trivia.
func DefaultDataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "trivia"), nil
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
