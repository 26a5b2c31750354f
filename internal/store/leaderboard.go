package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"go.uber.org/zap"
)

const (
	tableLeaderboard = "leaderboard"
	colID            = "id"
	colUsername      = "username"
	colScore         = "score"
	colTimestamp     = "timestamp"

	// DefaultTopN is the number of entries shown on the leaderboard.
	DefaultTopN = 10

	// TimestampLayout is the ISO form timestamps are stored in.
	TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"
)

// Layouts accepted when reading timestamps back.
var timestampLayouts = []string{
	TimestampLayout,
	time.RFC3339Nano,
}

// naiveLayout matches Python's str(datetime.now()), found in rows written
// by older tools. It carries no zone and was written in local time.
const naiveLayout = "2006-01-02 15:04:05.999999"

// LeaderboardEntry is one recorded final score.
type LeaderboardEntry struct {
	ID        int
	Username  string
	Score     int
	Timestamp time.Time
}

// Leaderboard appends and queries final scores. Entries are never updated
// or deleted.
type Leaderboard struct {
	drv    dialect.Driver
	now    func() time.Time
	logger *zap.Logger
}

// NewLeaderboard creates a Leaderboard over an ent SQL driver.
func NewLeaderboard(drv dialect.Driver, logger *zap.Logger) *Leaderboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Leaderboard{drv: drv, now: time.Now, logger: logger}
}

// Submit appends one entry stamped with the current time.
func (l *Leaderboard) Submit(ctx context.Context, username string, score int) error {
	ts := l.now().Format(TimestampLayout)
	query, args := entsql.Dialect(l.drv.Dialect()).
		Insert(tableLeaderboard).
		Columns(colUsername, colScore, colTimestamp).
		Values(username, score, ts).
		Query()

	var res sql.Result
	if err := l.drv.Exec(ctx, query, args, &res); err != nil {
		return &DataStoreError{Op: "submit", Err: err}
	}

	fields := []zap.Field{zap.String("username", username), zap.Int("score", score)}
	if id, err := res.LastInsertId(); err == nil {
		fields = append(fields, zap.Int64("id", id))
	}
	l.logger.Info("leaderboard entry written", fields...)
	return nil
}

// TopN returns up to n entries by score descending. Equal scores keep
// insertion order. n <= 0 means DefaultTopN.
func (l *Leaderboard) TopN(ctx context.Context, n int) ([]LeaderboardEntry, error) {
	if n <= 0 {
		n = DefaultTopN
	}
	query, args := entsql.Dialect(l.drv.Dialect()).
		Select(colID, colUsername, colScore, colTimestamp).
		From(entsql.Table(tableLeaderboard)).
		OrderBy(entsql.Desc(colScore), entsql.Asc(colID)).
		Limit(n).
		Query()

	rows := &entsql.Rows{}
	if err := l.drv.Query(ctx, query, args, rows); err != nil {
		return nil, &DataStoreError{Op: "top", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var entries []LeaderboardEntry
	for rows.Next() {
		var (
			e  LeaderboardEntry
			ts string
		)
		if err := rows.Scan(&e.ID, &e.Username, &e.Score, &ts); err != nil {
			return nil, &DataStoreError{Op: "top", Err: err}
		}
		e.Timestamp = parseTimestamp(ts)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &DataStoreError{Op: "top", Err: err}
	}
	return entries, nil
}

// parseTimestamp returns the zero time for values it cannot read.
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(naiveLayout, s, time.Local); err == nil {
		return t
	}
	return time.Time{}
}

// FormatTime renders an entry time for display, or "-" when unknown.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
