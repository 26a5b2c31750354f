package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "trivia.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		t.Run(tt.pragma, func(t *testing.T) {
			var got string
			require.NoError(t, db.QueryRow("PRAGMA "+tt.pragma).Scan(&got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpen_MigratesLeaderboardTable(t *testing.T) {
	s := openTestStore(t)

	var name string
	err := s.DB().QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'leaderboard'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "leaderboard", name)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trivia.db")
	s, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Leaderboard().Submit(context.Background(), "ana", 3))
	require.NoError(t, s.Close())

	s, err = Open(path, nil)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	top, err := s.Leaderboard().TopN(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "ana", top[0].Username)
}

func TestLeaderboard_TopNOfFifteen(t *testing.T) {
	s := openTestStore(t)
	lb := s.Leaderboard()
	ctx := context.Background()

	scores := []int{5, 12, 3, 9, 14, 1, 7, 11, 2, 8, 13, 6, 10, 4, 0}
	for i, score := range scores {
		require.NoError(t, lb.Submit(ctx, "player", score), "entry %d", i)
	}

	top, err := lb.TopN(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 10)

	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Score, top[i].Score)
	}
	assert.Equal(t, 14, top[0].Score)
	assert.Equal(t, 5, top[9].Score)
}

func TestLeaderboard_TiesKeepInsertionOrder(t *testing.T) {
	s := openTestStore(t)
	lb := s.Leaderboard()
	ctx := context.Background()

	require.NoError(t, lb.Submit(ctx, "first", 7))
	require.NoError(t, lb.Submit(ctx, "second", 7))
	require.NoError(t, lb.Submit(ctx, "third", 9))

	top, err := lb.TopN(ctx, 0)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"third", "first", "second"}, []string{top[0].Username, top[1].Username, top[2].Username})
	assert.Less(t, top[1].ID, top[2].ID)
}

func TestLeaderboard_ManyEntriesPerUsername(t *testing.T) {
	s := openTestStore(t)
	lb := s.Leaderboard()
	ctx := context.Background()

	require.NoError(t, lb.Submit(ctx, "ana", 1))
	require.NoError(t, lb.Submit(ctx, "ana", 1))

	top, err := lb.TopN(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, top, 2)
}

func TestLeaderboard_TimestampRoundTrip(t *testing.T) {
	s := openTestStore(t)
	lb := s.Leaderboard()
	stamp := time.Date(2026, 5, 4, 3, 2, 1, 123456000, time.UTC)
	lb.now = func() time.Time { return stamp }

	require.NoError(t, lb.Submit(context.Background(), "ana", 4))

	var raw string
	require.NoError(t, s.DB().QueryRow(`SELECT timestamp FROM leaderboard`).Scan(&raw))
	assert.Equal(t, "2026-05-04T03:02:01.123456Z", raw)

	top, err := lb.TopN(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.True(t, stamp.Equal(top[0].Timestamp))
}

func TestLeaderboard_Empty(t *testing.T) {
	s := openTestStore(t)
	top, err := s.Leaderboard().TopN(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func newMockLeaderboard(t *testing.T) (*Leaderboard, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewLeaderboard(entsql.OpenDB(dialect.SQLite, db), nil), mock
}

func TestLeaderboard_SubmitError(t *testing.T) {
	lb, mock := newMockLeaderboard(t)
	mock.ExpectExec("INSERT INTO `leaderboard`").
		WithArgs("ana", 3, sqlmock.AnyArg()).
		WillReturnError(errors.New("database is locked"))

	err := lb.Submit(context.Background(), "ana", 3)
	var dsErr *DataStoreError
	require.ErrorAs(t, err, &dsErr)
	assert.Equal(t, "submit", dsErr.Op)
	assert.Contains(t, err.Error(), "database is locked")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaderboard_TopNQueryError(t *testing.T) {
	lb, mock := newMockLeaderboard(t)
	mock.ExpectQuery("SELECT (.+) FROM `leaderboard` ORDER BY `score` DESC, `id` ASC LIMIT 10").
		WillReturnError(errors.New("disk I/O error"))

	_, err := lb.TopN(context.Background(), 10)
	var dsErr *DataStoreError
	require.ErrorAs(t, err, &dsErr)
	assert.Equal(t, "top", dsErr.Op)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaderboard_TopNScanError(t *testing.T) {
	lb, mock := newMockLeaderboard(t)
	rows := sqlmock.NewRows([]string{"id", "username", "score", "timestamp"}).
		AddRow(1, "ana", "not-a-number", "2026-01-01T00:00:00.000000Z")
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	_, err := lb.TopN(context.Background(), 5)
	var dsErr *DataStoreError
	require.ErrorAs(t, err, &dsErr)
}

func TestLeaderboard_TopNFromMock(t *testing.T) {
	lb, mock := newMockLeaderboard(t)
	rows := sqlmock.NewRows([]string{"id", "username", "score", "timestamp"}).
		AddRow(2, "bo", 9, "2026-01-01 10:00:00.500000").
		AddRow(1, "ana", 4, "garbage")
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	top, err := lb.TopN(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, 2026, top[0].Timestamp.Year(), "legacy python timestamps parse")
	assert.True(t, top[1].Timestamp.IsZero())
	assert.Equal(t, "-", FormatTime(top[1].Timestamp))
}

func TestParseTimestamp_NaiveRowsAreLocalTime(t *testing.T) {
	orig := time.Local
	time.Local = time.FixedZone("UTC+3", 3*60*60)
	t.Cleanup(func() { time.Local = orig })

	ts := parseTimestamp("2026-01-01 10:00:00.500000")
	_, offset := ts.Zone()
	assert.Equal(t, 3*60*60, offset)
	assert.Equal(t, "2026-01-01 10:00:00", FormatTime(ts))

	// Zoned values keep their zone and are converted for display.
	utc := parseTimestamp("2026-01-01T10:00:00.000000Z")
	assert.Equal(t, "2026-01-01 13:00:00", FormatTime(utc))
}

func TestDefaultDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	dir, err := DefaultDataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg-data", "trivia"), dir)
}

func TestEnsureDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "trivia.db")
	require.NoError(t, EnsureDir(path))
	assert.DirExists(t, filepath.Dir(path))
}

func TestWithConnPragmas(t *testing.T) {
	assert.Equal(t, "x.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)", withConnPragmas("x.db"))
	assert.Contains(t, withConnPragmas("file:x.db?mode=rwc"), "mode=rwc&_pragma=")
	assert.Equal(t, "x.db?_pragma=foo(1)", withConnPragmas("x.db?_pragma=foo(1)"))
}
