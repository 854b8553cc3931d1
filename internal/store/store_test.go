package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testRun(token string, at time.Time) Run {
	return Run{
		Token:     token,
		CreatedAt: at,
		Ending:    2,
		GoalEvent: "e_goal_c",
		SlotData: map[string]any{
			"ending":    2,
			"hard_maya": true,
		},
		Fingerprint: "deadbeef",
		Diagnostics: 0,
	}
}

func TestOpenIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopen against the existing file; schema application must be a no-op.
	s, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestOpenPragmas(t *testing.T) {
	s := openTestStore(t)

	var mode string
	require.NoError(t, s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode))
	require.Equal(t, "wal", mode)

	var fk int
	require.NoError(t, s.DB().QueryRow("PRAGMA foreign_keys").Scan(&fk))
	require.Equal(t, 1, fk)
}

func TestWriteGetRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.WriteRun(ctx, testRun("018f0000-0000-7000-8000-000000000001", at)))

	got, err := s.GetRun(ctx, "018f0000-0000-7000-8000-000000000001")
	require.NoError(t, err)
	require.Equal(t, "e_goal_c", got.GoalEvent)
	require.Equal(t, 2, got.Ending)
	require.Equal(t, "deadbeef", got.Fingerprint)
	require.True(t, got.CreatedAt.Equal(at))

	// JSON round-trip turns numbers into float64.
	require.Equal(t, float64(2), got.SlotData["ending"])
	require.Equal(t, true, got.SlotData["hard_maya"])
}

func TestWriteRunIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run := testRun("018f0000-0000-7000-8000-000000000002", time.Now())
	require.NoError(t, s.WriteRun(ctx, run))

	// Second write with the same token is silently ignored, even when the
	// payload differs.
	run.GoalEvent = "e_goal_a"
	require.NoError(t, s.WriteRun(ctx, run))

	got, err := s.GetRun(ctx, run.Token)
	require.NoError(t, err)
	require.Equal(t, "e_goal_c", got.GoalEvent)
}

func TestGetRunNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetRun(context.Background(), "no-such-token")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListRunsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := testRun(
			"018f0000-0000-7000-8000-00000000000"+string(rune('3'+i)),
			base.Add(time.Duration(i)*time.Minute),
		)
		require.NoError(t, s.WriteRun(ctx, run))
	}

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	require.True(t, runs[0].CreatedAt.After(runs[1].CreatedAt))
	require.True(t, runs[1].CreatedAt.After(runs[2].CreatedAt))

	limited, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	require.Equal(t, runs[0].Token, limited[0].Token)
}

func TestCountByFingerprint(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a := testRun("018f0000-0000-7000-8000-00000000000a", time.Now())
	b := testRun("018f0000-0000-7000-8000-00000000000b", time.Now())
	c := testRun("018f0000-0000-7000-8000-00000000000c", time.Now())
	c.Fingerprint = "cafef00d"

	for _, run := range []Run{a, b, c} {
		require.NoError(t, s.WriteRun(ctx, run))
	}

	n, err := s.CountByFingerprint(ctx, "deadbeef")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	n, err = s.CountByFingerprint(ctx, "absent")
	require.NoError(t, err)
	require.Equal(t, 0, n)
}
