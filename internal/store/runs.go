package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/mossgen/internal/logic"
)

// ErrNotFound is returned when a run token has no record.
var ErrNotFound = errors.New("run not found")

// Run is one generation run's history record.
type Run struct {
	// Token is the UUIDv7 run token. Primary key.
	Token string

	// CreatedAt is the run timestamp, stored in RFC 3339 UTC.
	CreatedAt time.Time

	// Ending is the configured ending value as given, which may be
	// out of range; GoalEvent records what it actually resolved to.
	Ending int

	// GoalEvent is the goal event the run completed through.
	GoalEvent string

	// SlotData is the flat option record exported with the run.
	SlotData map[string]any

	// Fingerprint is the graph content hash for the run's rule set
	// and options.
	Fingerprint string

	// Diagnostics counts rule-compilation diagnostics logged during
	// the build. Zero for a clean run.
	Diagnostics int
}

// WriteRun inserts a run record. Duplicate tokens are silently ignored -
// writing the same run twice is a no-op, not an error.
//
// Slot data is serialized to canonical JSON per RFC 8785 so byte
// comparison of stored records is meaningful.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	slotJSON, err := logic.MarshalCanonical(run.SlotData)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs
		(token, created_at, ending, goal_event, slot_data, fingerprint, diagnostics)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`,
		run.Token,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
		run.Ending,
		run.GoalEvent,
		string(slotJSON),
		run.Fingerprint,
		run.Diagnostics,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	return nil
}

// GetRun reads a single run by token. Returns ErrNotFound when the token
// has no record.
func (s *Store) GetRun(ctx context.Context, token string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT token, created_at, ending, goal_event, slot_data, fingerprint, diagnostics
		FROM runs
		WHERE token = ?
	`, token)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("get run %s: %w", token, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", token, err)
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first. A limit of 0 or less
// means no limit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT token, created_at, ending, goal_event, slot_data, fingerprint, diagnostics
		FROM runs
		ORDER BY created_at DESC, token DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	return runs, nil
}

// CountByFingerprint returns how many recorded runs share a graph
// fingerprint. Useful for spotting how often an option set reproduces the
// same topology.
func (s *Store) CountByFingerprint(ctx context.Context, fingerprint string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM runs WHERE fingerprint = ?`, fingerprint,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count runs by fingerprint: %w", err)
	}
	return n, nil
}

// scanner abstracts sql.Row and sql.Rows for scanRun.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run       Run
		createdAt string
		slotJSON  string
	)
	if err := row.Scan(&run.Token, &createdAt, &run.Ending, &run.GoalEvent, &slotJSON, &run.Fingerprint, &run.Diagnostics); err != nil {
		return Run{}, err
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at: %w", err)
	}
	run.CreatedAt = ts

	if err := json.Unmarshal([]byte(slotJSON), &run.SlotData); err != nil {
		return Run{}, fmt.Errorf("parse slot_data: %w", err)
	}

	return run, nil
}
