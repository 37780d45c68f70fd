package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const runColumns = `id, root, status, failure_policy, workers, moved, extracted, fallback,
	failed, cleaned, dirs_scanned, started_at, finished_at`

// BeginRun inserts run with status running.
func (s *Store) BeginRun(ctx context.Context, run Run) error {
	if strings.TrimSpace(run.ID) == "" {
		return errors.New("journal: run id is empty")
	}
	started := run.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	_, err := s.exec(ctx,
		`INSERT INTO runs (id, root, status, failure_policy, workers, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Root, string(StatusRunning), run.FailurePolicy, run.Workers, formatTime(started),
	)
	if err != nil {
		return fmt.Errorf("journal: begin run %s: %w", run.ID, err)
	}
	return nil
}

// RecordOutcome appends a per-file entry to an open run.
func (s *Store) RecordOutcome(ctx context.Context, entry Entry) error {
	recorded := entry.RecordedAt
	if recorded.IsZero() {
		recorded = time.Now()
	}
	_, err := s.exec(ctx,
		`INSERT INTO outcomes (run_id, source, destination, category, action, error_message, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID, entry.Source, nullString(entry.Destination), entry.Category, entry.Action,
		nullString(entry.Error), formatTime(recorded),
	)
	if err != nil {
		return fmt.Errorf("journal: record outcome for %s: %w", entry.Source, err)
	}
	return nil
}

// FinishRun stores the final status and counters of run.
func (s *Store) FinishRun(ctx context.Context, run Run) error {
	finished := run.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	res, err := s.exec(ctx,
		`UPDATE runs SET status = ?, moved = ?, extracted = ?, fallback = ?, failed = ?, cleaned = ?,
		 dirs_scanned = ?, finished_at = ? WHERE id = ?`,
		string(run.Status), run.Moved, run.Extracted, run.Fallback, run.Failed, run.Cleaned,
		run.DirsScanned, formatTime(finished), run.ID,
	)
	if err != nil {
		return fmt.Errorf("journal: finish run %s: %w", run.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("journal: finish run %s: run not found", run.ID)
	}
	return nil
}

// GetRun returns a run by id, or nil when it does not exist.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("journal: get run %s: %w", id, err)
	}
	return run, nil
}

// RecentRuns returns up to limit runs, newest first. A non-positive limit
// returns every run.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("journal: scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Outcomes returns the entries recorded for runID in insertion order.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT id, run_id, source, destination, category, action, error_message, recorded_at
		 FROM outcomes WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("journal: list outcomes: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry       Entry
			destination sql.NullString
			errMessage  sql.NullString
			recordedRaw string
		)
		if err := rows.Scan(&entry.ID, &entry.RunID, &entry.Source, &destination, &entry.Category,
			&entry.Action, &errMessage, &recordedRaw); err != nil {
			return nil, fmt.Errorf("journal: scan outcome: %w", err)
		}
		entry.Destination = destination.String
		entry.Error = errMessage.String
		entry.RecordedAt = parseTime(recordedRaw)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run         Run
		status      string
		startedRaw  string
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(&run.ID, &run.Root, &status, &run.FailurePolicy, &run.Workers,
		&run.Moved, &run.Extracted, &run.Fallback, &run.Failed, &run.Cleaned, &run.DirsScanned,
		&startedRaw, &finishedRaw); err != nil {
		return nil, err
	}
	run.Status = Status(status)
	run.StartedAt = parseTime(startedRaw)
	if finishedRaw.Valid {
		run.FinishedAt = parseTime(finishedRaw.String)
	}
	return &run, nil
}

// timeLayout is fixed width so started_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
