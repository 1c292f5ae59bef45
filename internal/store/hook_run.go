package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// HookRun records one plugin invocation triggered by an event.
type HookRun struct {
	ID        uuid.UUID
	Plugin    string
	Event     string
	SessionID uuid.UUID
	Success   bool
	Error     string
	Duration  time.Duration
	CreatedAt time.Time
}

// HookRunRepository stores HookRuns.
type HookRunRepository struct {
	db *sql.DB
}

// HookRuns returns the hook run repository for this store.
func (s *Store) HookRuns() *HookRunRepository {
	return &HookRunRepository{db: s.db}
}

// Record inserts run, assigning an ID and timestamp when unset.
func (r *HookRunRepository) Record(run *HookRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(
		`INSERT INTO hook_runs (id, plugin, event, session_id, success, error, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.Plugin, run.Event, run.SessionID.String(),
		run.Success, run.Error, run.Duration.Milliseconds(), run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record hook run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (r *HookRunRepository) Recent(limit int) ([]HookRun, error) {
	rows, err := r.db.Query(
		`SELECT id, plugin, event, session_id, success, error, duration_ms, created_at
		 FROM hook_runs ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list hook runs: %w", err)
	}
	defer rows.Close()

	var runs []HookRun
	for rows.Next() {
		var (
			run        HookRun
			id, sessID string
			success    int
			durationMs int64
		)
		if err := rows.Scan(&id, &run.Plugin, &run.Event, &sessID, &success, &run.Error, &durationMs, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan hook run: %w", err)
		}
		if run.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse hook run id: %w", err)
		}
		if run.SessionID, err = uuid.Parse(sessID); err != nil {
			return nil, fmt.Errorf("parse session id: %w", err)
		}
		run.Success = success != 0
		run.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Prune deletes runs older than before and returns how many were removed.
func (r *HookRunRepository) Prune(before time.Time) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM hook_runs WHERE created_at < ?`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune hook runs: %w", err)
	}
	return res.RowsAffected()
}
