// Package journal records run and stage history in a local SQLite database.
// The journal is bookkeeping only: entity data lives in snapshot files, and a
// run can complete without a journal at all. Its value is the status command,
// which reads migration progress without touching snapshots.
package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"shuttle/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped when schema.sql changes; an existing database with
// a different version is rejected rather than silently migrated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by an incompatible
// version.
var ErrSchemaMismatch = errors.New("journal schema version mismatch")

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run is one recorded pipeline run.
type Run struct {
	ID         string
	Category   string
	Status     string
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// StageCounts summarizes one stage's outcome.
type StageCounts struct {
	Total       int
	Succeeded   int
	Failed      int
	Skipped     int
	Unavailable int
}

// StageEvent is one recorded stage completion.
type StageEvent struct {
	RunID     string
	Stage     string
	Counts    StageCounts
	CreatedAt time.Time
}

// Store persists run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open opens or creates the journal database under the configured data
// directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "journal.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create journal schema: %w", err)
		}
		if _, err := s.db.ExecContext(ctx,
			"INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d", ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

// BeginRun records the start of a pipeline run.
func (s *Store) BeginRun(ctx context.Context, runID, category string) error {
	if s == nil {
		return nil
	}
	return s.execWithRetry(ctx,
		"INSERT INTO runs (id, category, status, started_at) VALUES (?, ?, ?, ?)",
		runID, category, RunStatusRunning, time.Now().UTC())
}

// FinishRun records a run's final status. The error message is empty for
// completed runs.
func (s *Store) FinishRun(ctx context.Context, runID, status, errMsg string) error {
	if s == nil {
		return nil
	}
	return s.execWithRetry(ctx,
		"UPDATE runs SET status = ?, error = ?, finished_at = ? WHERE id = ?",
		status, errMsg, time.Now().UTC(), runID)
}

// RecordStage appends one stage outcome to the run.
func (s *Store) RecordStage(ctx context.Context, runID, stage string, counts StageCounts) error {
	if s == nil {
		return nil
	}
	return s.execWithRetry(ctx,
		`INSERT INTO stage_events (run_id, stage, total, succeeded, failed, skipped, unavailable, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, stage, counts.Total, counts.Succeeded, counts.Failed, counts.Skipped, counts.Unavailable,
		time.Now().UTC())
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if s == nil {
		return nil, nil
	}
	if limit < 1 {
		limit = 10
	}
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, category, status, error, started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var finished sql.NullTime
		if err := rows.Scan(&run.ID, &run.Category, &run.Status, &run.Error, &run.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			run.FinishedAt = &t
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// StageEvents returns the stage history of one run in recorded order.
func (s *Store) StageEvents(ctx context.Context, runID string) ([]StageEvent, error) {
	if s == nil {
		return nil, nil
	}
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, stage, total, succeeded, failed, skipped, unavailable, created_at
		 FROM stage_events WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query stage events: %w", err)
	}
	defer rows.Close()

	var events []StageEvent
	for rows.Next() {
		var ev StageEvent
		if err := rows.Scan(&ev.RunID, &ev.Stage, &ev.Counts.Total, &ev.Counts.Succeeded,
			&ev.Counts.Failed, &ev.Counts.Skipped, &ev.Counts.Unavailable, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stage event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
