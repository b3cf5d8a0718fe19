// Package history records load runs in a local SQLite database so past
// loads can be inspected with the history command. The store is an
// observability aid: its absence or failure never blocks a load.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run statuses.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Run is one recorded load operation.
type Run struct {
	ID         string
	CSVPath    string
	TableName  string
	Engine     string
	StartedAt  time.Time
	FinishedAt time.Time // zero while the run is in flight
	RowsLoaded int64
	Status     string
	Error      string
}

// Duration returns the run's wall time, or zero while in flight.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	csv_path    TEXT NOT NULL,
	table_name  TEXT NOT NULL,
	engine      TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL DEFAULT '',
	rows_loaded INTEGER NOT NULL DEFAULT 0,
	status      TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// Store is the SQLite-backed run history.
type Store struct {
	db        *sql.DB
	closeOnce sync.Once
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// StartRun records the beginning of a load and returns the run ID.
func (s *Store) StartRun(csvPath, tableName, engine string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO runs (id, csv_path, table_name, engine, started_at, status) VALUES (?, ?, ?, ?, ?, ?)`,
		id, csvPath, tableName, engine, time.Now().UTC().Format(time.RFC3339), StatusRunning)
	if err != nil {
		return "", fmt.Errorf("recording run start: %w", err)
	}
	return id, nil
}

// CompleteRun marks a run successful with its final row count.
func (s *Store) CompleteRun(id string, rowsLoaded int64) error {
	return s.finishRun(id, rowsLoaded, StatusSuccess, "")
}

// FailRun marks a run failed. rowsLoaded is the count committed before
// the failure; some batches may be durably committed on a mid-load
// error, and the history reflects that.
func (s *Store) FailRun(id string, rowsLoaded int64, errMsg string) error {
	return s.finishRun(id, rowsLoaded, StatusFailed, errMsg)
}

func (s *Store) finishRun(id string, rows int64, status, errMsg string) error {
	res, err := s.db.Exec(
		`UPDATE runs SET finished_at = ?, rows_loaded = ?, status = ?, error = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), rows, status, errMsg, id)
	if err != nil {
		return fmt.Errorf("recording run finish: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. A limit of 0
// means all runs.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	q := `SELECT id, csv_path, table_name, engine, started_at, finished_at, rows_loaded, status, error
		FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &r.CSVPath, &r.TableName, &r.Engine,
			&started, &finished, &r.RowsLoaded, &r.Status, &r.Error); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		if finished != "" {
			r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns a single run by ID.
func (s *Store) GetRun(id string) (*Run, error) {
	runs, err := s.ListRuns(0)
	if err != nil {
		return nil, err
	}
	for i := range runs {
		if runs[i].ID == id {
			return &runs[i], nil
		}
	}
	return nil, fmt.Errorf("run %s not found", id)
}

// Close releases the database. Idempotent.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.db.Close()
	})
	return err
}
