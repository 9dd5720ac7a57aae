// Package history records processing runs in a local SQLite database.
// Recording is best effort: callers log failures and keep going, so a broken
// history file can never break processing itself.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Run statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Run represents one recorded processing run.
type Run struct {
	ID           string
	StartedAt    time.Time
	InputPath    string
	OutputPath   string
	Transactions int
	Currency     string
	Divisor      int
	Randomized   bool
	Status       string
	ErrorMessage string
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    started_at INTEGER NOT NULL,  -- Unix timestamp
    input_path TEXT NOT NULL,
    output_path TEXT,
    transactions INTEGER NOT NULL DEFAULT 0,
    currency TEXT,
    divisor INTEGER NOT NULL DEFAULT 0,
    randomized INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL,
    error_message TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// Store persists run records.
type Store struct {
	db *sql.DB
}

// Open opens the history database at path, creating the file and schema as
// needed.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a run. An empty ID gets a fresh UUID and a zero StartedAt
// gets the current time, so callers only fill in what they know.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, input_path, output_path, transactions, currency, divisor, randomized, status, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.Unix(), run.InputPath, run.OutputPath, run.Transactions,
		run.Currency, run.Divisor, boolToInt(run.Randomized), run.Status, run.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	return nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, input_path, output_path, transactions, currency, divisor, randomized, status, error_message
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var startedAt int64
		var randomized int
		if err := rows.Scan(&run.ID, &startedAt, &run.InputPath, &run.OutputPath, &run.Transactions,
			&run.Currency, &run.Divisor, &randomized, &run.Status, &run.ErrorMessage); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.StartedAt = time.Unix(startedAt, 0)
		run.Randomized = randomized != 0
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}

	return runs, nil
}

// Clear deletes all recorded runs and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs")
	if err != nil {
		return 0, fmt.Errorf("failed to clear runs: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleared runs: %w", err)
	}

	return removed, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
