// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger persists batch run history in a SQLite database: one row
// per run plus one row per leaf-directory outcome. Recording is optional;
// the batch driver works identically without a ledger.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/xapkbatch/internal/batch"
	"github.com/pdiddy/xapkbatch/pkg/types"
)

const defaultMaxRuns = 10

// Store manages the run history SQLite database.
type Store struct {
	db      *sql.DB
	maxRuns int
}

// RunRecord summarizes one recorded batch run.
type RunRecord struct {
	ID         int64     `json:"id" yaml:"id"`
	Root       string    `json:"root" yaml:"root"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	Converted  int       `json:"converted" yaml:"converted"`
	Skipped    int       `json:"skipped" yaml:"skipped"`
	Failed     int       `json:"failed" yaml:"failed"`
}

// Open opens or creates the ledger database at cfg.Path, creating parent
// directories and the schema as needed.
func Open(cfg types.LedgerConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("ledger path is empty")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	maxRuns := cfg.MaxRuns
	if maxRuns <= 0 {
		maxRuns = defaultMaxRuns
	}

	s := &Store{db: db, maxRuns: maxRuns}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			root TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			converted INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS outcomes (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			dir TEXT NOT NULL,
			status TEXT NOT NULL,
			exit_code INTEGER NOT NULL DEFAULT 0,
			recorded_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_run_id ON outcomes(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_status ON outcomes(status)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// BeginRun inserts a new run row for the given root and returns its ID.
func (s *Store) BeginRun(ctx context.Context, root string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (root, started_at) VALUES (?, ?)`,
		root, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}
	return id, nil
}

// RecordOutcomes appends the per-directory outcomes of a run in a single
// transaction.
func (s *Store) RecordOutcomes(ctx context.Context, runID int64, outcomes []types.Outcome) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO outcomes (run_id, dir, status, exit_code, recorded_at)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, o := range outcomes {
		if _, err := stmt.ExecContext(ctx, runID, o.Dir, string(o.Status), o.ExitCode, now); err != nil {
			return fmt.Errorf("inserting outcome for %s: %w", o.Dir, err)
		}
	}

	return tx.Commit()
}

// FinishRun stamps the run's end time and tallies.
func (s *Store) FinishRun(ctx context.Context, runID int64, result batch.Result) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, converted = ?, skipped = ?, failed = ?
		 WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		result.Converted, result.Skipped, result.Failed, runID,
	)
	if err != nil {
		return fmt.Errorf("finishing run %d: %w", runID, err)
	}
	return nil
}

// RecentRuns returns the most recent runs, newest first, up to the
// configured maximum.
func (s *Store) RecentRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, root, started_at, finished_at, converted, skipped, failed
		 FROM runs ORDER BY id DESC LIMIT ?`, s.maxRuns)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var (
			r        RunRecord
			started  string
			finished sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Root, &started, &finished,
			&r.Converted, &r.Skipped, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		if finished.Valid {
			r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished.String)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Outcomes returns the per-directory outcomes of one run, in the order
// they were recorded.
func (s *Store) Outcomes(ctx context.Context, runID int64) ([]types.Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT dir, status, exit_code FROM outcomes
		 WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying outcomes for run %d: %w", runID, err)
	}
	defer rows.Close()

	var outcomes []types.Outcome
	for rows.Next() {
		var (
			o      types.Outcome
			status string
		)
		if err := rows.Scan(&o.Dir, &status, &o.ExitCode); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		o.Status = types.OutcomeStatus(status)
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
