// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal records conversion attempts in a SQLite database so past
// batches can be reviewed with the history command. Only outcomes are
// stored; selections are not.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/autobatch/pkg/types"
)

const defaultLimit = 20

// Store manages the journal database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the journal database at path and creates the schema
// if it does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	s := &Store{db: db}
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
			started_at TEXT NOT NULL,
			dir TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			name TEXT NOT NULL,
			base TEXT NOT NULL,
			output TEXT NOT NULL,
			exit_code INTEGER NOT NULL,
			status TEXT NOT NULL,
			error TEXT,
			started_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_run_id ON attempts(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_name ON attempts(name)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Run is a recorder scoped to one batch. It implements convert.Recorder.
type Run struct {
	store *Store
	ID    int64
}

// BeginRun registers a new batch for dir and returns its recorder.
func (s *Store) BeginRun(ctx context.Context, dir string) (*Run, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, dir) VALUES (?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano), dir,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading run id: %w", err)
	}
	return &Run{store: s, ID: id}, nil
}

// Record stores one conversion attempt.
func (r *Run) Record(ctx context.Context, item types.ItemResult) error {
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO attempts (run_id, name, base, output, exit_code, status, error, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, item.Name, item.Base, item.Output, item.ExitCode, string(item.Status),
		nullString(item.Error), item.StartedAt.UTC().Format(time.RFC3339Nano),
		item.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("inserting attempt for %s: %w", item.Name, err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Attempt is a journal row joined with its run.
type Attempt struct {
	RunID int64  `json:"run_id" yaml:"run_id"`
	Dir   string `json:"dir" yaml:"dir"`

	types.ItemResult `yaml:",inline"`
}

// Recent returns up to limit attempts, newest first. A non-positive limit
// uses the default of 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.run_id, r.dir, a.name, a.base, a.output, a.exit_code, a.status,
			COALESCE(a.error, ''), a.started_at, a.duration_ms
		FROM attempts a JOIN runs r ON r.id = a.run_id
		ORDER BY a.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var (
			a          Attempt
			status     string
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(&a.RunID, &a.Dir, &a.Name, &a.Base, &a.Output, &a.ExitCode,
			&status, &a.Error, &startedAt, &durationMS); err != nil {
			return nil, fmt.Errorf("scanning attempt: %w", err)
		}
		a.Status = types.ConversionStatus(status)
		a.Duration = time.Duration(durationMS) * time.Millisecond
		if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			a.StartedAt = t
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// WriteYAML encodes attempts as a YAML list.
func WriteYAML(w io.Writer, attempts []Attempt) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(attempts); err != nil {
		return fmt.Errorf("encoding attempts: %w", err)
	}
	return enc.Close()
}

// WriteTable prints attempts as aligned text, one per line.
func WriteTable(w io.Writer, attempts []Attempt) {
	if len(attempts) == 0 {
		fmt.Fprintln(w, "No conversions recorded.")
		return
	}
	for _, a := range attempts {
		fmt.Fprintf(w, "run %-4d %s  %-9s exit=%-3d %s\n",
			a.RunID, a.StartedAt.Local().Format("2006-01-02 15:04:05"), a.Status, a.ExitCode, a.Name)
	}
}
