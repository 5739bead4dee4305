package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5

	// tsLayout keeps nine fractional digits so ts_utc sorts chronologically
	// as text.
	tsLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun records run. A run id that already exists is overwritten.
func (s *Store) SaveRun(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(run.RunID) == "" {
		return fmt.Errorf("run id must not be empty")
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}
	if run.Outcome == "" {
		run.Outcome = OutcomeOK
	}

	query := `
INSERT INTO runs (
  run_id, ts_utc, outcome, inputs, modules, declarations, imports, warnings, infos,
  output_path, duration_ms, error
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(run_id) DO UPDATE SET
  ts_utc=excluded.ts_utc,
  outcome=excluded.outcome,
  inputs=excluded.inputs,
  modules=excluded.modules,
  declarations=excluded.declarations,
  imports=excluded.imports,
  warnings=excluded.warnings,
  infos=excluded.infos,
  output_path=excluded.output_path,
  duration_ms=excluded.duration_ms,
  error=excluded.error
`
	return s.withRetry("save run", func() error {
		_, err := s.db.ExecContext(ctx,
			query,
			run.RunID,
			run.Timestamp.UTC().Format(tsLayout),
			run.Outcome,
			run.Inputs,
			run.Modules,
			run.Declarations,
			run.Imports,
			run.Warnings,
			run.Infos,
			run.OutputPath,
			run.Duration.Milliseconds(),
			run.Error,
		)
		return err
	})
}

// LoadRuns returns the most recent limit runs, oldest first. limit <= 0
// returns every run.
func (s *Store) LoadRuns(ctx context.Context, limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
SELECT run_id, ts_utc, outcome, inputs, modules, declarations, imports, warnings, infos,
  output_path, duration_ms, error
FROM runs
ORDER BY ts_utc DESC, run_id DESC
`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows *sql.Rows
	err := s.withRetry("load runs", func() error {
		var qErr error
		rows, qErr = s.db.QueryContext(ctx, query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var (
			tsRaw      string
			durationMS int64
			run        Run
		)
		if err := rows.Scan(
			&run.RunID,
			&tsRaw,
			&run.Outcome,
			&run.Inputs,
			&run.Modules,
			&run.Declarations,
			&run.Imports,
			&run.Warnings,
			&run.Infos,
			&run.OutputPath,
			&durationMS,
			&run.Error,
		); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}

		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", tsRaw, err)
		}
		run.Timestamp = ts.UTC()
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}

	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	return runs, nil
}

// Prune keeps the newest keep runs and deletes the rest.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keep <= 0 {
		return 0, nil
	}
	var deleted int64
	err := s.withRetry("prune runs", func() error {
		res, err := s.db.ExecContext(ctx, `
DELETE FROM runs WHERE run_id NOT IN (
  SELECT run_id FROM runs ORDER BY ts_utc DESC, run_id DESC LIMIT ?
)`, keep)
		if err != nil {
			return err
		}
		deleted, err = res.RowsAffected()
		return err
	})
	return deleted, err
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func IsCorruptError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "malformed") || strings.Contains(msg, "not a database") || errors.Is(err, os.ErrInvalid)
}
