// Package history records run summaries and per-file operations in a local
// SQLite database, so past sessions stay inspectable after their logs rotate
// away.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"shuttersort/internal/organize"
)

// Store manages history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database and applies migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
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

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
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

// Path returns the database location on disk.
func (s *Store) Path() string {
	return s.path
}

// BeginRun inserts a new run row and returns its identifier.
func (s *Store) BeginRun(ctx context.Context, inputDir, outputDir string, dryRun bool) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, dry_run, input_dir, output_dir) VALUES (?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano),
		boolToInt(dryRun),
		inputDir,
		outputDir,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// FinishRun stamps the run's end time and final counters.
func (s *Store) FinishRun(ctx context.Context, runID int64, summary organize.Summary) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, scanned = ?, copied = ?, duplicates = ?, unknown = ?, errors = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		summary.Scanned,
		summary.Copied,
		summary.Duplicates,
		summary.Unknown,
		summary.Errors,
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// Sink returns a RecordSink that attributes operation records to the run.
func (s *Store) Sink(runID int64) organize.RecordSink {
	return &runSink{store: s, runID: runID}
}

type runSink struct {
	store *Store
	runID int64
}

func (r *runSink) Record(ctx context.Context, record organize.OperationRecord) error {
	var resolvedAt any
	if !record.ResolvedAt.IsZero() {
		resolvedAt = record.ResolvedAt.Format(time.RFC3339Nano)
	}
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO operations (
            run_id, source, destination, status, bucket, digest,
            date_source, resolved_at, detail, dry_run, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.runID,
		record.Source,
		nullableString(record.Destination),
		string(record.Status),
		nullableString(string(record.Bucket)),
		nullableString(record.Digest),
		nullableString(record.DateSource),
		resolvedAt,
		nullableString(record.Detail),
		boolToInt(record.DryRun),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert operation: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, dry_run, input_dir, output_dir,
                scanned, copied, duplicates, unknown, errors
         FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started string
		var finished sql.NullString
		var dryRun int
		if err := rows.Scan(&run.ID, &started, &finished, &dryRun, &run.InputDir, &run.OutputDir,
			&run.Scanned, &run.Copied, &run.Duplicates, &run.Unknown, &run.Errors); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = parseTimestamp(started)
		if finished.Valid {
			run.FinishedAt = parseTimestamp(finished.String)
		}
		run.DryRun = dryRun != 0
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunOperations returns the operation records for one run in insertion order.
func (s *Store) RunOperations(ctx context.Context, runID int64) ([]Operation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, source, destination, status, bucket, digest, date_source, detail
         FROM operations WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query operations: %w", err)
	}
	defer rows.Close()

	var operations []Operation
	for rows.Next() {
		var op Operation
		var destination, bucket, digest, dateSource, detail sql.NullString
		if err := rows.Scan(&op.ID, &op.RunID, &op.Source, &destination, &op.Status,
			&bucket, &digest, &dateSource, &detail); err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		op.Destination = destination.String
		op.Bucket = bucket.String
		op.Digest = digest.String
		op.DateSource = dateSource.String
		op.Detail = detail.String
		operations = append(operations, op)
	}
	return operations, rows.Err()
}

func parseTimestamp(value string) time.Time {
	when, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return when
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
