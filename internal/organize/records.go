package organize

import (
	"context"
	"time"

	"shuttersort/internal/plan"
)

// Status classifies the outcome for one file.
type Status string

const (
	// StatusCopied means the file landed in the dated tree.
	StatusCopied Status = "copied"
	// StatusUnknown means the file landed in the unknown bucket.
	StatusUnknown Status = "unknown"
	// StatusDuplicateSkipped means the file's content was already known and
	// it was left untouched.
	StatusDuplicateSkipped Status = "duplicate-skipped"
	// StatusDuplicateError means a duplicate was flagged for review under
	// the error duplicate policy. Nothing is written to the destination.
	StatusDuplicateError Status = "duplicate-error"
	// StatusError means the file could not be processed.
	StatusError Status = "error"
)

// OperationRecord describes what happened to one file during a run.
type OperationRecord struct {
	Source      string
	Destination string
	Status      Status
	Bucket      plan.Bucket
	Digest      string
	DateSource  string
	ResolvedAt  time.Time
	Detail      string
	DryRun      bool
}

// RecordSink receives per-file operation records, typically for the run
// history database. Sink failures never fail the run.
type RecordSink interface {
	Record(ctx context.Context, record OperationRecord) error
}

// Summary aggregates a run's outcomes.
type Summary struct {
	Scanned    int
	Copied     int
	Duplicates int
	Unknown    int
	Errors     int
}

func (s *Summary) count(status Status) {
	switch status {
	case StatusCopied:
		s.Copied++
	case StatusUnknown:
		s.Unknown++
	case StatusDuplicateSkipped, StatusDuplicateError:
		s.Duplicates++
	case StatusError:
		s.Errors++
	}
}
