package history

import "time"

// Run is one organizing session's summary row.
type Run struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time
	DryRun     bool
	InputDir   string
	OutputDir  string
	Scanned    int
	Copied     int
	Duplicates int
	Unknown    int
	Errors     int
}

// Operation is one per-file outcome within a run.
type Operation struct {
	ID          int64
	RunID       int64
	Source      string
	Destination string
	Status      string
	Bucket      string
	Digest      string
	DateSource  string
	Detail      string
}
