package organize

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"shuttersort/internal/config"
	"shuttersort/internal/dateresolve"
	"shuttersort/internal/fileutil"
	"shuttersort/internal/fingerprint"
	"shuttersort/internal/logging"
	"shuttersort/internal/mediameta"
	"shuttersort/internal/plan"
	"shuttersort/internal/scan"
)

// Executor drives each discovered file through the hash, resolve, plan, and
// place stages. Files never move: sources are copied and left in place. A
// failure on one file is recorded and the run continues with the next.
type Executor struct {
	Store           *fingerprint.Store
	Planner         *plan.Planner
	Extractor       mediameta.Extractor
	Algorithm       fingerprint.Algorithm
	DuplicatePolicy string
	DryRun          bool
	Sink            RecordSink
	Logger          *slog.Logger
}

// Run processes the files in order and returns the run summary. The only
// per-file condition that aborts a run is context cancellation; a failed
// fingerprint persist at the end is returned alongside the summary so the
// caller can surface it as a warning.
func (e *Executor) Run(ctx context.Context, files []scan.MediaFile) (Summary, error) {
	logger := e.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.WithComponent(logger, "organize")

	var summary Summary
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Scanned++

		record := e.processFile(ctx, file, logger)
		summary.count(record.Status)
		e.emit(ctx, record, logger)
	}

	if e.DryRun {
		return summary, nil
	}
	if err := e.Store.Persist(); err != nil {
		return summary, err
	}
	return summary, nil
}

func (e *Executor) processFile(ctx context.Context, file scan.MediaFile, logger *slog.Logger) OperationRecord {
	record := OperationRecord{Source: file.Path, DryRun: e.DryRun}

	digest, err := fingerprint.HashFile(file.Path, e.Algorithm)
	if err != nil {
		logger.Warn("cannot hash file",
			logging.String("path", file.Path),
			logging.Error(err))
		record.Status = StatusError
		record.Detail = err.Error()
		return record
	}
	record.Digest = digest

	if known, seen := e.Store.Contains(digest); seen {
		return e.handleDuplicate(file, record, known.Path, logger)
	}

	meta, err := e.Extractor.Extract(ctx, file.Path)
	if err != nil && !errors.Is(err, mediameta.ErrNoMetadata) {
		// The file itself resisted inspection; quarantine a copy so it
		// still shows up somewhere reviewable.
		logger.Warn("metadata extraction failed",
			logging.String("path", file.Path),
			logging.Error(err))
		return e.quarantine(file, record, err.Error(), logger)
	}

	resolved, ok := dateresolve.Resolve(dateresolve.Inputs{
		Metadata:  meta,
		Filename:  filepath.Base(file.Path),
		BirthTime: file.BirthTime,
	})

	var placement plan.Placement
	var planErr error
	if ok {
		record.DateSource = string(resolved.Source)
		record.ResolvedAt = resolved.Time
		placement, planErr = e.Planner.Dated(resolved, file.Path, digest)
	} else {
		placement, planErr = e.Planner.Unknown(relativePath(file), digest, file.ModTime)
	}
	record.Bucket = placement.Bucket
	record.Destination = placement.Path

	if errors.Is(planErr, plan.ErrDuplicateAtDestination) {
		// The destination already holds these bytes, so the fingerprint
		// belongs in the store even though nothing gets copied.
		record.Status = StatusDuplicateSkipped
		record.Detail = "identical file already at destination"
		if !e.DryRun {
			e.Store.Commit(digest, placement.Path, file.Size)
		}
		return record
	}
	if planErr != nil {
		logger.Warn("cannot plan destination",
			logging.String("path", file.Path),
			logging.Error(planErr))
		record.Status = StatusError
		record.Detail = planErr.Error()
		return record
	}

	status := StatusCopied
	if placement.Bucket == plan.BucketUnknown {
		status = StatusUnknown
	}

	if e.DryRun {
		record.Status = status
		logger.Info("dry run: would copy",
			logging.String("source", file.Path),
			logging.String("destination", placement.Path),
			logging.String("bucket", string(placement.Bucket)))
		return record
	}

	if err := fileutil.CopyVerified(file.Path, placement.Path, e.Algorithm, digest); err != nil {
		logger.Warn("copy failed",
			logging.String("source", file.Path),
			logging.String("destination", placement.Path),
			logging.Error(err))
		record.Status = StatusError
		record.Detail = err.Error()
		return record
	}

	e.Store.Commit(digest, placement.Path, file.Size)
	record.Status = status
	logger.Info("copied",
		logging.String("source", file.Path),
		logging.String("destination", placement.Path),
		logging.String("bucket", string(placement.Bucket)),
		logging.String("date_source", record.DateSource))
	return record
}

// handleDuplicate records a file whose content is already in the store. The
// destination filesystem is never touched: under the skip policy the file is
// counted and left alone, under the error policy it is additionally flagged
// so the run can be reviewed.
func (e *Executor) handleDuplicate(file scan.MediaFile, record OperationRecord, firstSeen string, logger *slog.Logger) OperationRecord {
	record.Detail = "duplicate of " + firstSeen
	if e.DuplicatePolicy == config.DuplicateError {
		logger.Warn("duplicate flagged",
			logging.String("path", file.Path),
			logging.String("first_seen", firstSeen))
		record.Status = StatusDuplicateError
		return record
	}

	logger.Info("duplicate skipped",
		logging.String("path", file.Path),
		logging.String("first_seen", firstSeen))
	record.Status = StatusDuplicateSkipped
	return record
}

// quarantine copies an unreadable or corrupt file into the error bucket. Its
// fingerprint is never committed, so a fixed-up rerun can process the file
// normally.
func (e *Executor) quarantine(file scan.MediaFile, record OperationRecord, detail string, logger *slog.Logger) OperationRecord {
	record.Detail = detail
	record.Status = StatusError

	placement, err := e.Planner.Errored(relativePath(file), record.Digest)
	if errors.Is(err, plan.ErrDuplicateAtDestination) {
		record.Destination = placement.Path
		record.Bucket = placement.Bucket
		return record
	}
	if err != nil {
		record.Status = StatusError
		record.Detail = detail + "; " + err.Error()
		return record
	}
	record.Destination = placement.Path
	record.Bucket = placement.Bucket

	if e.DryRun {
		return record
	}
	if err := fileutil.CopyVerified(file.Path, placement.Path, e.Algorithm, record.Digest); err != nil {
		logger.Warn("quarantine copy failed",
			logging.String("source", file.Path),
			logging.Error(err))
		record.Status = StatusError
		record.Detail = detail + "; " + err.Error()
	}
	return record
}

// relativePath returns the file's path relative to the scanned input root,
// falling back to the bare filename for callers that never set one.
func relativePath(file scan.MediaFile) string {
	if file.RelPath != "" {
		return file.RelPath
	}
	return filepath.Base(file.Path)
}

func (e *Executor) emit(ctx context.Context, record OperationRecord, logger *slog.Logger) {
	if e.Sink == nil {
		return
	}
	if err := e.Sink.Record(ctx, record); err != nil {
		logger.Warn("history record failed", logging.Error(err))
	}
}
