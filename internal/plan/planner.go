package plan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"shuttersort/internal/config"
	"shuttersort/internal/dateresolve"
	"shuttersort/internal/fingerprint"
)

// Bucket names the destination subtree a file is routed into.
type Bucket string

const (
	// BucketDated is the YYYY/MM tree for files with a resolved date.
	BucketDated Bucket = "dated"
	// BucketUnknown collects files whose date could not be resolved.
	BucketUnknown Bucket = "unknown"
	// BucketError collects files that could not be processed normally.
	BucketError Bucket = "error"
)

// ErrDuplicateAtDestination reports that the planned destination already
// holds a file with identical content. Callers treat this as a duplicate,
// not a conflict.
var ErrDuplicateAtDestination = errors.New("identical file already at destination")

// Placement is a planned destination for one file.
type Placement struct {
	Path   string
	Bucket Bucket
}

// Planner computes destination paths under the output root.
type Planner struct {
	OutputRoot         string
	DateFormat         string
	UnknownStrategy    string
	ConflictResolution string
	Algorithm          fingerprint.Algorithm
}

// NewPlanner builds a Planner from configuration.
func NewPlanner(cfg *config.Config, algorithm fingerprint.Algorithm) *Planner {
	return &Planner{
		OutputRoot:         cfg.Paths.OutputDir,
		DateFormat:         cfg.Organize.DateFormat,
		UnknownStrategy:    cfg.Organize.UnknownStrategy,
		ConflictResolution: cfg.Organize.ConflictResolution,
		Algorithm:          algorithm,
	}
}

// Dated plans a destination in the YYYY/MM tree for a resolved date. The
// digest is the source file's content hash, used for conflict resolution.
func (p *Planner) Dated(resolved dateresolve.ResolvedDate, sourcePath, digest string) (Placement, error) {
	dir := p.monthDir(resolved.Time)
	name := Sanitize(resolved.Time.Format(p.DateFormat)) + filepath.Ext(sourcePath)
	path, err := p.resolveConflicts(filepath.Join(dir, name), digest)
	if err != nil {
		return Placement{Path: path, Bucket: BucketDated}, err
	}
	return Placement{Path: path, Bucket: BucketDated}, nil
}

// Unknown plans a destination for a file without a resolvable date. The
// relPath is the source path relative to the input root; the unknown bucket
// mirrors it so same-named files from different folders stay apart. Under
// the use_ctime strategy the file instead lands in the dated tree, keyed by
// its modification time and keeping its original name.
func (p *Planner) Unknown(relPath, digest string, modTime time.Time) (Placement, error) {
	if p.UnknownStrategy == config.UnknownUseCtime && !modTime.IsZero() {
		dir := p.monthDir(modTime)
		path, err := p.resolveConflicts(filepath.Join(dir, Sanitize(filepath.Base(relPath))), digest)
		if err != nil {
			return Placement{Path: path, Bucket: BucketDated}, err
		}
		return Placement{Path: path, Bucket: BucketDated}, nil
	}
	return p.bucketed(BucketUnknown, relPath, digest)
}

// Errored plans a destination in the error bucket for a file that could not
// be processed, mirroring its path relative to the input root.
func (p *Planner) Errored(relPath, digest string) (Placement, error) {
	return p.bucketed(BucketError, relPath, digest)
}

func (p *Planner) bucketed(bucket Bucket, relPath, digest string) (Placement, error) {
	candidate := filepath.Join(p.OutputRoot, string(bucket), SanitizeRel(relPath))
	path, err := p.resolveConflicts(candidate, digest)
	if err != nil {
		return Placement{Path: path, Bucket: bucket}, err
	}
	return Placement{Path: path, Bucket: bucket}, nil
}

func (p *Planner) monthDir(when time.Time) string {
	return filepath.Join(p.OutputRoot, fmt.Sprintf("%04d", when.Year()), fmt.Sprintf("%02d", int(when.Month())))
}

// resolveConflicts returns a destination that does not collide with an
// existing file. A collision with identical content short-circuits as
// ErrDuplicateAtDestination; differing content gets a suffix according to
// the configured strategy.
func (p *Planner) resolveConflicts(candidate, digest string) (string, error) {
	occupied, duplicate, err := p.probe(candidate, digest)
	if err != nil {
		return "", err
	}
	if duplicate {
		return candidate, ErrDuplicateAtDestination
	}
	if !occupied {
		return candidate, nil
	}

	if p.ConflictResolution == config.ConflictUUIDSuffix {
		return p.uuidSuffixed(candidate, digest)
	}
	return p.hashSuffixed(candidate, digest)
}

// hashSuffixed appends progressively longer slices of the content hash, so
// re-running the same plan yields the same name.
func (p *Planner) hashSuffixed(candidate, digest string) (string, error) {
	for _, width := range []int{8, 12, len(digest)} {
		if width > len(digest) {
			width = len(digest)
		}
		suffixed := withSuffix(candidate, digest[:width])
		occupied, duplicate, err := p.probe(suffixed, digest)
		if err != nil {
			return "", err
		}
		if duplicate {
			return suffixed, ErrDuplicateAtDestination
		}
		if !occupied {
			return suffixed, nil
		}
	}
	return "", fmt.Errorf("destination conflict not resolvable for %s", candidate)
}

func (p *Planner) uuidSuffixed(candidate, digest string) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		suffixed := withSuffix(candidate, uuid.NewString())
		occupied, duplicate, err := p.probe(suffixed, digest)
		if err != nil {
			return "", err
		}
		if duplicate {
			return suffixed, ErrDuplicateAtDestination
		}
		if !occupied {
			return suffixed, nil
		}
	}
	return "", fmt.Errorf("destination conflict not resolvable for %s", candidate)
}

// probe reports whether a candidate path is occupied and, if so, whether the
// occupant's content matches the digest being placed.
func (p *Planner) probe(candidate, digest string) (occupied, duplicate bool, err error) {
	info, statErr := os.Stat(candidate)
	if statErr != nil {
		if errors.Is(statErr, os.ErrNotExist) {
			return false, false, nil
		}
		return false, false, fmt.Errorf("probe destination: %w", statErr)
	}
	if info.IsDir() {
		return true, false, nil
	}
	if digest == "" {
		return true, false, nil
	}
	existing, hashErr := fingerprint.HashFile(candidate, p.Algorithm)
	if hashErr != nil {
		return true, false, nil
	}
	return true, existing == digest, nil
}

func withSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	base := path[:len(path)-len(ext)]
	return base + "_" + suffix + ext
}
