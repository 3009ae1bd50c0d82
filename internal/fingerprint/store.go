package fingerprint

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"shuttersort/internal/logging"
	"shuttersort/internal/services"
)

const artifactVersion = 1

// Entry records where a fingerprint was first observed.
type Entry struct {
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	FirstSeen time.Time `json:"first_seen"`
}

type artifact struct {
	Version   int              `json:"version"`
	Algorithm Algorithm        `json:"algorithm"`
	Entries   map[string]Entry `json:"entries"`
}

// Store is the session-scoped fingerprint membership set. It loads the
// persisted artifact once at open, answers lookups from memory, and writes
// the artifact back out at Persist. The on-disk file is never touched
// between those two points.
type Store struct {
	path      string
	algorithm Algorithm
	entries   map[string]Entry
	dirty     bool
	logger    *slog.Logger
}

// ArtifactPath returns the artifact location for a fingerprint directory and
// algorithm, e.g. <dir>/fingerprints_sha256.json.
func ArtifactPath(dir string, algorithm Algorithm) string {
	return filepath.Join(dir, fmt.Sprintf("fingerprints_%s.json", algorithm))
}

// Open loads the fingerprint artifact for the given directory and algorithm.
// A missing, unreadable, or corrupt artifact degrades to an empty in-memory
// store with a warning; the session still runs, it just re-copies files it
// has seen before.
func Open(dir string, algorithm Algorithm, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.WithComponent(logger, "fingerprint")

	store := &Store{
		path:      ArtifactPath(dir, algorithm),
		algorithm: algorithm,
		entries:   make(map[string]Entry),
		logger:    logger,
	}

	data, err := os.ReadFile(store.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("fingerprint artifact unreadable, starting cold",
				logging.String("path", store.path),
				logging.Error(err))
		}
		return store
	}

	var loaded artifact
	if err := json.Unmarshal(data, &loaded); err != nil {
		logger.Warn("fingerprint artifact corrupt, starting cold",
			logging.String("path", store.path),
			logging.Error(err))
		return store
	}
	if loaded.Algorithm != "" && loaded.Algorithm != algorithm {
		logger.Warn("fingerprint artifact uses a different algorithm, starting cold",
			logging.String("path", store.path),
			logging.String("artifact_algorithm", string(loaded.Algorithm)),
			logging.String("configured_algorithm", string(algorithm)))
		return store
	}
	if loaded.Entries != nil {
		store.entries = loaded.Entries
	}
	logger.Debug("fingerprint artifact loaded",
		logging.String("path", store.path),
		logging.Int("entries", len(store.entries)))
	return store
}

// Contains reports whether the fingerprint is already known, along with the
// entry recorded when it was first seen.
func (s *Store) Contains(digest string) (Entry, bool) {
	entry, ok := s.entries[digest]
	return entry, ok
}

// Commit records a fingerprint in memory. The artifact on disk is not
// updated until Persist.
func (s *Store) Commit(digest, path string, size int64) {
	if _, exists := s.entries[digest]; exists {
		return
	}
	s.entries[digest] = Entry{Path: path, Size: size, FirstSeen: time.Now().UTC()}
	s.dirty = true
}

// Len returns the number of known fingerprints.
func (s *Store) Len() int {
	return len(s.entries)
}

// Algorithm returns the hash algorithm this store was opened with.
func (s *Store) Algorithm() Algorithm {
	return s.algorithm
}

// Path returns the artifact location on disk.
func (s *Store) Path() string {
	return s.path
}

// Persist writes the artifact atomically, keeping one generation of backup:
// the previous artifact becomes <path>.bak before the new one takes its
// place. A failure leaves the in-memory store intact and returns an error
// tagged with services.ErrStorePersistence.
func (s *Store) Persist() error {
	if !s.dirty {
		return nil
	}

	payload, err := json.MarshalIndent(artifact{
		Version:   artifactVersion,
		Algorithm: s.algorithm,
		Entries:   s.entries,
	}, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrStorePersistence, "fingerprint", "persist", "encode artifact", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return services.Wrap(services.ErrStorePersistence, "fingerprint", "persist", "create artifact directory", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, payload, 0o644); err != nil {
		return services.Wrap(services.ErrStorePersistence, "fingerprint", "persist", "write temporary artifact", err)
	}

	backupPath := s.path + ".bak"
	if _, err := os.Stat(s.path); err == nil {
		if err := os.Remove(backupPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			os.Remove(tmpPath)
			return services.Wrap(services.ErrStorePersistence, "fingerprint", "persist", "remove stale backup", err)
		}
		if err := os.Rename(s.path, backupPath); err != nil {
			os.Remove(tmpPath)
			return services.Wrap(services.ErrStorePersistence, "fingerprint", "persist", "rotate backup", err)
		}
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return services.Wrap(services.ErrStorePersistence, "fingerprint", "persist", "install artifact", err)
	}

	s.dirty = false
	s.logger.Debug("fingerprint artifact persisted",
		logging.String("path", s.path),
		logging.Int("entries", len(s.entries)))
	return nil
}
