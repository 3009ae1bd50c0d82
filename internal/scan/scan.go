package scan

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"shuttersort/internal/logging"
)

// Supported media extensions, lowercase with the leading dot.
var supportedExtensions = map[string]struct{}{
	// images
	".jpg": {}, ".jpeg": {}, ".png": {}, ".tiff": {}, ".tif": {},
	".bmp": {}, ".gif": {}, ".webp": {}, ".heic": {}, ".heif": {},
	".raw": {}, ".cr2": {}, ".nef": {}, ".arw": {}, ".dng": {}, ".orf": {},
	// videos
	".mp4": {}, ".avi": {}, ".mov": {}, ".mkv": {}, ".wmv": {}, ".flv": {},
	".webm": {}, ".m4v": {}, ".3gp": {}, ".mts": {}, ".m2ts": {}, ".ts": {},
	".vob": {}, ".asf": {}, ".rm": {}, ".rmvb": {},
}

// MediaFile describes one discovered candidate. RelPath is the path relative
// to the scanned root, so placements can mirror the input layout.
type MediaFile struct {
	Path      string
	RelPath   string
	Size      int64
	ModTime   time.Time
	BirthTime time.Time
}

// Options controls discovery behavior.
type Options struct {
	// Nested descends into subdirectories when true.
	Nested bool
	// MaxSizeBytes skips larger files when positive.
	MaxSizeBytes int64
}

// Supported reports whether a path has a recognized media extension.
func Supported(path string) bool {
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Discover walks the input directory in lexical order and returns the media
// files eligible for organizing. Hidden entries are skipped, as are files
// over the size cap (with a warning, so silently absent files are explained
// somewhere).
func Discover(ctx context.Context, root string, opts Options, logger *slog.Logger) ([]MediaFile, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.WithComponent(logger, "scan")

	var files []MediaFile
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		name := entry.Name()
		if entry.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(name, ".") || !opts.Nested {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !Supported(name) {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			logger.Warn("skipping unstatable file",
				logging.String("path", path),
				logging.Error(err))
			return nil
		}
		if opts.MaxSizeBytes > 0 && info.Size() > opts.MaxSizeBytes {
			logger.Warn("skipping oversized file",
				logging.String("path", path),
				logging.Int64("size", info.Size()),
				logging.Int64("limit", opts.MaxSizeBytes))
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = name
		}
		files = append(files, MediaFile{
			Path:      path,
			RelPath:   rel,
			Size:      info.Size(),
			ModTime:   info.ModTime(),
			BirthTime: birthTime(path),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
