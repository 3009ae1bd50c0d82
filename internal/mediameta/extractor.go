package mediameta

import (
	"context"
	"errors"
	"log/slog"

	"shuttersort/internal/logging"
)

// ErrNoMetadata reports that a file was readable but carried no usable
// metadata. Callers treat this as "fall through to the next date source",
// not as a file error.
var ErrNoMetadata = errors.New("no metadata found")

// Extractor reads metadata from a media file.
type Extractor interface {
	// Extract returns the file's metadata record. ErrNoMetadata means the
	// file is fine but has nothing to offer; any other error means the file
	// could not be inspected.
	Extract(ctx context.Context, path string) (Record, error)
	// Name identifies the extractor in logs.
	Name() string
}

// Chain tries extractors in order, returning the first non-empty record.
// An extractor failure is logged and the next one is tried; the chain only
// fails when every extractor fails with a real error.
type Chain struct {
	extractors []Extractor
	logger     *slog.Logger
}

// NewChain builds a fallback chain from the given extractors.
func NewChain(logger *slog.Logger, extractors ...Extractor) *Chain {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Chain{
		extractors: extractors,
		logger:     logging.WithComponent(logger, "mediameta"),
	}
}

func (c *Chain) Name() string { return "chain" }

// Extract implements Extractor. A hard failure from one extractor is only
// surfaced when every extractor failed hard; as long as one of them could
// read the file, an empty result is reported as ErrNoMetadata.
func (c *Chain) Extract(ctx context.Context, path string) (Record, error) {
	var lastHard error
	sawReadable := len(c.extractors) == 0
	for _, extractor := range c.extractors {
		record, err := extractor.Extract(ctx, path)
		if err == nil {
			return record, nil
		}
		if errors.Is(err, ErrNoMetadata) {
			sawReadable = true
			continue
		}
		lastHard = err
		c.logger.Debug("extractor failed, trying next",
			logging.String("extractor", extractor.Name()),
			logging.String("path", path),
			logging.Error(err))
	}
	if !sawReadable && lastHard != nil {
		return Record{}, lastHard
	}
	return Record{}, ErrNoMetadata
}
