package testsupport

import (
	"context"
	"path/filepath"

	"shuttersort/internal/mediameta"
)

// StubExtractor serves canned metadata records keyed by base filename.
// Unknown files report mediameta.ErrNoMetadata; a non-nil Err is returned
// for every call.
type StubExtractor struct {
	Records map[string]mediameta.Record
	Err     error
}

// Name implements mediameta.Extractor.
func (s *StubExtractor) Name() string { return "stub" }

// Extract implements mediameta.Extractor.
func (s *StubExtractor) Extract(ctx context.Context, path string) (mediameta.Record, error) {
	if s.Err != nil {
		return mediameta.Record{}, s.Err
	}
	if record, ok := s.Records[filepath.Base(path)]; ok {
		return record, nil
	}
	return mediameta.Record{}, mediameta.ErrNoMetadata
}
