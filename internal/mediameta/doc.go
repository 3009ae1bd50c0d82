// Package mediameta extracts metadata from media files. The external
// exiftool client and the in-process EXIF reader both emit the same
// normalized Record so callers never see extractor-specific tag names.
package mediameta
