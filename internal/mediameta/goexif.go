package mediameta

import (
	"context"
	"fmt"
	"os"

	"github.com/rwcarlsen/goexif/exif"
)

// exifFieldMap maps goexif tag names onto the normalized field vocabulary.
var exifFieldMap = map[exif.FieldName]string{
	exif.DateTimeOriginal:    FieldDateTimeOriginal,
	exif.DateTimeDigitized:   FieldDateTimeDigitized,
	exif.DateTime:            FieldDateTime,
	exif.SubSecTimeOriginal:  FieldSubSecTimeOriginal,
	exif.SubSecTimeDigitized: FieldSubSecTimeDigitized,
	exif.SubSecTime:          FieldSubSecTime,
	exif.Make:                FieldMake,
	exif.Model:               FieldModel,
}

// GoexifExtractor reads EXIF metadata in-process. It covers JPEG and TIFF
// containers; other formats report ErrNoMetadata and fall through.
type GoexifExtractor struct{}

func (GoexifExtractor) Name() string { return "goexif" }

// Extract implements Extractor.
func (GoexifExtractor) Extract(ctx context.Context, path string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	file, err := os.Open(path)
	if err != nil {
		return Record{}, fmt.Errorf("open for exif decode: %w", err)
	}
	defer file.Close()

	decoded, err := exif.Decode(file)
	if err != nil {
		// goexif cannot distinguish "no EXIF segment" from unsupported
		// containers, so both fall through to the next date source.
		return Record{}, ErrNoMetadata
	}

	fields := make(map[string]string)
	for tagName, fieldName := range exifFieldMap {
		tag, err := decoded.Get(tagName)
		if err != nil {
			continue
		}
		value, err := tag.StringVal()
		if err != nil {
			continue
		}
		fields[fieldName] = value
	}

	record := NewRecord(fields)
	if record.Empty() {
		return Record{}, ErrNoMetadata
	}
	return record, nil
}
