package mediameta

import "strings"

// Metadata field names, normalized to the exiftool tag spelling. The
// built-in EXIF reader maps its tags onto the same names so downstream
// code only deals with one vocabulary.
const (
	FieldDateTimeOriginal      = "DateTimeOriginal"
	FieldCreateDate            = "CreateDate"
	FieldDateTimeDigitized     = "DateTimeDigitized"
	FieldDateTime              = "DateTime"
	FieldModifyDate            = "ModifyDate"
	FieldQuickTimeCreateDate   = "QuickTime:CreateDate"
	FieldQuickTimeCreationDate = "QuickTime:CreationDate"
	FieldSubSecTimeOriginal    = "SubSecTimeOriginal"
	FieldSubSecTimeDigitized   = "SubSecTimeDigitized"
	FieldSubSecTime            = "SubSecTime"
	FieldMake                  = "Make"
	FieldModel                 = "Model"
)

// DateFields lists datetime fields in priority order. The first populated
// field with a parseable value wins. Container creation fields outrank the
// generic DateTime/ModifyDate fields, which cameras and editors rewrite.
var DateFields = []string{
	FieldDateTimeOriginal,
	FieldCreateDate,
	FieldDateTimeDigitized,
	FieldQuickTimeCreateDate,
	FieldQuickTimeCreationDate,
	FieldDateTime,
	FieldModifyDate,
}

// SubSecCompanion maps each datetime field to the sub-second field that
// refines it. A base field is only ever enriched by its own companion;
// fields without an entry never get sub-second enrichment.
var SubSecCompanion = map[string]string{
	FieldDateTimeOriginal:  FieldSubSecTimeOriginal,
	FieldCreateDate:        FieldSubSecTimeDigitized,
	FieldDateTimeDigitized: FieldSubSecTimeDigitized,
	FieldDateTime:          FieldSubSecTime,
	FieldModifyDate:        FieldSubSecTime,
}

// Record holds extracted metadata fields for one file.
type Record struct {
	fields map[string]string
}

// NewRecord builds a Record from raw field values. Empty values are dropped.
func NewRecord(fields map[string]string) Record {
	cleaned := make(map[string]string, len(fields))
	for key, value := range fields {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			cleaned[key] = trimmed
		}
	}
	return Record{fields: cleaned}
}

// Get returns the value for a field name and whether it was present.
func (r Record) Get(field string) (string, bool) {
	value, ok := r.fields[field]
	return value, ok
}

// Empty reports whether the record carries no fields at all.
func (r Record) Empty() bool {
	return len(r.fields) == 0
}

// Len returns the number of populated fields.
func (r Record) Len() int {
	return len(r.fields)
}
