package plan

import (
	"path/filepath"
	"strings"
)

const maxBaseNameLength = 200

// Sanitize makes a filename safe for the destination tree: path separators
// and shell-hostile characters become underscores, and overlong base names
// are clamped while keeping the extension.
func Sanitize(name string) string {
	var builder strings.Builder
	builder.Grow(len(name))
	for _, r := range name {
		switch {
		case r < 0x20, r == 0x7f:
			builder.WriteRune('_')
		case strings.ContainsRune(`/\:*?"<>|`, r):
			builder.WriteRune('_')
		default:
			builder.WriteRune(r)
		}
	}
	cleaned := strings.TrimSpace(builder.String())
	if cleaned == "" {
		return "_"
	}

	ext := filepath.Ext(cleaned)
	base := cleaned[:len(cleaned)-len(ext)]
	if runes := []rune(base); len(runes) > maxBaseNameLength {
		base = string(runes[:maxBaseNameLength])
	}
	return base + ext
}

// SanitizeRel sanitizes each component of a relative path separately, so the
// directory structure survives while every segment is made safe. "." and ".."
// segments are dropped, keeping mirrored paths inside the destination tree.
func SanitizeRel(relPath string) string {
	segments := strings.Split(filepath.ToSlash(relPath), "/")
	cleaned := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment == "" || segment == "." || segment == ".." {
			continue
		}
		cleaned = append(cleaned, Sanitize(segment))
	}
	if len(cleaned) == 0 {
		return "_"
	}
	return filepath.Join(cleaned...)
}
