// Package fileutil provides verified file copies for the placement stage.
package fileutil

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"shuttersort/internal/fingerprint"
	"shuttersort/internal/services"
)

// CopyVerified copies src to dst, creating parent directories as needed, and
// verifies the written bytes against the expected content digest and size.
// On any mismatch the destination is removed so a bad copy never survives.
// The source's modification time is carried over to the copy.
func CopyVerified(src, dst string, algorithm fingerprint.Algorithm, wantDigest string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return services.Wrap(services.ErrCopy, "fileutil", "copy", "stat source", err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return services.Wrap(services.ErrCopy, "fileutil", "copy", "create destination directory", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return services.Wrap(services.ErrCopy, "fileutil", "copy", "open source", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return services.Wrap(services.ErrCopy, "fileutil", "copy", "create destination", err)
	}
	closed := false
	defer func() {
		if !closed {
			_ = out.Close()
		}
	}()

	hasher := fingerprint.NewHasher(algorithm)
	written, err := io.Copy(io.MultiWriter(out, hasher), in)
	if err != nil {
		_ = os.Remove(dst)
		return services.Wrap(services.ErrCopy, "fileutil", "copy", "stream bytes", err)
	}
	closed = true
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return services.Wrap(services.ErrCopy, "fileutil", "copy", "flush destination", err)
	}

	if written != srcInfo.Size() {
		_ = os.Remove(dst)
		return services.Wrap(services.ErrCopy, "fileutil", "copy",
			fmt.Sprintf("size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written), nil)
	}
	if wantDigest != "" {
		if got := hex.EncodeToString(hasher.Sum(nil)); got != wantDigest {
			_ = os.Remove(dst)
			return services.Wrap(services.ErrCopy, "fileutil", "copy", "digest mismatch after copy", nil)
		}
	}

	// Best effort; a copy with a fresh mtime is still a good copy.
	_ = os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime())
	return nil
}
