package fingerprint

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// Algorithm identifies a supported content hash function.
type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	SHA1   Algorithm = "sha1"
	MD5    Algorithm = "md5"
)

const hashChunkSize = 64 * 1024

// ParseAlgorithm maps a configuration string onto a supported Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(name))) {
	case SHA256:
		return SHA256, nil
	case SHA1:
		return SHA1, nil
	case MD5:
		return MD5, nil
	default:
		return "", fmt.Errorf("unsupported hash algorithm %q", name)
	}
}

// NewHasher returns a fresh hash state for the algorithm. Unknown values
// default to SHA-256, matching ParseAlgorithm's strictness at config time.
func NewHasher(a Algorithm) hash.Hash {
	return a.newHash()
}

func (a Algorithm) newHash() hash.Hash {
	switch a {
	case SHA1:
		return sha1.New()
	case MD5:
		return md5.New()
	default:
		return sha256.New()
	}
}

// HashFile computes the hex digest of a file's contents, reading in fixed
// size chunks so memory use stays flat for large video files.
func HashFile(path string, algorithm Algorithm) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open for hashing: %w", err)
	}
	defer file.Close()

	digest := algorithm.newHash()
	buf := make([]byte, hashChunkSize)
	if _, err := io.CopyBuffer(digest, file, buf); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}
