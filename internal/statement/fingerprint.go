package statement

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

// Fingerprint computes the content hash of a statement file. The hash is the
// at-most-once ingestion key: a file whose fingerprint is already recorded is
// never parsed again.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for hashing: %w", err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
