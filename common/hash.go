package common

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"

	"gocloud.dev/blob"
)

// FingerprintFile generates a SHA-1 hash of a file stored in a blob.Bucket instance.
func FingerprintFile(ctx context.Context, bucket *blob.Bucket, path string) (string, error) {

	fh, err := bucket.NewReader(ctx, path, nil)

	if err != nil {
		return "", fmt.Errorf("Failed to create reader for '%s', %w", path, err)
	}

	defer fh.Close()

	h := sha1.New()

	_, err = io.Copy(h, fh)

	if err != nil {
		return "", fmt.Errorf("Failed to hash '%s', %w", path, err)
	}

	hash := h.Sum(nil)
	return hex.EncodeToString(hash[:]), nil
}

// HashString generates a SHA-1 hash of s.
func HashString(s string) string {

	h := sha1.New()
	h.Write([]byte(s))

	hash := h.Sum(nil)
	return hex.EncodeToString(hash[:])
}

// ShortHash generates the first n characters of the SHA-1 hash of s. It is
// used to disambiguate otherwise-colliding destination filenames.
func ShortHash(s string, n int) string {

	hash := HashString(s)

	if n > len(hash) {
		n = len(hash)
	}

	return hash[:n]
}
