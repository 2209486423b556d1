package ir

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// Supported content digest algorithms.
const (
	DigestMD5    = "md5"
	DigestSHA1   = "sha1"
	DigestSHA256 = "sha256"
)

// DefaultDigestAlgorithm is used when no algorithm is configured.
const DefaultDigestAlgorithm = DigestMD5

// ErrUnknownAlgorithm is returned for digest algorithms other than the
// supported ones.
var ErrUnknownAlgorithm = errors.New("unknown digest algorithm")

func newHash(alg string) (hash.Hash, error) {
	switch strings.ToLower(alg) {
	case DigestMD5:
		return md5.New(), nil
	case DigestSHA1:
		return sha1.New(), nil
	case DigestSHA256:
		return sha256.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
	}
}

// DigestReader hashes everything read from r and returns the lowercase hex
// digest. This is the key a content package is looked up by.
func DigestReader(alg string, r io.Reader) (Digest, error) {
	h, err := newHash(alg)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("hashing content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DigestFile computes the content digest of the file at path.
func DigestFile(alg string, path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return DigestReader(alg, f)
}
