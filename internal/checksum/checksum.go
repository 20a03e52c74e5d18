// Package checksum verifies downloaded archives against published digests.
// Apache mirrors publish a "<hash>  <filename>" text file next to each
// archive (apache-tomcat-X.Y.Z.tar.gz.sha512).
package checksum

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	tcerrors "github.com/tomcatup/tomcatup/internal/errors"
)

// Algorithm represents a checksum hash algorithm.
type Algorithm string

const (
	AlgorithmSHA256 Algorithm = "sha256"
	AlgorithmSHA512 Algorithm = "sha512"
)

// Calculate calculates the checksum of a file using the given algorithm.
func Calculate(filePath string, algorithm Algorithm) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return CalculateFromReader(f, algorithm)
}

// CalculateFromReader calculates the checksum from a reader using the given algorithm.
func CalculateFromReader(r io.Reader, algorithm Algorithm) (string, error) {
	var h hash.Hash
	switch algorithm {
	case AlgorithmSHA256:
		h = sha256.New()
	case AlgorithmSHA512:
		h = sha512.New()
	default:
		return "", fmt.Errorf("unsupported hash algorithm: %s", algorithm)
	}

	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("failed to read data: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify verifies the checksum of a file.
func Verify(filePath string, algorithm Algorithm, expectedHash string) error {
	actualHash, err := Calculate(filePath, algorithm)
	if err != nil {
		return err
	}

	if !strings.EqualFold(actualHash, expectedHash) {
		return &tcerrors.Error{
			Category: tcerrors.CategoryInstall,
			Code:     tcerrors.CodeChecksumMismatch,
			Message:  "checksum mismatch",
			Details:  map[string]any{"expected": expectedHash, "got": actualHash, "file": filePath},
		}
	}

	return nil
}

// DetectAlgorithm detects the hash algorithm from the hex digest length.
func DetectAlgorithm(hashValue string) Algorithm {
	switch len(hashValue) {
	case 64:
		return AlgorithmSHA256
	case 128:
		return AlgorithmSHA512
	default:
		return ""
	}
}

// ParseFile extracts the digest for filename from a standard checksums file.
// Lines look like "<hash>  <filename>" or "<hash> *<filename>". When the file
// holds a single bare digest, the digest is returned regardless of filename.
func ParseFile(data []byte, filename string) (Algorithm, string, error) {
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")

	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		digest := fields[0]
		if alg := DetectAlgorithm(digest); alg != "" {
			if len(fields) == 1 && len(lines) == 1 {
				return alg, digest, nil
			}
			for _, f := range fields[1:] {
				name := strings.TrimPrefix(f, "*")
				if name == filename || strings.HasSuffix(name, "/"+filename) {
					return alg, digest, nil
				}
			}
		}
	}

	return "", "", fmt.Errorf("no checksum found for %q", filename)
}
