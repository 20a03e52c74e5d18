package checksum

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcerrors "github.com/tomcatup/tomcatup/internal/errors"
)

func writeTempFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archive.tar.gz")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestVerify(t *testing.T) {
	t.Parallel()

	content := []byte("apache tomcat archive bytes")
	path := writeTempFile(t, content)

	sum := sha512.Sum512(content)
	expected := hex.EncodeToString(sum[:])

	require.NoError(t, Verify(path, AlgorithmSHA512, expected))

	// Uppercase digests from some mirrors still verify.
	require.NoError(t, Verify(path, AlgorithmSHA512, strings.ToUpper(expected)))

	err := Verify(path, AlgorithmSHA512, strings.Repeat("0", 128))
	require.Error(t, err)
	assert.True(t, errors.Is(err, &tcerrors.Error{Code: tcerrors.CodeChecksumMismatch}))
}

func TestCalculate_UnsupportedAlgorithm(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, []byte("x"))
	_, err := Calculate(path, Algorithm("md5"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported hash algorithm")
}

func TestDetectAlgorithm(t *testing.T) {
	t.Parallel()

	assert.Equal(t, AlgorithmSHA256, DetectAlgorithm(strings.Repeat("a", 64)))
	assert.Equal(t, AlgorithmSHA512, DetectAlgorithm(strings.Repeat("a", 128)))
	assert.Equal(t, Algorithm(""), DetectAlgorithm("short"))
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	digest := strings.Repeat("ab", 64) // 128 hex chars

	tests := []struct {
		name     string
		data     string
		filename string
		wantAlg  Algorithm
		wantErr  bool
	}{
		{
			name:     "standard two-space format",
			data:     digest + "  apache-tomcat-10.1.50.tar.gz\n",
			filename: "apache-tomcat-10.1.50.tar.gz",
			wantAlg:  AlgorithmSHA512,
		},
		{
			name:     "binary-mode asterisk",
			data:     digest + " *apache-tomcat-10.1.50.tar.gz\n",
			filename: "apache-tomcat-10.1.50.tar.gz",
			wantAlg:  AlgorithmSHA512,
		},
		{
			name:     "single bare digest",
			data:     digest + "\n",
			filename: "anything.tar.gz",
			wantAlg:  AlgorithmSHA512,
		},
		{
			name:     "filename not listed",
			data:     digest + "  other-file.tar.gz\n",
			filename: "apache-tomcat-10.1.50.tar.gz",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			alg, got, err := ParseFile([]byte(tt.data), tt.filename)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAlg, alg)
			assert.Equal(t, digest, got)
		})
	}
}
