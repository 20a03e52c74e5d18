package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	t.Parallel()

	s := DefaultSettings()
	assert.Equal(t, DefaultMirrorURL, s.MirrorURL)
	assert.Equal(t, DefaultInstallRoot, s.InstallRoot)
	assert.Equal(t, DefaultServiceUser, s.ServiceUser)
}

func TestLoadSettings_NoFile(t *testing.T) {
	t.Parallel()

	s, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoadSettings_PartialOverride(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
mirrorURL: https://archive.apache.org/dist/tomcat
heapMax: 2048m
`), 0o644))

	s, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "https://archive.apache.org/dist/tomcat", s.MirrorURL)
	assert.Equal(t, "2048m", s.HeapMax)
	// Untouched fields keep defaults
	assert.Equal(t, DefaultHeapMin, s.HeapMin)
	assert.Equal(t, DefaultServiceUser, s.ServiceUser)
}

func TestLoadSettings_Invalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mirrorURL: [not: valid"), 0o644))

	_, err := LoadSettings(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestSettings_Paths(t *testing.T) {
	t.Parallel()

	s := DefaultSettings()
	assert.Equal(t, "/opt/tomcat10", s.InstallDir(10))
	assert.Equal(t, "tomcat10", s.ServiceName(10))
	assert.Equal(t, "-Djava.awt.headless=true -Xms512m -Xmx1024m", s.JavaOpts())
}

func TestInvokingUser_SudoUser(t *testing.T) {
	t.Setenv("SUDO_USER", "alice")
	assert.Equal(t, "alice", InvokingUser())
}
