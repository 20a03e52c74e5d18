package provision

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func installedEnv(t *testing.T, major int) *testEnv {
	t.Helper()

	env := newTestEnv(t, major)
	_, err := env.installer().Install(context.Background())
	require.NoError(t, err)
	env.log.calls = nil
	return env
}

func TestUninstaller_RemovesEverything(t *testing.T) {
	t.Parallel()

	env := installedEnv(t, 10)
	un := NewUninstaller(env.run, env.deps)

	require.NoError(t, un.Uninstall(context.Background()))

	assert.False(t, env.systemd.UnitExists("tomcat10"))
	assert.False(t, env.systemd.IsActive(context.Background(), "tomcat10"))
	assert.NoDirExists(t, env.run.Settings.InstallDir(10))
	assert.NoDirExists(t, env.run.Settings.SharedTempDir)

	assert.Equal(t, []string{
		"stop tomcat10",
		"disable tomcat10",
		"remove unit tomcat10",
		"daemon-reload",
		"remove alice from tomcat",
		"delete user tomcat",
		"delete group tomcat",
		"rm -rf " + env.run.Settings.InstallDir(10),
		"rm -rf " + env.run.Settings.SharedTempDir,
	}, env.log.calls)
}

// Membership removal must come strictly before user deletion: deleting the
// user first would leave the revocation with nothing to act on.
func TestUninstaller_MembershipRemovedBeforeUserDeletion(t *testing.T) {
	t.Parallel()

	env := installedEnv(t, 10)
	require.NoError(t, NewUninstaller(env.run, env.deps).Uninstall(context.Background()))

	removal := env.log.index("remove alice from tomcat")
	deletion := env.log.index("delete user tomcat")
	require.NotEqual(t, -1, removal)
	require.NotEqual(t, -1, deletion)
	assert.Less(t, removal, deletion)
}

func TestUninstaller_SharedTempSurvivesOtherInstalls(t *testing.T) {
	t.Parallel()

	env := installedEnv(t, 10)

	// A second major version still lives under the install root.
	require.NoError(t, os.MkdirAll(
		filepath.Join(env.run.Settings.InstallRoot, "tomcat9"), 0o755))

	require.NoError(t, NewUninstaller(env.run, env.deps).Uninstall(context.Background()))

	assert.NoDirExists(t, env.run.Settings.InstallDir(10))
	assert.DirExists(t, env.run.Settings.SharedTempDir)
}

func TestUninstaller_CleanSystemIsNoOp(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 10)
	require.NoError(t, NewUninstaller(env.run, env.deps).Uninstall(context.Background()))

	// No service existed, so no systemd commands ran.
	assert.Equal(t, -1, env.log.index("stop tomcat10"))
	assert.Equal(t, -1, env.log.index("disable tomcat10"))
	assert.Equal(t, -1, env.log.index("remove unit tomcat10"))
}

func TestUninstaller_StoppedServiceSkipsStop(t *testing.T) {
	t.Parallel()

	env := installedEnv(t, 10)
	require.NoError(t, env.systemd.Stop(context.Background(), "tomcat10"))
	env.log.calls = nil

	require.NoError(t, NewUninstaller(env.run, env.deps).Uninstall(context.Background()))

	assert.Equal(t, -1, env.log.index("stop tomcat10"))
	assert.NotEqual(t, -1, env.log.index("disable tomcat10"))
}
