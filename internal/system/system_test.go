package system

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcerrors "github.com/tomcatup/tomcatup/internal/errors"
)

func TestExecRunner_Run(t *testing.T) {
	t.Parallel()

	r := NewRunner()
	ctx := context.Background()

	require.NoError(t, r.Run(ctx, "true"))

	err := r.Run(ctx, "false")
	require.Error(t, err)
	assert.True(t, errors.Is(err, &tcerrors.Error{Code: tcerrors.CodeCommandFailed}))
}

func TestExecRunner_Output(t *testing.T) {
	t.Parallel()

	r := NewRunner()
	out, err := r.Output(context.Background(), "echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestExecRunner_Check(t *testing.T) {
	t.Parallel()

	r := NewRunner()
	ctx := context.Background()

	assert.True(t, r.Check(ctx, "true"))
	assert.False(t, r.Check(ctx, "false"))
}

func TestPermissions(t *testing.T) {
	t.Parallel()

	f := newFakeRunner()
	p := NewPermissions(f)
	ctx := context.Background()

	require.NoError(t, p.Chown(ctx, "/opt/tomcat10/lib/driver.jar", "tomcat", "tomcat"))
	require.NoError(t, p.ChownRecursive(ctx, "/opt/tomcat10", "tomcat", "tomcat"))
	require.NoError(t, p.Chmod(ctx, "/opt/tomcat10/lib/driver.jar", "644"))
	require.NoError(t, p.GroupWritableRecursive(ctx, "/opt/tomcat10/conf"))
	require.NoError(t, p.ApplyDefaultACL(ctx, "/opt/tomcat10/conf", "tomcat"))

	assert.Equal(t, []string{
		"chown tomcat:tomcat /opt/tomcat10/lib/driver.jar",
		"chown -R tomcat:tomcat /opt/tomcat10",
		"chmod 644 /opt/tomcat10/lib/driver.jar",
		"chmod -R g+w /opt/tomcat10/conf",
		"setfacl -R -m g:tomcat:rwX /opt/tomcat10/conf",
		"setfacl -R -d -m g:tomcat:rwX /opt/tomcat10/conf",
	}, f.calls)
}

func TestPackages_Install(t *testing.T) {
	t.Parallel()

	f := newFakeRunner()
	p := NewPackages(f)

	require.NoError(t, p.Install(context.Background(), BasePackages...))
	require.Len(t, f.calls, 1)
	assert.Equal(t,
		"apt-get install -y --no-install-recommends default-jdk acl curl wget jq",
		f.calls[0])

	// No packages, no command.
	f.calls = nil
	require.NoError(t, p.Install(context.Background()))
	assert.Empty(t, f.calls)
}

func TestDetectJavaHome(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		output  string
		want    string
		wantErr bool
	}{
		{
			name:   "openjdk alternatives path",
			output: "/usr/lib/jvm/java-17-openjdk-amd64/bin/java",
			want:   "/usr/lib/jvm/java-17-openjdk-amd64",
		},
		{
			name:    "java missing",
			output:  "",
			wantErr: true,
		},
		{
			name:    "unexpected layout",
			output:  "/usr/local/java17",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFakeRunner()
			f.outputs[`sh -c readlink -f "$(command -v java)"`] = tt.output

			got, err := DetectJavaHome(context.Background(), f)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestElevate_AlreadyRoot(t *testing.T) {
	prev := geteuid
	geteuid = func() int { return 0 }
	defer func() { geteuid = prev }()

	f := newFakeRunner()
	r, err := Elevate(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, Runner(f), r)
	assert.Empty(t, f.calls)
}

func TestElevate_Sudo(t *testing.T) {
	prev := geteuid
	geteuid = func() int { return 1000 }
	defer func() { geteuid = prev }()

	f := newFakeRunner()
	r, err := Elevate(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, []string{"sudo -v"}, f.calls)

	require.NoError(t, r.Run(context.Background(), "systemctl", "daemon-reload"))
	assert.Equal(t, "sudo -n systemctl daemon-reload", f.calls[len(f.calls)-1])
}

func TestElevate_Denied(t *testing.T) {
	prev := geteuid
	geteuid = func() int { return 1000 }
	defer func() { geteuid = prev }()

	f := newFakeRunner()
	f.fail["sudo -v"] = errors.New("sudo: a password is required")

	_, err := Elevate(context.Background(), f)
	require.Error(t, err)
}
