package provision

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tomcatup/tomcatup/internal/config"
	tcerrors "github.com/tomcatup/tomcatup/internal/errors"
	"github.com/tomcatup/tomcatup/internal/state"
)

// Uninstaller tears down one Tomcat major version.
type Uninstaller struct {
	run  *config.Run
	deps Deps

	// otherInstallsRemain guards shared temp dir removal; swappable in tests.
	otherInstallsRemain func() bool
}

// NewUninstaller creates an Uninstaller for the given run configuration.
func NewUninstaller(run *config.Run, deps Deps) *Uninstaller {
	return &Uninstaller{
		run:  run,
		deps: deps,
		otherInstallsRemain: func() bool {
			return state.OtherInstallsRemain(run.Settings.InstallRoot, run.Major)
		},
	}
}

// Uninstall removes the service, accounts, and files of one major version.
// Group membership is removed strictly before the user is deleted; the
// shared temp area survives as long as any other major version is installed.
// Every step is a no-op when its target is already gone.
func (un *Uninstaller) Uninstall(ctx context.Context) error {
	s := un.run.Settings
	name := s.ServiceName(un.run.Major)
	installDir := s.InstallDir(un.run.Major)

	slog.Info("uninstalling Tomcat", "major", un.run.Major, "dir", installDir)

	steps := []step{
		{name: "remove service", run: un.removeService},
		{name: "revoke invoking user access", run: un.revokeUserAccess},
		{name: "delete service account", run: un.deleteServiceAccount},
		{name: "remove installation directory", run: func(ctx context.Context) error {
			return un.deps.Files.RemoveAll(ctx, installDir)
		}},
		{name: "remove shared temp directory", run: un.removeSharedTemp},
	}

	for i, st := range steps {
		slog.Info("step", "n", fmt.Sprintf("%d/%d", i+1, len(steps)), "name", st.name)
		if err := st.run(ctx); err != nil {
			return &tcerrors.Error{
				Category: tcerrors.CategoryInstall,
				Code:     tcerrors.CodeUninstallFailed,
				Message:  fmt.Sprintf("uninstall step %q failed", st.name),
				Details:  map[string]any{"step": i + 1, "service": name},
				Cause:    err,
			}
		}
	}

	slog.Info("uninstalled", "major", un.run.Major)
	return nil
}

func (un *Uninstaller) removeService(ctx context.Context) error {
	name := un.run.Settings.ServiceName(un.run.Major)

	if un.deps.Systemd.IsActive(ctx, name) {
		if err := un.deps.Systemd.Stop(ctx, name); err != nil {
			return err
		}
	}
	if un.deps.Systemd.IsEnabled(ctx, name) {
		if err := un.deps.Systemd.Disable(ctx, name); err != nil {
			return err
		}
	}
	if !un.deps.Systemd.UnitExists(name) {
		return nil
	}
	if err := un.deps.Systemd.RemoveUnit(ctx, name); err != nil {
		return err
	}
	return un.deps.Systemd.DaemonReload(ctx)
}

func (un *Uninstaller) revokeUserAccess(ctx context.Context) error {
	s := un.run.Settings
	if un.run.InvokingUser == "" || un.run.InvokingUser == s.ServiceUser {
		return nil
	}
	return un.deps.Accounts.RemoveFromGroup(ctx, un.run.InvokingUser, s.ServiceGroup)
}

func (un *Uninstaller) deleteServiceAccount(ctx context.Context) error {
	s := un.run.Settings
	if err := un.deps.Accounts.DeleteUser(ctx, s.ServiceUser); err != nil {
		return err
	}
	return un.deps.Accounts.DeleteGroup(ctx, s.ServiceGroup)
}

func (un *Uninstaller) removeSharedTemp(ctx context.Context) error {
	if un.otherInstallsRemain() {
		slog.Info("keeping shared temp directory, other installations remain",
			"dir", un.run.Settings.SharedTempDir)
		return nil
	}
	return un.deps.Files.RemoveAll(ctx, un.run.Settings.SharedTempDir)
}
