package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gofrs/flock"
	"github.com/tomcatup/tomcatup/internal/config"
	"github.com/tomcatup/tomcatup/internal/dist"
	"github.com/tomcatup/tomcatup/internal/download"
	"github.com/tomcatup/tomcatup/internal/driver"
	tcerrors "github.com/tomcatup/tomcatup/internal/errors"
	"github.com/tomcatup/tomcatup/internal/provision"
	"github.com/tomcatup/tomcatup/internal/state"
	"github.com/tomcatup/tomcatup/internal/system"
	"github.com/tomcatup/tomcatup/internal/ui"
)

// automatedMode reports whether the run must not prompt: either requested
// with --debug or forced because stdin/stdout is not a terminal.
func automatedMode() bool {
	return rootCfg.debug || !ui.IsInteractive()
}

// buildRun assembles the immutable run configuration.
func buildRun(major int, uninstall bool) (*config.Run, error) {
	settings, err := config.LoadSettings(config.DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return &config.Run{
		Major:        major,
		Uninstall:    uninstall,
		Automated:    automatedMode(),
		InvokingUser: config.InvokingUser(),
		Settings:     settings,
	}, nil
}

// acquireLock rejects concurrent invocations. The caller must Unlock.
func acquireLock() (*flock.Flock, error) {
	lock := flock.New(config.DefaultLockFile)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", config.DefaultLockFile, err)
	}
	if !locked {
		return nil, &tcerrors.Error{
			Category: tcerrors.CategorySystem,
			Code:     tcerrors.CodeLocked,
			Message:  "another tomcatup instance is running",
			Details:  map[string]any{"lock": config.DefaultLockFile},
			Hint:     "wait for the other run to finish",
		}
	}
	return lock, nil
}

// elevatedRunner validates privileges once and keeps sudo credentials
// fresh until ctx is canceled.
func elevatedRunner(ctx context.Context) (system.Runner, error) {
	runner, err := system.Elevate(ctx, system.NewRunner())
	if err != nil {
		return nil, &tcerrors.Error{
			Category: tcerrors.CategorySystem,
			Code:     tcerrors.CodePrivilegeDenied,
			Message:  "root privileges are required",
			Hint:     "run as root or configure sudo for your user",
			Cause:    err,
		}
	}
	system.KeepAlive(ctx, runner)
	return runner, nil
}

// newDeps wires the live adapters for the pipelines.
func newDeps(settings *config.Settings, runner system.Runner, progress download.ProgressCallback) provision.Deps {
	perms := system.NewPermissions(runner)
	files := system.NewFiles(runner)
	return provision.Deps{
		Packages:   system.NewPackages(runner),
		Accounts:   system.NewAccounts(runner),
		Perms:      perms,
		Files:      files,
		Systemd:    system.NewSystemd(runner),
		Resolver:   dist.NewResolver(dist.WithBaseURL(settings.MirrorURL)),
		Downloader: download.NewDownloader(),
		Drivers:    driver.NewFetcher(nil, files, perms),
		JavaHome: func(ctx context.Context) (string, error) {
			return system.DetectJavaHome(ctx, runner)
		},
		Progress: progress,
	}
}

// chooseMajor returns the requested major version, asking interactively
// when none was given.
func chooseMajor(ctx context.Context, w io.Writer) (int, error) {
	if rootCfg.version != "" {
		return parseMajor(rootCfg.version)
	}

	if automatedMode() {
		return 0, &tcerrors.Error{
			Category: tcerrors.CategoryValidation,
			Code:     tcerrors.CodeMissingArgument,
			Message:  "no Tomcat version given",
			Hint:     "pass the major version with --version, e.g. tomcatup --version 10",
		}
	}

	settings, err := config.LoadSettings(config.DefaultConfigPath)
	if err != nil {
		return 0, err
	}
	majors, err := dist.NewResolver(dist.WithBaseURL(settings.MirrorURL)).AvailableMajors(ctx)
	if err != nil {
		return 0, err
	}

	fmt.Fprintf(w, "Available Tomcat versions: %v\n", majors)
	answer, err := ui.NewPrompter(os.Stdin, w).Ask("major version to install:")
	if err != nil {
		return 0, err
	}
	return parseMajor(answer)
}

func runInstall(ctx context.Context, major int, w io.Writer) error {
	run, err := buildRun(major, false)
	if err != nil {
		return err
	}

	lock, err := acquireLock()
	if err != nil {
		return err
	}
	defer lock.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runner, err := elevatedRunner(ctx)
	if err != nil {
		return err
	}

	progress := ui.NewDownloadProgress(w, fmt.Sprintf("apache-tomcat-%d", major))
	deps := newDeps(run.Settings, runner, progress.Callback())

	var prompt state.PromptFunc
	if !run.Automated {
		prompter := ui.NewPrompter(os.Stdin, w)
		prompt = prompter.AskConflict
	}

	checker := state.NewChecker(state.NewInspector(runner), prompt)
	decision, err := checker.Check(ctx, run.Settings.InstallDir(major), run.Automated)
	if err != nil {
		return err
	}

	switch decision {
	case state.UninstallThenExit:
		if err := provision.NewUninstaller(run, deps).Uninstall(ctx); err != nil {
			return err
		}
		ui.PrintUninstallSummary(w, major)
		return nil
	case state.StopServiceThenExit:
		name := run.Settings.ServiceName(major)
		if deps.Systemd.IsActive(ctx, name) {
			if err := deps.Systemd.Stop(ctx, name); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "stopped %s.service, files untouched\n", name)
		return nil
	case state.ReinstallThenProceed:
		if err := provision.NewUninstaller(run, deps).Uninstall(ctx); err != nil {
			return err
		}
	case state.Proceed:
	}

	report, err := provision.NewInstaller(run, deps).Install(ctx)
	progress.Wait()
	if err != nil {
		return err
	}

	ui.PrintInstallSummary(w, report.Version, report.InstallDir, report.Service, report.Status, report.Warnings)
	return nil
}

func runUninstall(ctx context.Context, major int, w io.Writer) error {
	run, err := buildRun(major, true)
	if err != nil {
		return err
	}

	if !run.Automated {
		ok, err := ui.NewPrompter(os.Stdin, w).Confirm(
			fmt.Sprintf("remove Tomcat %d, its service account, and %s?",
				major, run.Settings.InstallDir(major)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(w, "aborted")
			return nil
		}
	}

	lock, err := acquireLock()
	if err != nil {
		return err
	}
	defer lock.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runner, err := elevatedRunner(ctx)
	if err != nil {
		return err
	}

	deps := newDeps(run.Settings, runner, nil)
	if err := provision.NewUninstaller(run, deps).Uninstall(ctx); err != nil {
		return err
	}

	ui.PrintUninstallSummary(w, major)
	return nil
}

// parseMajorArg parses a positional major version argument.
func parseMajorArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	major, err := strconv.Atoi(args[0])
	if err != nil || major <= 0 {
		return 0, &tcerrors.Error{
			Category: tcerrors.CategoryValidation,
			Code:     tcerrors.CodeInvalidArgument,
			Message:  fmt.Sprintf("invalid major version %q", args[0]),
			Hint:     "list installable versions with: tomcatup versions",
		}
	}
	return major, nil
}
