package provision

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tomcatup/tomcatup/internal/config"
	"github.com/tomcatup/tomcatup/internal/driver"
	tcerrors "github.com/tomcatup/tomcatup/internal/errors"
	"github.com/tomcatup/tomcatup/internal/extract"
	"github.com/tomcatup/tomcatup/internal/system"
)

// setenvTemplate is the startup environment script written into bin/.
// catalina.sh sources it on every start.
const setenvTemplate = `#!/bin/sh
export JAVA_OPTS="%s"
`

// Report summarizes a completed installation.
type Report struct {
	Major      int
	Version    string
	InstallDir string
	Service    string
	Status     string

	// Warnings are non-fatal step failures (driver installs).
	Warnings []string
}

// step is one named unit of the install pipeline.
type step struct {
	name string
	run  func(ctx context.Context) error

	// warnOnly failures are recorded on the report instead of
	// aborting the pipeline.
	warnOnly bool
}

// Installer provisions one Tomcat major version end to end.
type Installer struct {
	run  *config.Run
	deps Deps

	version string
	report  *Report

	// extractFn unpacks the downloaded archive; swappable in tests.
	extractFn func(archivePath, destDir string) error
}

// NewInstaller creates an Installer for the given run configuration.
func NewInstaller(run *config.Run, deps Deps) *Installer {
	if deps.DriverSpecs == nil {
		deps.DriverSpecs = driver.DefaultSpecs()
	}
	if deps.JavaHome == nil {
		deps.JavaHome = func(ctx context.Context) (string, error) {
			return system.DetectJavaHome(ctx, system.NewRunner())
		}
	}
	return &Installer{
		run:       run,
		deps:      deps,
		extractFn: extractArchive,
	}
}

// Install resolves the latest release of the requested major version and
// runs the install pipeline. Steps run in order and fail fast; driver
// installs degrade to warnings. There is no rollback, but every step
// tolerates leftovers from a prior partial run.
func (in *Installer) Install(ctx context.Context) (*Report, error) {
	version, err := in.deps.Resolver.LatestVersion(ctx, in.run.Major)
	if err != nil {
		return nil, err
	}
	in.version = version
	in.report = &Report{
		Major:      in.run.Major,
		Version:    version,
		InstallDir: in.installDir(),
		Service:    in.serviceName(),
	}

	slog.Info("installing Tomcat",
		"major", in.run.Major,
		"version", version,
		"dir", in.installDir(),
	)

	steps := []step{
		{name: "install base packages", run: in.installPackages},
		{name: "download and extract archive", run: in.downloadAndExtract},
		{name: "create service account", run: in.createServiceAccount},
		{name: "apply ownership and ACLs", run: in.applyPermissions},
		{name: "create working directories", run: in.createWorkingDirs},
		{name: "grant invoking user access", run: in.grantUserAccess},
		{name: "install JDBC drivers", run: in.installDrivers, warnOnly: true},
		{name: "write startup environment", run: in.writeSetenv},
		{name: "install systemd unit", run: in.installUnit},
		{name: "enable and start service", run: in.startService},
	}

	for i, s := range steps {
		slog.Info("step", "n", fmt.Sprintf("%d/%d", i+1, len(steps)), "name", s.name)
		if err := s.run(ctx); err != nil {
			if s.warnOnly {
				slog.Warn("step failed, continuing", "name", s.name, "error", err)
				in.report.Warnings = append(in.report.Warnings, fmt.Sprintf("%s: %v", s.name, err))
				continue
			}
			return nil, &tcerrors.Error{
				Category: tcerrors.CategoryInstall,
				Code:     tcerrors.CodeInstallFailed,
				Message:  fmt.Sprintf("install step %q failed", s.name),
				Details:  map[string]any{"step": i + 1, "version": version},
				Cause:    err,
			}
		}
	}

	return in.report, nil
}

func (in *Installer) settings() *config.Settings { return in.run.Settings }

func (in *Installer) installDir() string { return in.settings().InstallDir(in.run.Major) }

func (in *Installer) serviceName() string { return in.settings().ServiceName(in.run.Major) }

func (in *Installer) installPackages(ctx context.Context) error {
	return in.deps.Packages.Install(ctx, system.BasePackages...)
}

func (in *Installer) downloadAndExtract(ctx context.Context) error {
	archiveURL, err := in.deps.Resolver.ArchiveURL(in.version)
	if err != nil {
		return err
	}
	checksumURL, err := in.deps.Resolver.ChecksumURL(in.version)
	if err != nil {
		return err
	}

	tmpDir, err := os.MkdirTemp("", "tomcatup-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	archivePath := filepath.Join(tmpDir, filepath.Base(archiveURL))
	if _, err := in.deps.Downloader.DownloadWithProgress(ctx, archiveURL, archivePath, in.deps.Progress); err != nil {
		return err
	}

	if err := in.deps.Downloader.VerifyFromURL(ctx, archivePath, checksumURL); err != nil {
		return err
	}

	// Extract into the scoped temp dir, then move into the privileged
	// install root through the elevated runner.
	extractDir := filepath.Join(tmpDir, "extracted")
	if err := os.MkdirAll(extractDir, 0o755); err != nil {
		return fmt.Errorf("failed to create extraction directory: %w", err)
	}
	if err := in.extractFn(archivePath, extractDir); err != nil {
		return err
	}

	if err := in.deps.Files.MkdirAll(ctx, in.installDir()); err != nil {
		return err
	}
	return in.deps.Files.CopyTree(ctx, extractDir, in.installDir())
}

func (in *Installer) createServiceAccount(ctx context.Context) error {
	s := in.settings()
	if err := in.deps.Accounts.EnsureGroup(ctx, s.ServiceGroup); err != nil {
		return err
	}
	return in.deps.Accounts.EnsureUser(ctx, s.ServiceUser, s.ServiceGroup, in.installDir())
}

func (in *Installer) applyPermissions(ctx context.Context) error {
	s := in.settings()
	dir := in.installDir()

	if err := in.deps.Perms.ChownRecursive(ctx, dir, s.ServiceUser, s.ServiceGroup); err != nil {
		return err
	}
	for _, sub := range []string{"conf", "lib", "webapps"} {
		path := filepath.Join(dir, sub)
		if err := in.deps.Perms.GroupWritableRecursive(ctx, path); err != nil {
			return err
		}
		if err := in.deps.Perms.ApplyDefaultACL(ctx, path, s.ServiceGroup); err != nil {
			return err
		}
	}
	return nil
}

func (in *Installer) createWorkingDirs(ctx context.Context) error {
	s := in.settings()
	vhostDir := filepath.Join(in.installDir(), "conf", "Catalina", "localhost")

	for _, dir := range []string{vhostDir, s.SharedTempDir} {
		if err := in.deps.Files.MkdirAll(ctx, dir); err != nil {
			return err
		}
		if err := in.deps.Perms.ChownRecursive(ctx, dir, s.ServiceUser, s.ServiceGroup); err != nil {
			return err
		}
		if err := in.deps.Perms.ApplyDefaultACL(ctx, dir, s.ServiceGroup); err != nil {
			return err
		}
	}
	return nil
}

func (in *Installer) grantUserAccess(ctx context.Context) error {
	s := in.settings()
	if in.run.InvokingUser == "" || in.run.InvokingUser == s.ServiceUser {
		return nil
	}
	return in.deps.Accounts.AddToGroup(ctx, in.run.InvokingUser, s.ServiceGroup)
}

func (in *Installer) installDrivers(ctx context.Context) error {
	s := in.settings()
	libDir := filepath.Join(in.installDir(), "lib")

	var firstErr error
	for _, spec := range in.deps.DriverSpecs {
		if err := in.deps.Drivers.Install(ctx, spec, libDir, s.ServiceUser, s.ServiceGroup); err != nil {
			slog.Warn("driver install failed", "driver", spec.Name, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", spec.Name, err)
			}
		}
	}
	return firstErr
}

func (in *Installer) writeSetenv(ctx context.Context) error {
	s := in.settings()
	path := filepath.Join(in.installDir(), "bin", "setenv.sh")

	content := fmt.Sprintf(setenvTemplate, s.JavaOpts())
	if err := in.deps.Files.WriteFile(ctx, path, content, "644"); err != nil {
		return fmt.Errorf("failed to write setenv.sh: %w", err)
	}
	return in.deps.Perms.Chown(ctx, path, s.ServiceUser, s.ServiceGroup)
}

func (in *Installer) installUnit(ctx context.Context) error {
	s := in.settings()

	javaHome, err := in.deps.JavaHome(ctx)
	if err != nil {
		return err
	}

	return in.deps.Systemd.WriteUnit(ctx, in.serviceName(), system.UnitParams{
		Major:      in.run.Major,
		InstallDir: in.installDir(),
		JavaHome:   javaHome,
		User:       s.ServiceUser,
		Group:      s.ServiceGroup,
	})
}

func (in *Installer) startService(ctx context.Context) error {
	name := in.serviceName()

	if err := in.deps.Systemd.DaemonReload(ctx); err != nil {
		return err
	}
	if err := in.deps.Systemd.Enable(ctx, name); err != nil {
		return err
	}
	if err := in.deps.Systemd.Start(ctx, name); err != nil {
		return err
	}

	status, err := in.deps.Systemd.Status(ctx, name)
	if err != nil {
		// The service is up; a failed status read is not worth failing for.
		slog.Warn("failed to read service status", "service", name, "error", err)
		status = "unknown"
	}
	in.report.Status = status
	return nil
}

// extractArchive unpacks archivePath into destDir, dropping the wrapping
// apache-tomcat-X.Y.Z/ directory.
func extractArchive(archivePath, destDir string) error {
	archiveType := extract.DetectArchiveType(archivePath)
	if archiveType == "" {
		return fmt.Errorf("unsupported archive format: %s", filepath.Base(archivePath))
	}

	ex, err := extract.NewExtractor(archiveType, extract.WithStripComponents(1))
	if err != nil {
		return err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	return ex.Extract(f, destDir)
}
