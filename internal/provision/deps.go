// Package provision runs the ordered install and uninstall pipelines.
package provision

import (
	"context"

	"github.com/tomcatup/tomcatup/internal/download"
	"github.com/tomcatup/tomcatup/internal/driver"
	"github.com/tomcatup/tomcatup/internal/system"
)

// PackageInstaller installs OS packages; satisfied by *system.Packages.
type PackageInstaller interface {
	Install(ctx context.Context, names ...string) error
}

// AccountManager manages system users and groups; satisfied by *system.Accounts.
type AccountManager interface {
	EnsureGroup(ctx context.Context, name string) error
	EnsureUser(ctx context.Context, name, group, homeDir string) error
	AddToGroup(ctx context.Context, user, group string) error
	RemoveFromGroup(ctx context.Context, user, group string) error
	DeleteUser(ctx context.Context, name string) error
	DeleteGroup(ctx context.Context, name string) error
}

// PermissionManager applies ownership, modes, and ACLs; satisfied by
// *system.Permissions.
type PermissionManager interface {
	Chown(ctx context.Context, path, owner, group string) error
	ChownRecursive(ctx context.Context, path, owner, group string) error
	Chmod(ctx context.Context, path, mode string) error
	GroupWritableRecursive(ctx context.Context, path string) error
	ApplyDefaultACL(ctx context.Context, path, group string) error
}

// FileManager mutates privileged paths through the elevated runner;
// satisfied by *system.Files.
type FileManager interface {
	MkdirAll(ctx context.Context, path string) error
	WriteFile(ctx context.Context, path, content, mode string) error
	CopyTree(ctx context.Context, srcDir, destDir string) error
	RemoveAll(ctx context.Context, path string) error
}

// ServiceManager manages the systemd unit; satisfied by *system.Systemd.
type ServiceManager interface {
	UnitExists(name string) bool
	WriteUnit(ctx context.Context, name string, p system.UnitParams) error
	RemoveUnit(ctx context.Context, name string) error
	DaemonReload(ctx context.Context) error
	Enable(ctx context.Context, name string) error
	Disable(ctx context.Context, name string) error
	Start(ctx context.Context, name string) error
	Stop(ctx context.Context, name string) error
	IsActive(ctx context.Context, name string) bool
	IsEnabled(ctx context.Context, name string) bool
	Status(ctx context.Context, name string) (string, error)
}

// VersionResolver resolves release versions and archive locations;
// satisfied by *dist.Resolver.
type VersionResolver interface {
	LatestVersion(ctx context.Context, major int) (string, error)
	ArchiveURL(version string) (string, error)
	ChecksumURL(version string) (string, error)
}

// DriverInstaller installs a JDBC driver jar; satisfied by *driver.Fetcher.
type DriverInstaller interface {
	Install(ctx context.Context, spec driver.Spec, libDir, owner, group string) error
}

// Deps bundles the adapters the pipelines run against.
type Deps struct {
	Packages   PackageInstaller
	Accounts   AccountManager
	Perms      PermissionManager
	Files      FileManager
	Systemd    ServiceManager
	Resolver   VersionResolver
	Downloader download.Downloader
	Drivers    DriverInstaller

	// DriverSpecs defaults to driver.DefaultSpecs().
	DriverSpecs []driver.Spec

	// JavaHome detects JAVA_HOME; defaults to system.DetectJavaHome
	// over a plain runner (detection needs no privileges).
	JavaHome func(ctx context.Context) (string, error)

	// Progress reports download progress; nil disables reporting.
	Progress download.ProgressCallback
}
