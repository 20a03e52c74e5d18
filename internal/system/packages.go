package system

import (
	"context"
	"log/slog"
)

// BasePackages are the OS packages an install needs: a JDK for the runtime,
// the ACL tool for default permissions, and HTTP/JSON utilities Tomcat
// admins expect on the host.
var BasePackages = []string{"default-jdk", "acl", "curl", "wget", "jq"}

// Packages installs OS packages through apt-get.
type Packages struct {
	runner Runner
}

// NewPackages creates a Packages adapter.
func NewPackages(runner Runner) *Packages {
	return &Packages{runner: runner}
}

// Install installs the named packages non-interactively. apt-get is
// idempotent for already-installed packages, so re-runs are safe.
func (p *Packages) Install(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}

	slog.Info("installing OS packages", "packages", names)

	args := append([]string{"install", "-y", "--no-install-recommends"}, names...)
	return p.runner.Run(ctx, "apt-get", args...)
}

// Update refreshes the package index.
func (p *Packages) Update(ctx context.Context) error {
	return p.runner.Run(ctx, "apt-get", "update")
}
