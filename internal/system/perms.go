package system

import (
	"context"
	"fmt"
)

// Permissions applies ownership, mode, and ACL changes through the external
// chown/chmod/setfacl tools, which handle recursion and named owners.
type Permissions struct {
	runner Runner
}

// NewPermissions creates a Permissions adapter.
func NewPermissions(runner Runner) *Permissions {
	return &Permissions{runner: runner}
}

// Chown sets the owner and group of a single path.
func (p *Permissions) Chown(ctx context.Context, path, owner, group string) error {
	return p.runner.Run(ctx, "chown", fmt.Sprintf("%s:%s", owner, group), path)
}

// ChownRecursive sets the owner and group of a directory tree.
func (p *Permissions) ChownRecursive(ctx context.Context, path, owner, group string) error {
	return p.runner.Run(ctx, "chown", "-R", fmt.Sprintf("%s:%s", owner, group), path)
}

// Chmod sets the mode of a single path (symbolic or octal).
func (p *Permissions) Chmod(ctx context.Context, path, mode string) error {
	return p.runner.Run(ctx, "chmod", mode, path)
}

// GroupWritableRecursive makes a directory tree writable by its group.
func (p *Permissions) GroupWritableRecursive(ctx context.Context, path string) error {
	return p.runner.Run(ctx, "chmod", "-R", "g+w", path)
}

// ApplyDefaultACL installs a default group ACL on a directory so files
// dropped there later inherit group read/write access, plus a matching
// access ACL on what already exists.
func (p *Permissions) ApplyDefaultACL(ctx context.Context, path, group string) error {
	entry := fmt.Sprintf("g:%s:rwX", group)
	if err := p.runner.Run(ctx, "setfacl", "-R", "-m", entry, path); err != nil {
		return err
	}
	return p.runner.Run(ctx, "setfacl", "-R", "-d", "-m", entry, path)
}
