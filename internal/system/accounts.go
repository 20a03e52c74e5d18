package system

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Accounts provisions and removes the dedicated system user and group.
type Accounts struct {
	runner Runner
}

// NewAccounts creates an Accounts adapter.
func NewAccounts(runner Runner) *Accounts {
	return &Accounts{runner: runner}
}

// GroupExists reports whether a group is present in the group database.
func (a *Accounts) GroupExists(ctx context.Context, name string) bool {
	return a.runner.Check(ctx, "getent", "group", name)
}

// UserExists reports whether a user is present in the passwd database.
func (a *Accounts) UserExists(ctx context.Context, name string) bool {
	return a.runner.Check(ctx, "getent", "passwd", name)
}

// EnsureGroup creates a system group if it does not already exist.
func (a *Accounts) EnsureGroup(ctx context.Context, name string) error {
	if a.GroupExists(ctx, name) {
		slog.Debug("group already exists", "group", name)
		return nil
	}
	return a.runner.Run(ctx, "groupadd", "--system", name)
}

// EnsureUser creates a system user with the given primary group and home
// directory if it does not already exist. The account gets no login shell.
func (a *Accounts) EnsureUser(ctx context.Context, name, group, homeDir string) error {
	if a.UserExists(ctx, name) {
		slog.Debug("user already exists", "user", name)
		return nil
	}
	return a.runner.Run(ctx, "useradd",
		"--system",
		"--gid", group,
		"--home-dir", homeDir,
		"--shell", "/usr/sbin/nologin",
		name)
}

// AddToGroup adds user to group as a supplementary membership.
func (a *Accounts) AddToGroup(ctx context.Context, user, group string) error {
	return a.runner.Run(ctx, "usermod", "-aG", group, user)
}

// RemoveFromGroup removes user's supplementary membership in group.
// Missing membership is not an error; teardown must be re-runnable.
func (a *Accounts) RemoveFromGroup(ctx context.Context, user, group string) error {
	if !a.IsMember(ctx, user, group) {
		slog.Debug("membership already absent", "user", user, "group", group)
		return nil
	}
	if err := a.runner.Run(ctx, "gpasswd", "-d", user, group); err != nil {
		return fmt.Errorf("failed to remove %s from group %s: %w", user, group, err)
	}
	return nil
}

// IsMember reports whether user has a membership in group.
func (a *Accounts) IsMember(ctx context.Context, user, group string) bool {
	out, err := a.runner.Output(ctx, "id", "-nG", user)
	if err != nil {
		return false
	}
	for _, g := range strings.Fields(out) {
		if g == group {
			return true
		}
	}
	return false
}

// DeleteUser removes a user account. Deleting the user usually removes its
// primary group as well.
func (a *Accounts) DeleteUser(ctx context.Context, name string) error {
	if !a.UserExists(ctx, name) {
		slog.Debug("user already absent", "user", name)
		return nil
	}
	return a.runner.Run(ctx, "userdel", name)
}

// DeleteGroup removes a group if it still exists.
func (a *Accounts) DeleteGroup(ctx context.Context, name string) error {
	if !a.GroupExists(ctx, name) {
		slog.Debug("group already absent", "group", name)
		return nil
	}
	return a.runner.Run(ctx, "groupdel", name)
}
