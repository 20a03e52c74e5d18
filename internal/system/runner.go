// Package system wraps the external OS tools tomcatup drives: the package
// manager, user database, permission utilities, and systemd. Every adapter
// takes a Runner so orchestration logic can be tested against fakes.
package system

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	tcerrors "github.com/tomcatup/tomcatup/internal/errors"
)

// Runner executes external commands. Satisfied by *ExecRunner and by test fakes.
type Runner interface {
	// Run executes a command and fails on non-zero exit.
	Run(ctx context.Context, name string, args ...string) error

	// Output executes a command and captures trimmed stdout.
	Output(ctx context.Context, name string, args ...string) (string, error)

	// Check executes a command and reports whether it exited zero.
	Check(ctx context.Context, name string, args ...string) bool
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct{}

// NewRunner creates a Runner backed by os/exec.
func NewRunner() *ExecRunner {
	return &ExecRunner{}
}

var _ Runner = (*ExecRunner)(nil)

// Run executes a command and fails on non-zero exit.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	slog.Debug("executing command", "command", name, "args", args)

	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		slog.Error("command failed", "command", name, "args", args, "error", err, "output", string(output))
		return &tcerrors.Error{
			Category: tcerrors.CategorySystem,
			Code:     tcerrors.CodeCommandFailed,
			Message:  fmt.Sprintf("command failed: %s %s", name, strings.Join(args, " ")),
			Details:  map[string]any{"output": strings.TrimSpace(string(output))},
			Cause:    err,
		}
	}

	slog.Debug("command succeeded", "command", name)
	return nil
}

// Output executes a command and captures trimmed stdout.
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	slog.Debug("capturing command output", "command", name, "args", args)

	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		return "", &tcerrors.Error{
			Category: tcerrors.CategorySystem,
			Code:     tcerrors.CodeCommandFailed,
			Message:  fmt.Sprintf("command failed: %s %s", name, strings.Join(args, " ")),
			Cause:    err,
		}
	}

	return strings.TrimSpace(string(out)), nil
}

// Check executes a command and reports whether it exited zero.
func (r *ExecRunner) Check(ctx context.Context, name string, args ...string) bool {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Run() == nil
}
