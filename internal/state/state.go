// Package state inspects the machine for traces of an existing Tomcat
// installation and decides how an install run should react to them.
package state

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"

	tcerrors "github.com/tomcatup/tomcatup/internal/errors"
	"github.com/tomcatup/tomcatup/internal/system"
)

// Decision is the outcome of the pre-install conflict check.
type Decision int

const (
	// Proceed means no conflicting installation exists.
	Proceed Decision = iota

	// UninstallThenExit means the existing installation was (or must be)
	// removed and the run stops without installing.
	UninstallThenExit

	// StopServiceThenExit means only the running service was stopped;
	// no files were touched and the run stops.
	StopServiceThenExit

	// ReinstallThenProceed means the existing installation was removed
	// and installation continues (automated mode).
	ReinstallThenProceed
)

func (d Decision) String() string {
	switch d {
	case Proceed:
		return "proceed"
	case UninstallThenExit:
		return "uninstall-then-exit"
	case StopServiceThenExit:
		return "stop-service-then-exit"
	case ReinstallThenProceed:
		return "reinstall-then-proceed"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// Terminates reports whether the run must stop after acting on the decision.
func (d Decision) Terminates() bool {
	return d == UninstallThenExit || d == StopServiceThenExit
}

// Inspector answers existence questions about the system.
type Inspector interface {
	InstallExists(dir string) bool
	ServiceActive(ctx context.Context, service string) bool
	UserExists(ctx context.Context, name string) bool
}

// systemInspector answers from the live machine.
type systemInspector struct {
	runner  system.Runner
	systemd *system.Systemd
}

// NewInspector returns an Inspector backed by the given command runner.
func NewInspector(runner system.Runner) Inspector {
	return &systemInspector{
		runner:  runner,
		systemd: system.NewSystemd(runner),
	}
}

func (s *systemInspector) InstallExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

func (s *systemInspector) ServiceActive(ctx context.Context, service string) bool {
	return s.systemd.IsActive(ctx, service)
}

func (s *systemInspector) UserExists(ctx context.Context, name string) bool {
	return system.NewAccounts(s.runner).UserExists(ctx, name)
}

// PromptFunc asks the user to choose between the interactive conflict
// options and returns the raw answer.
type PromptFunc func(installDir string) (string, error)

// Checker runs the pre-install conflict check.
type Checker struct {
	inspector Inspector
	prompt    PromptFunc
}

// NewChecker creates a Checker. prompt may be nil for automated-only use.
func NewChecker(inspector Inspector, prompt PromptFunc) *Checker {
	return &Checker{inspector: inspector, prompt: prompt}
}

// Check decides how to handle a pre-existing installation at installDir.
// In automated mode the answer is always Proceed or ReinstallThenProceed,
// so repeating the check yields the same decision. In interactive mode the
// user picks between a full uninstall and stopping the service; any other
// answer is a validation error.
func (c *Checker) Check(ctx context.Context, installDir string, automated bool) (Decision, error) {
	if !c.inspector.InstallExists(installDir) {
		return Proceed, nil
	}

	if automated {
		slog.Warn("existing installation found, reinstalling", "dir", installDir)
		return ReinstallThenProceed, nil
	}

	if c.prompt == nil {
		return Proceed, &tcerrors.Error{
			Category: tcerrors.CategoryState,
			Code:     tcerrors.CodeInvalidChoice,
			Message:  fmt.Sprintf("existing installation at %s and no way to ask", installDir),
			Hint:     "rerun with --debug to reinstall unattended",
		}
	}

	answer, err := c.prompt(installDir)
	if err != nil {
		return Proceed, fmt.Errorf("failed to read answer: %w", err)
	}

	switch answer {
	case "1":
		return UninstallThenExit, nil
	case "2":
		return StopServiceThenExit, nil
	default:
		return Proceed, &tcerrors.Error{
			Category: tcerrors.CategoryValidation,
			Code:     tcerrors.CodeInvalidChoice,
			Message:  fmt.Sprintf("invalid choice %q", answer),
			Details:  map[string]any{"choices": []string{"1", "2"}},
			Hint:     "answer 1 to uninstall or 2 to stop the service",
		}
	}
}

var installDirPattern = regexp.MustCompile(`^tomcat(\d+)$`)

// OtherInstallsRemain reports whether any tomcat<N> install directory other
// than the given major still exists under installRoot. The shared temp area
// is only removable when this is false.
func OtherInstallsRemain(installRoot string, major int) bool {
	entries, err := os.ReadDir(installRoot)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		m := installDirPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n != major {
			return true
		}
	}
	return false
}

// InstalledMajors lists the major versions with an install directory under
// installRoot, sorted by directory iteration order.
func InstalledMajors(installRoot string) []int {
	entries, err := os.ReadDir(installRoot)
	if err != nil {
		return nil
	}
	var majors []int
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if m := installDirPattern.FindStringSubmatch(entry.Name()); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				majors = append(majors, n)
			}
		}
	}
	return majors
}
