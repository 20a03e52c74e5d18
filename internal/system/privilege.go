package system

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// sudoRefreshInterval keeps the cached sudo timestamp alive for the
// lifetime of a long install. sudo's default timeout is 15 minutes.
const sudoRefreshInterval = 60 * time.Second

// geteuid is swappable for tests.
var geteuid = os.Geteuid

// Elevate returns a Runner whose commands run with root privileges.
// When already root, the base runner is returned unchanged. Otherwise
// sudo credentials are validated once and every command is prefixed
// with a non-interactive sudo.
func Elevate(ctx context.Context, base Runner) (Runner, error) {
	if geteuid() == 0 {
		return base, nil
	}

	if err := base.Run(ctx, "sudo", "-v"); err != nil {
		return nil, err
	}

	return &sudoRunner{base: base}, nil
}

// KeepAlive refreshes cached sudo credentials on a ticker until the
// context is canceled. Errors are logged, not fatal; the next privileged
// command surfaces the real failure.
func KeepAlive(ctx context.Context, runner Runner) {
	go func() {
		ticker := time.NewTicker(sudoRefreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := runner.Run(ctx, "sudo", "-n", "true"); err != nil {
					slog.Debug("sudo refresh failed", "error", err)
				}
			}
		}
	}()
}

// sudoRunner prefixes every command with a non-interactive sudo.
type sudoRunner struct {
	base Runner
}

var _ Runner = (*sudoRunner)(nil)

func (r *sudoRunner) Run(ctx context.Context, name string, args ...string) error {
	return r.base.Run(ctx, "sudo", append([]string{"-n", name}, args...)...)
}

func (r *sudoRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	return r.base.Output(ctx, "sudo", append([]string{"-n", name}, args...)...)
}

func (r *sudoRunner) Check(ctx context.Context, name string, args ...string) bool {
	return r.base.Check(ctx, "sudo", append([]string{"-n", name}, args...)...)
}
