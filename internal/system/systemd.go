package system

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/template"
)

// DefaultUnitDir is where generated unit files are installed.
const DefaultUnitDir = "/etc/systemd/system"

// unitTemplate is the generated service definition. Tomcat's startup.sh
// forks, hence Type=forking; the three CATALINA_* variables tell the
// scripts where the runtime lives.
const unitTemplate = `[Unit]
Description=Apache Tomcat {{.Major}}
After=network.target

[Service]
Type=forking
User={{.User}}
Group={{.Group}}
Environment="JAVA_HOME={{.JavaHome}}"
Environment="CATALINA_HOME={{.InstallDir}}"
Environment="CATALINA_BASE={{.InstallDir}}"
Environment="CATALINA_PID={{.InstallDir}}/temp/tomcat.pid"
ExecStart={{.InstallDir}}/bin/startup.sh
ExecStop={{.InstallDir}}/bin/shutdown.sh
Restart=on-failure
RestartSec=10

[Install]
WantedBy=multi-user.target
`

// UnitParams parameterize the generated unit file.
type UnitParams struct {
	Major      int
	InstallDir string
	JavaHome   string
	User       string
	Group      string
}

// Systemd manages the Tomcat service unit. Unit files live under /etc, so
// writes and removals go through the runner-backed Files adapter.
type Systemd struct {
	runner  Runner
	files   *Files
	unitDir string
}

// NewSystemd creates a Systemd adapter writing units to DefaultUnitDir.
func NewSystemd(runner Runner) *Systemd {
	return NewSystemdWithUnitDir(runner, DefaultUnitDir)
}

// NewSystemdWithUnitDir creates a Systemd adapter with a custom unit
// directory (for testing).
func NewSystemdWithUnitDir(runner Runner, unitDir string) *Systemd {
	return &Systemd{runner: runner, files: NewFiles(runner), unitDir: unitDir}
}

// UnitPath returns the path of the unit file for a service name.
func (s *Systemd) UnitPath(name string) string {
	return filepath.Join(s.unitDir, name+".service")
}

// UnitExists reports whether the unit file is installed.
func (s *Systemd) UnitExists(name string) bool {
	_, err := os.Stat(s.UnitPath(name))
	return err == nil
}

// RenderUnit renders the unit file contents for the given parameters.
func RenderUnit(p UnitParams) (string, error) {
	tmpl, err := template.New("unit").Parse(unitTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse unit template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("failed to render unit template: %w", err)
	}
	return buf.String(), nil
}

// WriteUnit renders and installs the unit file for a service name.
func (s *Systemd) WriteUnit(ctx context.Context, name string, p UnitParams) error {
	content, err := RenderUnit(p)
	if err != nil {
		return err
	}

	path := s.UnitPath(name)
	slog.Info("writing service unit", "path", path)
	if err := s.files.WriteFile(ctx, path, content, "644"); err != nil {
		return fmt.Errorf("failed to write unit file %s: %w", path, err)
	}
	return nil
}

// RemoveUnit deletes the unit file if present.
func (s *Systemd) RemoveUnit(ctx context.Context, name string) error {
	path := s.UnitPath(name)
	if err := s.files.RemoveAll(ctx, path); err != nil {
		return fmt.Errorf("failed to remove unit file %s: %w", path, err)
	}
	return nil
}

// DaemonReload reloads the systemd manager configuration.
func (s *Systemd) DaemonReload(ctx context.Context) error {
	return s.runner.Run(ctx, "systemctl", "daemon-reload")
}

// Enable enables the service at boot.
func (s *Systemd) Enable(ctx context.Context, name string) error {
	return s.runner.Run(ctx, "systemctl", "enable", name+".service")
}

// Disable disables the service at boot.
func (s *Systemd) Disable(ctx context.Context, name string) error {
	return s.runner.Run(ctx, "systemctl", "disable", name+".service")
}

// Start starts the service.
func (s *Systemd) Start(ctx context.Context, name string) error {
	return s.runner.Run(ctx, "systemctl", "start", name+".service")
}

// Stop stops the service.
func (s *Systemd) Stop(ctx context.Context, name string) error {
	return s.runner.Run(ctx, "systemctl", "stop", name+".service")
}

// IsActive reports whether the service is currently running.
func (s *Systemd) IsActive(ctx context.Context, name string) bool {
	return s.runner.Check(ctx, "systemctl", "is-active", "--quiet", name+".service")
}

// IsEnabled reports whether the service is enabled at boot.
func (s *Systemd) IsEnabled(ctx context.Context, name string) bool {
	return s.runner.Check(ctx, "systemctl", "is-enabled", "--quiet", name+".service")
}

// Status captures the human-readable service status.
func (s *Systemd) Status(ctx context.Context, name string) (string, error) {
	return s.runner.Output(ctx, "systemctl", "status", "--no-pager", name+".service")
}
